package models

// SiteCredentials is the login pair for one portal.
type SiteCredentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Complete reports whether both halves of the pair are set.
func (c SiteCredentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Credentials maps a site identifier to its login pair. A site with no entry has no
// credentials configured.
type Credentials map[string]SiteCredentials

// Lookup returns the pair for site and whether one is configured.
func (c Credentials) Lookup(site string) (SiteCredentials, bool) {
	sc, ok := c[site]
	return sc, ok
}
