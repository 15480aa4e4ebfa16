package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"property-poster/models"
)

// ErrSampleCreated is returned by LoadPostingFile when the file was missing and a
// sample was written in its place.
var ErrSampleCreated = errors.New("sample config created")

const listingKey = "property_details"

// PostingFile is the listing plus per-site credentials read from disk.
type PostingFile struct {
	Listing     models.ListingDetails
	Credentials models.Credentials
}

// LoadPostingFile reads path. Site credentials are top-level keys next to
// "property_details"; a nested "credentials" object is accepted as well. Relative
// image paths are resolved against imagesDir, or left as-is when it is empty.
// When path does not exist a sample is written and ErrSampleCreated returned.
func LoadPostingFile(path, imagesDir string) (*PostingFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := WriteSample(path); werr != nil {
			return nil, werr
		}
		return nil, fmt.Errorf("%s: %w", path, ErrSampleCreated)
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var sections map[string]decodable
	if isYAML(path) {
		var nodes map[string]yaml.Node
		if err := yaml.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		sections = make(map[string]decodable, len(nodes))
		for k, n := range nodes {
			sections[k] = yamlSection{n}
		}
	} else {
		var raws map[string]json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		sections = make(map[string]decodable, len(raws))
		for k, r := range raws {
			sections[k] = jsonSection(r)
		}
	}

	pf := &PostingFile{Credentials: models.Credentials{}}
	listing, ok := sections[listingKey]
	if !ok {
		return nil, fmt.Errorf("config %s: no %s found", path, listingKey)
	}
	if err := listing.decode(&pf.Listing); err != nil {
		return nil, fmt.Errorf("config %s: %s: %w", path, listingKey, err)
	}
	pf.Listing = pf.Listing.WithDefaults()
	pf.Listing.Images = ResolveImages(pf.Listing.Images, imagesDir)
	if err := pf.Listing.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	for key, sec := range sections {
		if key == listingKey {
			continue
		}
		if !sec.isObject() {
			log.Printf("[config] %s: ignoring %q, not a credentials object", path, key)
			continue
		}
		switch key {
		case "credentials":
			var nested map[string]models.SiteCredentials
			if err := sec.decode(&nested); err != nil {
				return nil, fmt.Errorf("config %s: credentials: %w", path, err)
			}
			for site, c := range nested {
				pf.Credentials[site] = c
			}
		default:
			var c models.SiteCredentials
			if err := sec.decode(&c); err != nil {
				return nil, fmt.Errorf("config %s: %s: %w", path, key, err)
			}
			pf.Credentials[key] = c
		}
	}
	return pf, nil
}

// ResolveImages joins each relative path in images onto dir.
func ResolveImages(images []string, dir string) []string {
	if dir == "" {
		return images
	}
	out := make([]string, len(images))
	for i, img := range images {
		if img == "" || filepath.IsAbs(img) {
			out[i] = img
			continue
		}
		out[i] = filepath.Join(dir, img)
	}
	return out
}

// CredentialsFromEnv overlays POSTER_<SITE>_USERNAME / POSTER_<SITE>_PASSWORD onto creds
// for each site.
func CredentialsFromEnv(creds models.Credentials, sites []string) models.Credentials {
	if creds == nil {
		creds = models.Credentials{}
	}
	for _, site := range sites {
		prefix := "POSTER_" + EnvKey(site)
		user, uok := os.LookupEnv(prefix + "_USERNAME")
		pass, pok := os.LookupEnv(prefix + "_PASSWORD")
		if !uok && !pok {
			continue
		}
		c := creds[site]
		if uok {
			c.Username = user
		}
		if pok {
			c.Password = pass
		}
		creds[site] = c
	}
	return creds
}

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]+`)

// EnvKey turns a site identifier into an env var fragment: merrjep.al -> MERRJEP_AL.
func EnvKey(site string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToUpper(site), "_"), "_")
}

// WriteSample writes an example posting file to path.
func WriteSample(path string) error {
	sample := map[string]any{
		listingKey: models.ListingDetails{
			Title:        "Beautiful 2-bedroom apartment in central Tirana",
			Description:  "Spacious and modern apartment located in the heart of Tirana...",
			Price:        "85000",
			Bedrooms:     2,
			Bathrooms:    1,
			Area:         85.5,
			Location:     "Tirana",
			City:         "Tirana",
			Address:      "Rruga Myslym Shyri",
			PropertyType: models.DefaultPropertyType,
			Features:     []string{"Balcony", "Parking", "Air Conditioning", "Elevator"},
			ContactPhone: "+355 69 123 4567",
			ContactEmail: "your-email@example.com",
			Images:       []string{"images/image1.jpg", "images/image2.jpg"},
		},
	}
	for _, site := range DefaultSites() {
		sample[site] = models.SiteCredentials{Username: "your_username", Password: "your_password"}
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(sample)
		data = buf.Bytes()
	} else {
		data, err = json.MarshalIndent(sample, "", "    ")
	}
	if err != nil {
		return fmt.Errorf("encode sample config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create sample config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write sample config %s: %w", path, err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

type decodable interface {
	decode(v any) error
	isObject() bool
}

type jsonSection json.RawMessage

func (s jsonSection) decode(v any) error { return json.Unmarshal(s, v) }

func (s jsonSection) isObject() bool {
	b := bytes.TrimSpace(s)
	return len(b) > 0 && b[0] == '{'
}

type yamlSection struct{ node yaml.Node }

func (s yamlSection) decode(v any) error { return s.node.Decode(v) }

func (s yamlSection) isObject() bool { return s.node.Kind == yaml.MappingNode }
