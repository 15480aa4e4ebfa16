package portal

import (
	"fmt"

	"property-poster/config"
	"property-poster/interact"
	"property-poster/internal/domain"
)

// Registry maps site identifiers to adapters. It is filled once at startup.
type Registry struct {
	adapters map[string]domain.SiteAdapter
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{adapters: map[string]domain.SiteAdapter{}}
}

// DefaultRegistry holds every supported portal.
func DefaultRegistry(timing config.TimingConfig, challenge *interact.ChallengeHandler) *Registry {
	r := NewRegistry()
	r.MustRegister(NewNjoftime(timing, challenge))
	r.MustRegister(NewMerrjep(timing, challenge))
	r.MustRegister(NewIndomio(timing, challenge))
	return r
}

// Register adds a. Registering the same site twice is an error.
func (r *Registry) Register(a domain.SiteAdapter) error {
	site := a.Site()
	if _, dup := r.adapters[site]; dup {
		return fmt.Errorf("site %s already registered", site)
	}
	r.adapters[site] = a
	r.order = append(r.order, site)
	return nil
}

func (r *Registry) MustRegister(a domain.SiteAdapter) {
	if err := r.Register(a); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(site string) (domain.SiteAdapter, bool) {
	a, ok := r.adapters[site]
	return a, ok
}

// Sites lists registered sites in registration order.
func (r *Registry) Sites() []string {
	return append([]string(nil), r.order...)
}
