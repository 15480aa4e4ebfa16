package domain

import (
	"context"

	"property-poster/interact"
	"property-poster/models"
)

// SiteAdapter posts a listing to one portal. Post never returns an error: every
// failure ends up in the returned result.
type SiteAdapter interface {
	Site() string
	Post(ctx context.Context, in *interact.Interactor, listing models.ListingDetails, creds models.SiteCredentials) models.PostResult
}

// AdapterRegistry resolves a site identifier to its adapter.
type AdapterRegistry interface {
	Lookup(site string) (SiteAdapter, bool)
}
