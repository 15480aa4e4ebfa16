package testhelpers

import (
	"property-poster/portal"
)

// ListingPageHTML is the confirmation markup StockPortalPage serves.
const ListingPageHTML = `<html><body><div class="alert-success">ok</div><a href="/listing/42">view</a></body></html>`

// StockPortalPage puts every element profile needs onto drv, so a post with complete
// credentials goes all the way to confirmation.
func StockPortalPage(drv *FakeDriver, profile portal.Profile) {
	lf := profile.Login
	drv.Add(lf.Username, nil)
	drv.Add(lf.Password, nil)
	drv.Add(lf.Submit, nil)
	drv.Add(lf.LoggedIn, &FakeElement{Hidden: true})
	for _, c := range profile.Categories {
		drv.Add(c, nil)
	}
	for _, f := range profile.Fields {
		drv.Add(f.Locator, nil)
		if f.Kind == portal.FieldAutocomplete {
			drv.Add(f.Option, nil)
		}
	}
	drv.Add(profile.ImageInput, nil)
	drv.Add(profile.Submit, nil)
	drv.Add(profile.Success, nil)
	drv.SetHTML(ListingPageHTML)
}
