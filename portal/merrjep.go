package portal

import (
	"property-poster/browser"
	"property-poster/config"
	"property-poster/interact"
	"property-poster/models"
)

// MerrjepMaxImages caps uploads on merrjep.al.
const MerrjepMaxImages = 10

// MerrjepProfile describes merrjep.al: two category clicks, the basic form and a city
// picked from the location autocomplete.
func MerrjepProfile() Profile {
	fields := append(basicFields(), Field{
		Name:    "location",
		Locator: merrjepLocationInput,
		Kind:    FieldAutocomplete,
		Value:   func(l models.ListingDetails) string { return l.City },
		Option:  merrjepLocationOption,
	})
	return Profile{
		Site:       "merrjep.al",
		Login:      commonLogin(merrjepLoginURL),
		PostURL:    merrjepPostURL,
		Categories: []browser.Locator{merrjepPropertyCategory, merrjepApartmentCategory},
		Fields:     fields,
		ImageInput: fileInput,
		MaxImages:  MerrjepMaxImages,
		Submit:     submitButton,
		Success:    successAlert,
		ListingURL: LinkMatch{Selector: listingLinkSelector},
	}
}

// NewMerrjep returns the merrjep.al adapter.
func NewMerrjep(timing config.TimingConfig, challenge *interact.ChallengeHandler) *Portal {
	return New(MerrjepProfile(), timing, challenge)
}
