package portal

import (
	"strconv"
	"strings"

	"property-poster/config"
	"property-poster/interact"
	"property-poster/models"
	"property-poster/utils"
)

// IndomioMaxImages caps uploads on indomio.al.
const IndomioMaxImages = 15

// indomioTypeLabels maps listing property types to the Albanian option labels.
var indomioTypeLabels = map[string]string{
	"apartment": "Apartament",
	"flat":      "Apartament",
	"house":     "Shtëpi",
	"villa":     "Vilë",
	"office":    "Zyrë",
	"store":     "Dyqan",
	"land":      "Tokë",
	"garage":    "Garazh",
}

// IndomioPropertyType returns the option label for a listing's property type.
// Unknown types are passed through so an already-localized label still works.
func IndomioPropertyType(t string) string {
	if label, ok := indomioTypeLabels[strings.ToLower(strings.TrimSpace(t))]; ok {
		return label
	}
	if t == "" {
		return indomioTypeLabels["apartment"]
	}
	return t
}

// IndomioProfile describes indomio.al: no category step, a richer form, and the
// listing address read from the page URL.
func IndomioProfile() Profile {
	fields := append(basicFields(),
		Field{
			Name:    "property_type",
			Locator: indomioPropertyType,
			Kind:    FieldSelect,
			Value:   func(l models.ListingDetails) string { return IndomioPropertyType(l.PropertyType) },
		},
		Field{
			Name:    "bedrooms",
			Locator: indomioBedrooms,
			Value:   func(l models.ListingDetails) string { return strconv.Itoa(l.Bedrooms) },
		},
		Field{
			Name:    "bathrooms",
			Locator: indomioBathrooms,
			Value:   func(l models.ListingDetails) string { return strconv.Itoa(l.Bathrooms) },
		},
		Field{
			Name:    "area",
			Locator: indomioArea,
			Value:   func(l models.ListingDetails) string { return utils.FormatArea(l.Area) },
		},
	)
	return Profile{
		Site:       "indomio.al",
		Login:      commonLogin(indomioLoginURL),
		PostURL:    indomioPostURL,
		Fields:     fields,
		ImageInput: indomioImages,
		MaxImages:  IndomioMaxImages,
		Submit:     submitButton,
		Success:    indomioSuccess,
		ListingURL: AddressContains{Marker: indomioListingMarker},
	}
}

// NewIndomio returns the indomio.al adapter.
func NewIndomio(timing config.TimingConfig, challenge *interact.ChallengeHandler) *Portal {
	return New(IndomioProfile(), timing, challenge)
}
