package portal

import (
	"property-poster/browser"
	"property-poster/config"
	"property-poster/interact"
)

// NjoftimeMaxImages caps uploads on njoftime.com.
const NjoftimeMaxImages = 5

// NjoftimeProfile describes njoftime.com: a house category link, then the basic form.
func NjoftimeProfile() Profile {
	return Profile{
		Site:       "njoftime.com",
		Login:      commonLogin(njoftimeLoginURL),
		PostURL:    njoftimePostURL,
		Categories: []browser.Locator{njoftimeHouseCategory},
		Fields:     basicFields(),
		ImageInput: fileInput,
		MaxImages:  NjoftimeMaxImages,
		Submit:     submitButton,
		Success:    successAlert,
		ListingURL: LinkMatch{Selector: listingLinkSelector},
	}
}

// NewNjoftime returns the njoftime.com adapter.
func NewNjoftime(timing config.TimingConfig, challenge *interact.ChallengeHandler) *Portal {
	return New(NjoftimeProfile(), timing, challenge)
}
