package portal

import (
	"property-poster/browser"
	"property-poster/models"
)

// FieldKind says how a form field is written.
type FieldKind int

const (
	// FieldText is cleared, then typed into
	FieldText FieldKind = iota
	// FieldSelect picks the option whose visible text equals the value
	FieldSelect
	// FieldAutocomplete is typed into, then its first suggestion is clicked
	FieldAutocomplete
)

// Field is one form input and where its value comes from.
type Field struct {
	Name    string
	Locator browser.Locator
	Kind    FieldKind
	Value   func(models.ListingDetails) string
	// Suggestion to click after typing, for FieldAutocomplete
	Option browser.Locator
}

// LoginForm describes a portal's sign-in page.
type LoginForm struct {
	URL      string
	Username browser.Locator
	Password browser.Locator
	Submit   browser.Locator
	// Present only once signed in
	LoggedIn browser.Locator
}

// Profile is everything that differs between portals. The posting sequence itself
// is shared.
type Profile struct {
	Site  string
	Login LoginForm
	// Listing creation page
	PostURL string
	// Clicked in order after opening PostURL
	Categories []browser.Locator
	// Written in order
	Fields     []Field
	ImageInput browser.Locator
	MaxImages  int
	Submit     browser.Locator
	Success    browser.Locator
	ListingURL URLStrategy
}
