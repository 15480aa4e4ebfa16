package portal

import "property-poster/browser"

// Locators every portal shares.
var (
	emailInput    = browser.ID("email")
	passwordInput = browser.ID("password")
	submitButton  = browser.XPath("//button[@type='submit']")
	logoutLink    = browser.XPath("//a[contains(@href, 'logout')]")
	titleInput    = browser.ID("title")
	descInput     = browser.ID("description")
	priceInput    = browser.ID("price")
	fileInput     = browser.XPath("//input[@type='file']")
	successAlert  = browser.XPath("//div[contains(@class, 'alert-success')]")
)

// listingLinkSelector matches links to a published listing.
const listingLinkSelector = "a[href*='/listing/']"

// njoftime.com
const (
	njoftimeLoginURL = "https://njoftime.com/login"
	njoftimePostURL  = "https://njoftime.com/post-ad"
)

var njoftimeHouseCategory = browser.XPath("//a[contains(text(), 'Shtepi')]")

// merrjep.al
const (
	merrjepLoginURL = "https://www.merrjep.al/login"
	merrjepPostURL  = "https://www.merrjep.al/post-ad"
)

var (
	merrjepPropertyCategory  = browser.XPath("//a[contains(text(), 'Prona')]")
	merrjepApartmentCategory = browser.XPath("//a[contains(text(), 'Apartamente')]")
	merrjepLocationInput     = browser.ID("location")
	merrjepLocationOption    = browser.XPath("//ul[@id='locationlist']/li")
)

// indomio.al
const (
	indomioLoginURL      = "https://indomio.al/login"
	indomioPostURL       = "https://indomio.al/user/properties/add"
	indomioListingMarker = "property"
)

var (
	indomioPropertyType = browser.ID("property_type")
	indomioBedrooms     = browser.ID("bedrooms")
	indomioBathrooms    = browser.ID("bathrooms")
	indomioArea         = browser.ID("area")
	indomioImages       = browser.ID("property_images")
	indomioSuccess      = browser.CSS(".alert-success")
)
