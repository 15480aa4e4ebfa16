package portal

import (
	"property-poster/browser"
	"property-poster/models"
)

func commonLogin(url string) LoginForm {
	return LoginForm{
		URL:      url,
		Username: emailInput,
		Password: passwordInput,
		Submit:   submitButton,
		LoggedIn: logoutLink,
	}
}

// basicFields are the fields every portal asks for, in form order.
func basicFields() []Field {
	return []Field{
		{Name: "title", Locator: titleInput, Value: func(l models.ListingDetails) string { return l.Title }},
		{Name: "description", Locator: descInput, Value: func(l models.ListingDetails) string { return l.Description }},
		{Name: "price", Locator: priceInput, Value: func(l models.ListingDetails) string { return l.Price }},
	}
}
