package models_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-poster/models"
)

func TestValidate(t *testing.T) {
	ok := models.ListingDetails{Title: "Flat", Bedrooms: 2, Area: 50}
	assert.NoError(t, ok.Validate())

	bad := models.ListingDetails{Bedrooms: -1, Bathrooms: -2, Area: -3}
	err := bad.Validate()

	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
	for _, field := range []string{"title", "bedrooms", "bathrooms", "area"} {
		assert.ErrorContains(t, err, "invalid "+field)
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	l := models.ListingDetails{PropertyType: "Villa", Features: []string{"Pool"}}.WithDefaults()
	assert.Equal(t, "Villa", l.PropertyType)
	assert.Equal(t, []string{"Pool"}, l.Features)
	assert.NotNil(t, l.Images)

	assert.Equal(t, models.DefaultPropertyType, models.ListingDetails{}.WithDefaults().PropertyType)
}

func TestKindOf(t *testing.T) {
	base := models.NewError(models.KindCaptchaTimeout, "challenge", errors.New("gave up"))
	wrapped := fmt.Errorf("njoftime.com: %w", base)

	assert.Equal(t, models.KindCaptchaTimeout, models.KindOf(wrapped))
	assert.Equal(t, models.KindUnexpected, models.KindOf(errors.New("plain")))
	assert.Equal(t, "challenge: gave up", base.Error())
	assert.Equal(t, "login_failure", models.NewError(models.KindLoginFailure, "", nil).Error())
}

func TestUnsupported(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := models.Unsupported("example.com", at)

	assert.False(t, r.Success)
	assert.Equal(t, "Unsupported site: example.com", r.Message)
	assert.Equal(t, models.OutcomeUnsupported, r.Outcome)
	assert.Zero(t, r.Duration())
}

func TestCredentials(t *testing.T) {
	creds := models.Credentials{"njoftime.com": {Username: "ana"}}
	c, ok := creds.Lookup("njoftime.com")
	assert.True(t, ok)
	assert.False(t, c.Complete())

	_, ok = creds.Lookup("indomio.al")
	assert.False(t, ok)
	assert.True(t, models.SiteCredentials{Username: "a", Password: "b"}.Complete())
}

func TestListingPriceAcceptsNumber(t *testing.T) {
	cases := map[string]string{
		`{"title": "a", "price": "85 000 EUR"}`: "85 000 EUR",
		`{"title": "a", "price": 85000}`:        "85000",
		`{"title": "a", "price": 1250.50}`:      "1250.50",
		`{"title": "a", "price": null}`:         "",
		`{"title": "a"}`:                        "",
	}
	for in, want := range cases {
		var l models.ListingDetails
		require.NoError(t, json.Unmarshal([]byte(in), &l), in)
		assert.Equal(t, want, l.Price, in)
		assert.Equal(t, "a", l.Title, in)
	}

	var l models.ListingDetails
	assert.Error(t, json.Unmarshal([]byte(`{"price": true}`), &l))
}
