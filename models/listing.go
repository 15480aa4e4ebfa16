package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ListingDetails describes one property to publish. Treat it as read-only once built.
type ListingDetails struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Price        string   `json:"price" yaml:"price"`
	Bedrooms     int      `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    int      `json:"bathrooms" yaml:"bathrooms"`
	Area         float64  `json:"area" yaml:"area"`
	Location     string   `json:"location" yaml:"location"`
	City         string   `json:"city" yaml:"city"`
	Address      string   `json:"address" yaml:"address"`
	PropertyType string   `json:"property_type" yaml:"property_type"`
	Features     []string `json:"features" yaml:"features"`
	ContactPhone string   `json:"contact_phone" yaml:"contact_phone"`
	ContactEmail string   `json:"contact_email" yaml:"contact_email"`
	// Upload order follows slice order
	Images []string `json:"images" yaml:"images"`
}

// DefaultPropertyType is used when a listing does not name one.
const DefaultPropertyType = "Apartment"

// UnmarshalJSON accepts price as a string or a bare number.
func (l *ListingDetails) UnmarshalJSON(data []byte) error {
	type plain ListingDetails
	aux := struct {
		*plain
		Price json.RawMessage `json:"price"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Price)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		l.Price = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &l.Price)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		l.Price = n.String()
	}
	return nil
}

// WithDefaults returns a copy with empty optional fields filled in.
func (l ListingDetails) WithDefaults() ListingDetails {
	if l.PropertyType == "" {
		l.PropertyType = DefaultPropertyType
	}
	if l.Features == nil {
		l.Features = []string{}
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	return l
}

// ValidationError reports a listing field that cannot be posted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the invariants a listing must hold before posting.
// Image paths are checked later, by the upload step.
func (l ListingDetails) Validate() error {
	var errs []error
	if l.Title == "" {
		errs = append(errs, &ValidationError{Field: "title", Message: "must not be empty"})
	}
	if l.Bedrooms < 0 {
		errs = append(errs, &ValidationError{Field: "bedrooms", Message: "must not be negative"})
	}
	if l.Bathrooms < 0 {
		errs = append(errs, &ValidationError{Field: "bathrooms", Message: "must not be negative"})
	}
	if l.Area < 0 {
		errs = append(errs, &ValidationError{Field: "area", Message: "must not be negative"})
	}
	return errors.Join(errs...)
}
