package portal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"property-poster/browser"
)

// errNoListingURL means the confirmation page did not reveal where the listing lives.
var errNoListingURL = errors.New("no listing url on page")

// URLStrategy finds the new listing's address once the success indicator shows.
type URLStrategy interface {
	Discover(ctx context.Context, drv browser.Driver) (string, error)
}

// LinkMatch takes the href of the first link matching a CSS selector on the current page.
// Relative hrefs are resolved against the page address.
type LinkMatch struct {
	Selector string
}

func (m LinkMatch) Discover(ctx context.Context, drv browser.Driver) (string, error) {
	html, err := drv.PageHTML(ctx)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	href, ok := doc.Find(m.Selector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", errNoListingURL
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("listing href %q: %w", href, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	current, err := drv.CurrentURL(ctx)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(current)
	if err != nil || !base.IsAbs() {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}

// AddressContains uses the current page address when it contains Marker.
type AddressContains struct {
	Marker string
}

func (a AddressContains) Discover(ctx context.Context, drv browser.Driver) (string, error) {
	current, err := drv.CurrentURL(ctx)
	if err != nil {
		return "", err
	}
	if !strings.Contains(current, a.Marker) {
		return "", errNoListingURL
	}
	return current, nil
}
