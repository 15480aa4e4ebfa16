package browser

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSuchElement is returned by Driver.Find when nothing matches the locator.
var ErrNoSuchElement = errors.New("no such element")

// By selects how a Locator's value is interpreted.
type By int

const (
	ByID By = iota
	ByCSS
	ByXPath
)

func (b By) String() string {
	switch b {
	case ByID:
		return "id"
	case ByCSS:
		return "css"
	case ByXPath:
		return "xpath"
	}
	return fmt.Sprintf("By(%d)", int(b))
}

// Locator identifies an element on the current page.
type Locator struct {
	By    By
	Value string
}

func ID(id string) Locator {
	return Locator{By: ByID, Value: id}
}

func CSS(selector string) Locator {
	return Locator{By: ByCSS, Value: selector}
}

func XPath(path string) Locator {
	return Locator{By: ByXPath, Value: path}
}

func (l Locator) String() string {
	return l.By.String() + "=" + l.Value
}

// Driver is the page-level capability set an engine exposes to the poster.
// Find never waits: bounded waits are built on top of it.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Find(ctx context.Context, loc Locator) (Element, error)
	CurrentURL(ctx context.Context) (string, error)
	PageHTML(ctx context.Context) (string, error)
}

// Element is a handle to one node found on the page.
type Element interface {
	Displayed(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
	UploadFile(ctx context.Context, path string) error
	SelectByText(ctx context.Context, text string) error
	Attribute(ctx context.Context, name string) (string, error)
}
