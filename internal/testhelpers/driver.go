package testhelpers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"property-poster/browser"
)

// FakeDriver is an in-memory page. Elements are keyed by locator and exist until
// removed or until their GoneAt time passes on Clock.
type FakeDriver struct {
	mu       sync.Mutex
	clock    *FakeClock
	elements map[browser.Locator]*FakeElement

	URL         string
	HTML        string
	NavigateErr error
	Navigations []string
	calls       int
	// OnNavigate runs after the URL changes
	OnNavigate func(url string)
}

func NewFakeDriver(clock *FakeClock) *FakeDriver {
	return &FakeDriver{clock: clock, elements: map[browser.Locator]*FakeElement{}}
}

// Add places el on the page at loc and returns it.
func (d *FakeDriver) Add(loc browser.Locator, el *FakeElement) *FakeElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el == nil {
		el = &FakeElement{}
	}
	el.d = d
	el.loc = loc
	d.elements[loc] = el
	return el
}

// Remove takes the element at loc off the page.
func (d *FakeDriver) Remove(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, loc)
}

// Element returns the element at loc, or nil.
func (d *FakeDriver) Element(loc browser.Locator) *FakeElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements[loc]
}

// SetURL changes the current page address without counting as a navigation.
func (d *FakeDriver) SetURL(u string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.URL = u
}

// SetHTML replaces the page markup.
func (d *FakeDriver) SetHTML(html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.HTML = html
}

// Calls counts every driver and element method invocation.
func (d *FakeDriver) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *FakeDriver) touch() {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
}

func (d *FakeDriver) Navigate(ctx context.Context, url string) error {
	d.touch()
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.mu.Lock()
	d.URL = url
	d.Navigations = append(d.Navigations, url)
	hook := d.OnNavigate
	d.mu.Unlock()
	if hook != nil {
		hook(url)
	}
	return nil
}

func (d *FakeDriver) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	d.touch()
	d.mu.Lock()
	el, ok := d.elements[loc]
	d.mu.Unlock()
	if !ok || el.gone() {
		return nil, fmt.Errorf("%s: %w", loc, browser.ErrNoSuchElement)
	}
	if el.FindErr != nil {
		return nil, el.FindErr
	}
	return el, nil
}

func (d *FakeDriver) CurrentURL(ctx context.Context) (string, error) {
	d.touch()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.URL, nil
}

func (d *FakeDriver) PageHTML(ctx context.Context) (string, error) {
	d.touch()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.HTML, nil
}

// FakeElement records what was done to it.
type FakeElement struct {
	d   *FakeDriver
	loc browser.Locator

	Hidden bool
	// Zero means the element never goes away
	GoneAt time.Time
	// Click fails with each error in turn, then with ClickErr if set, then succeeds
	ClickErrs []error
	ClickErr  error
	FindErr   error
	// Paths whose upload fails
	UploadErrs map[string]error
	// When non-nil, SelectByText only accepts these labels
	Options []string
	Attrs   map[string]string
	OnClick func()

	mu       sync.Mutex
	clicks   int
	value    string
	uploads  []string
	selected string
}

var errNotInteractable = errors.New("element not interactable")

func (e *FakeElement) gone() bool {
	if e.GoneAt.IsZero() || e.d == nil || e.d.clock == nil {
		return false
	}
	return !e.d.clock.Now().Before(e.GoneAt)
}

func (e *FakeElement) Displayed(ctx context.Context) (bool, error) {
	e.d.touch()
	return !e.Hidden && !e.gone(), nil
}

func (e *FakeElement) Click(ctx context.Context) error {
	e.d.touch()
	e.mu.Lock()
	e.clicks++
	var err error
	if len(e.ClickErrs) > 0 {
		err = e.ClickErrs[0]
		e.ClickErrs = e.ClickErrs[1:]
	} else if e.ClickErr != nil {
		err = e.ClickErr
	} else if e.Hidden {
		err = errNotInteractable
	}
	hook := e.OnClick
	e.mu.Unlock()
	if err == nil && hook != nil {
		hook()
	}
	return err
}

func (e *FakeElement) Clear(ctx context.Context) error {
	e.d.touch()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = ""
	return nil
}

func (e *FakeElement) Type(ctx context.Context, text string) error {
	e.d.touch()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value += text
	return nil
}

func (e *FakeElement) UploadFile(ctx context.Context, path string) error {
	e.d.touch()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.uploads = append(e.uploads, path)
	if err := e.UploadErrs[path]; err != nil {
		return err
	}
	return nil
}

func (e *FakeElement) SelectByText(ctx context.Context, text string) error {
	e.d.touch()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Options != nil {
		found := false
		for _, o := range e.Options {
			if o == text {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no option %q: %w", text, browser.ErrNoSuchElement)
		}
	}
	e.selected = text
	return nil
}

func (e *FakeElement) Attribute(ctx context.Context, name string) (string, error) {
	e.d.touch()
	return e.Attrs[name], nil
}

// Clicks is the number of click attempts, failed ones included.
func (e *FakeElement) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Value is the text typed since the last Clear.
func (e *FakeElement) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Uploads lists every attempted upload, failed ones included.
func (e *FakeElement) Uploads() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.uploads...)
}

// Selected is the last selected option label.
func (e *FakeElement) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}
