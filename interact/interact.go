// Package interact builds bounded waits, retrying clicks and challenge handling on top
// of a browser.Driver.
package interact

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"property-poster/browser"
	"property-poster/config"
	"property-poster/internal/metrics"
	"property-poster/models"
)

// ErrElementNotFound is returned when a bounded wait runs out.
var ErrElementNotFound = errors.New("element not found")

// Interactor drives one page with the session's timing rules.
type Interactor struct {
	drv    browser.Driver
	clock  Clock
	timing config.TimingConfig
}

// New returns an Interactor over drv. A nil clock means SystemClock.
func New(drv browser.Driver, clock Clock, timing config.TimingConfig) *Interactor {
	if clock == nil {
		clock = SystemClock
	}
	return &Interactor{drv: drv, clock: clock, timing: timing}
}

// Driver returns the underlying page driver.
func (i *Interactor) Driver() browser.Driver { return i.drv }

// Clock returns the time source.
func (i *Interactor) Clock() Clock { return i.clock }

// WaitForElement polls until an element matching loc is present and displayed, or
// timeout elapses. A timeout <= 0 uses the default interaction timeout. On timeout the
// error is tagged models.KindElementNotFound and wraps ErrElementNotFound.
func (i *Interactor) WaitForElement(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Element, error) {
	return i.poll(ctx, loc, timeout, true)
}

// WaitForPresent is WaitForElement without the visibility requirement, for markers
// such as a logout link tucked inside a closed menu.
func (i *Interactor) WaitForPresent(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Element, error) {
	return i.poll(ctx, loc, timeout, false)
}

func (i *Interactor) poll(ctx context.Context, loc browser.Locator, timeout time.Duration, visible bool) (browser.Element, error) {
	if timeout <= 0 {
		timeout = i.timing.DefaultTimeout
	}
	deadline := i.clock.Now().Add(timeout)
	for {
		el, err := i.drv.Find(ctx, loc)
		switch {
		case err == nil:
			if !visible {
				return el, nil
			}
			if ok, derr := el.Displayed(ctx); derr == nil && ok {
				return el, nil
			}
		case !errors.Is(err, browser.ErrNoSuchElement):
			log.Printf("[wait] %s: %v", loc, err)
		}

		if !i.clock.Now().Before(deadline) {
			log.Printf("[wait] Element not found: %s", loc)
			return nil, models.NewError(models.KindElementNotFound, loc.String(), ErrElementNotFound)
		}
		if err := i.clock.Sleep(ctx, i.timing.ElementPoll); err != nil {
			return nil, err
		}
	}
}

// SafeClick clicks el, retrying on failure up to the configured attempt count with a
// pause between attempts. It reports whether a click went through.
func (i *Interactor) SafeClick(ctx context.Context, el browser.Element) bool {
	attempts := i.timing.ClickAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		err := el.Click(ctx)
		if err == nil {
			return true
		}
		metrics.ClickRetries.Inc()
		if attempt == attempts {
			log.Printf("[click] all %d attempts failed: %v", attempts, err)
			break
		}
		log.Printf("[click] attempt #%d failed: %v; retrying in %v", attempt, err, i.timing.ClickRetryDelay)
		if serr := i.clock.Sleep(ctx, i.timing.ClickRetryDelay); serr != nil {
			return false
		}
	}
	return false
}

// Fill waits for the field at loc, clears it and types text.
func (i *Interactor) Fill(ctx context.Context, loc browser.Locator, text string) error {
	el, err := i.WaitForElement(ctx, loc, 0)
	if err != nil {
		return err
	}
	if err := el.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s: %w", loc, err)
	}
	if err := el.Type(ctx, text); err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	return nil
}

// Select waits for the <select> at loc and picks the option showing label.
func (i *Interactor) Select(ctx context.Context, loc browser.Locator, label string) error {
	el, err := i.WaitForElement(ctx, loc, 0)
	if err != nil {
		return err
	}
	if err := el.SelectByText(ctx, label); err != nil {
		return fmt.Errorf("select %q in %s: %w", label, loc, err)
	}
	return nil
}

// ClickWhenReady waits for loc and SafeClicks it. A click that never goes through is
// tagged models.KindClickInteraction.
func (i *Interactor) ClickWhenReady(ctx context.Context, loc browser.Locator, timeout time.Duration) error {
	el, err := i.WaitForElement(ctx, loc, timeout)
	if err != nil {
		return err
	}
	if !i.SafeClick(ctx, el) {
		return models.NewError(models.KindClickInteraction, "click "+loc.String(), errors.New("element not clickable"))
	}
	return nil
}
