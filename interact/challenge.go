package interact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"property-poster/browser"
	"property-poster/internal/metrics"
	"property-poster/models"
)

// ErrChallengeTimeout is returned when a challenge is still showing at the deadline.
var ErrChallengeTimeout = errors.New("challenge not cleared in time")

// DefaultChallengeIndicators are the elements that mean a human check is on screen.
func DefaultChallengeIndicators() []browser.Locator {
	return []browser.Locator{
		browser.ID("captcha"),
		browser.CSS(".g-recaptcha"),
		browser.XPath("//iframe[contains(@src, 'recaptcha')]"),
	}
}

// ChallengeHandler waits for an operator to clear a verification challenge. It never
// tries to solve one.
type ChallengeHandler struct {
	Indicators []browser.Locator
	// Prompt receives the operator notice; nil means os.Stdout
	Prompt io.Writer
}

// NewChallengeHandler returns a handler using the default indicators.
func NewChallengeHandler(prompt io.Writer) *ChallengeHandler {
	return &ChallengeHandler{Indicators: DefaultChallengeIndicators(), Prompt: prompt}
}

// Resolve returns nil straight away when no indicator is showing. Otherwise it prompts
// the operator and polls until the indicator is gone or timeout elapses (timeout <= 0
// uses the configured challenge timeout). A challenge still present at the deadline
// yields an error tagged models.KindCaptchaTimeout.
func (h *ChallengeHandler) Resolve(ctx context.Context, in *Interactor, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = in.timing.ChallengeTimeout
	}
	indicator, found := h.detect(ctx, in.drv)
	if !found {
		return nil
	}
	metrics.Challenges.WithLabelValues("detected").Inc()
	log.Printf("[challenge] detected %s", indicator)

	w := h.Prompt
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, "CAPTCHA detected! Please solve it manually in the browser window.")
	fmt.Fprintf(w, "You have %d seconds.\n", int(timeout.Seconds()))

	start := in.clock.Now()
	for in.clock.Now().Sub(start) < timeout {
		if err := in.clock.Sleep(ctx, in.timing.ChallengePoll); err != nil {
			return err
		}
		if !showing(ctx, in.drv, indicator) {
			metrics.Challenges.WithLabelValues("cleared").Inc()
			log.Printf("[challenge] cleared after %v", in.clock.Now().Sub(start))
			return nil
		}
	}
	metrics.Challenges.WithLabelValues("timeout").Inc()
	log.Printf("[challenge] still present after %v", timeout)
	return models.NewError(models.KindCaptchaTimeout, "challenge "+indicator.String(), ErrChallengeTimeout)
}

func (h *ChallengeHandler) detect(ctx context.Context, drv browser.Driver) (browser.Locator, bool) {
	for _, loc := range h.Indicators {
		if showing(ctx, drv, loc) {
			return loc, true
		}
	}
	return browser.Locator{}, false
}

func showing(ctx context.Context, drv browser.Driver, loc browser.Locator) bool {
	el, err := drv.Find(ctx, loc)
	if err != nil {
		return false
	}
	ok, err := el.Displayed(ctx)
	return err == nil && ok
}
