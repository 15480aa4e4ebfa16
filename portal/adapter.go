// Package portal posts listings to the supported property portals. Every portal runs
// the same staged sequence; a Profile supplies what differs.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"property-poster/config"
	"property-poster/interact"
	"property-poster/internal/metrics"
	"property-poster/models"
)

var errMissingCredentials = errors.New("username or password not configured")

// Portal is the adapter for one site.
type Portal struct {
	profile   Profile
	timing    config.TimingConfig
	challenge *interact.ChallengeHandler
}

// New returns the adapter for profile.
func New(profile Profile, timing config.TimingConfig, challenge *interact.ChallengeHandler) *Portal {
	if challenge == nil {
		challenge = interact.NewChallengeHandler(nil)
	}
	return &Portal{profile: profile, timing: timing, challenge: challenge}
}

func (p *Portal) Site() string { return p.profile.Site }

// Post runs the full sequence once. It never returns an error and never panics:
// every failure, expected or not, becomes the returned result.
func (p *Portal) Post(ctx context.Context, in *interact.Interactor, listing models.ListingDetails, creds models.SiteCredentials) (res models.PostResult) {
	a := &attempt{
		Portal:  p,
		in:      in,
		listing: listing,
		creds:   creds,
		stage:   StageStart,
		result:  models.PostResult{Site: p.profile.Site, StartedAt: in.Clock().Now()},
	}
	defer func() {
		if r := recover(); r != nil {
			res = a.finish(models.NewError(models.KindUnexpected, "panic", fmt.Errorf("%v", r)))
		}
		metrics.Posts.WithLabelValues(res.Site, string(res.Outcome)).Inc()
		metrics.PostDuration.WithLabelValues(res.Site).Observe(res.Duration().Seconds())
	}()

	log.Printf("[portal] %s: posting %q", p.profile.Site, listing.Title)
	steps := []struct {
		to  Stage
		run func(context.Context) error
	}{
		{StageLoggedIn, a.login},
		{StageOnPostForm, a.openForm},
		{StageFormFilled, a.fillForm},
		{StageImagesUploaded, a.uploadImages},
		{StageChallengeCleared, a.clearChallenge},
		{StageSubmitted, a.submit},
		{StageConfirmed, a.confirm},
	}
	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			return a.finish(err)
		}
		if err := a.advance(s.to); err != nil {
			return a.finish(err)
		}
	}
	return a.finish(nil)
}

// attempt is the state of one Post call.
type attempt struct {
	*Portal
	in      *interact.Interactor
	listing models.ListingDetails
	creds   models.SiteCredentials
	stage   Stage
	result  models.PostResult
}

func (a *attempt) advance(to Stage) error {
	if !IsTransitionAllowed(a.stage, to) {
		return fmt.Errorf("illegal stage change %s -> %s", a.stage, to)
	}
	log.Printf("[portal] %s: %s -> %s", a.profile.Site, a.stage, to)
	a.stage = to
	return nil
}

// finish builds the result exactly once, from err or from success. Stage on a failed
// result is the last stage reached before the failure.
func (a *attempt) finish(err error) models.PostResult {
	r := a.result
	r.FinishedAt = a.in.Clock().Now()
	r.Stage = string(a.stage)

	if err == nil {
		r.Success = true
		r.Outcome = models.OutcomeConfirmed
		r.Message = models.MsgPosted
		log.Printf("[portal] %s: %s %s", r.Site, r.Message, r.ListingURL)
		return r
	}

	if terr := a.advance(StageFailed); terr != nil {
		err = errors.Join(err, terr)
	}
	r.Outcome = models.OutcomeFailed
	r.ErrorKind = models.KindOf(err)
	switch r.ErrorKind {
	case models.KindLoginFailure:
		r.Message = models.MsgLoginFailed
	case models.KindCaptchaTimeout:
		r.Message = models.MsgCaptchaFailed
	case models.KindUnconfirmed:
		r.Outcome = models.OutcomeUnconfirmed
		r.Message = models.MsgUnconfirmed
	default:
		r.Message = models.MsgErrorPrefix + err.Error()
	}
	log.Printf("[portal] %s: failed after %s: %v", r.Site, r.Stage, err)
	return r
}

func (a *attempt) login(ctx context.Context) error {
	if !a.creds.Complete() {
		return models.NewError(models.KindLoginFailure, "login", errMissingCredentials)
	}
	lf := a.profile.Login
	err := func() error {
		if err := a.in.Driver().Navigate(ctx, lf.URL); err != nil {
			return err
		}
		if err := a.in.Fill(ctx, lf.Username, a.creds.Username); err != nil {
			return err
		}
		if err := a.in.Fill(ctx, lf.Password, a.creds.Password); err != nil {
			return err
		}
		if err := a.in.ClickWhenReady(ctx, lf.Submit, 0); err != nil {
			return err
		}
		_, err := a.in.WaitForPresent(ctx, lf.LoggedIn, a.timing.LoginWait)
		return err
	}()
	if err != nil {
		return models.NewError(models.KindLoginFailure, "login", err)
	}
	log.Printf("[portal] %s: login successful", a.profile.Site)
	return nil
}

func (a *attempt) openForm(ctx context.Context) error {
	if err := a.in.Driver().Navigate(ctx, a.profile.PostURL); err != nil {
		return err
	}
	for _, cat := range a.profile.Categories {
		if err := a.in.ClickWhenReady(ctx, cat, 0); err != nil {
			return fmt.Errorf("category: %w", err)
		}
	}
	return nil
}

func (a *attempt) fillForm(ctx context.Context) error {
	for _, f := range a.profile.Fields {
		value := f.Value(a.listing)
		var err error
		switch f.Kind {
		case FieldSelect:
			err = a.in.Select(ctx, f.Locator, value)
		case FieldAutocomplete:
			if err = a.in.Fill(ctx, f.Locator, value); err == nil {
				err = a.in.ClickWhenReady(ctx, f.Option, 0)
			}
		default:
			err = a.in.Fill(ctx, f.Locator, value)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

// uploadImages sends at most MaxImages files. A failed image is logged and skipped.
func (a *attempt) uploadImages(ctx context.Context) error {
	images := a.listing.Images
	if len(images) == 0 {
		return nil
	}
	if len(images) > a.profile.MaxImages {
		log.Printf("[portal] %s: uploading the first %d of %d images", a.profile.Site, a.profile.MaxImages, len(images))
		images = images[:a.profile.MaxImages]
	}
	uploaded := 0
	for i, path := range images {
		if err := a.uploadOne(ctx, path); err != nil {
			metrics.ImagesUploaded.WithLabelValues(a.profile.Site, "failed").Inc()
			log.Printf("[portal] %s: image %d (%s) failed: %v", a.profile.Site, i+1, path, err)
			continue
		}
		metrics.ImagesUploaded.WithLabelValues(a.profile.Site, "ok").Inc()
		uploaded++
	}
	log.Printf("[portal] %s: uploaded %d/%d images", a.profile.Site, uploaded, len(images))
	return nil
}

func (a *attempt) uploadOne(ctx context.Context, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	el, err := a.in.WaitForElement(ctx, a.profile.ImageInput, 0)
	if err != nil {
		return err
	}
	if err := el.UploadFile(ctx, path); err != nil {
		return err
	}
	return a.in.Clock().Sleep(ctx, a.timing.UploadSettle)
}

func (a *attempt) clearChallenge(ctx context.Context) error {
	return a.challenge.Resolve(ctx, a.in, a.timing.ChallengeTimeout)
}

func (a *attempt) submit(ctx context.Context) error {
	if err := a.in.ClickWhenReady(ctx, a.profile.Submit, 0); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// confirm waits for the success indicator. Its absence leaves the outcome unknown,
// so it is reported as unconfirmed rather than failed.
func (a *attempt) confirm(ctx context.Context) error {
	if _, err := a.in.WaitForElement(ctx, a.profile.Success, a.timing.ConfirmWait); err != nil {
		return models.NewError(models.KindUnconfirmed, "confirm", err)
	}
	if a.profile.ListingURL == nil {
		return nil
	}
	u, err := a.profile.ListingURL.Discover(ctx, a.in.Driver())
	if err != nil {
		log.Printf("[portal] %s: listing url: %v", a.profile.Site, err)
		return nil
	}
	a.result.ListingURL = u
	return nil
}
