package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/oklog/ulid/v2"

	"property-poster/browser"
	"property-poster/config"
	"property-poster/interact"
	"property-poster/internal/domain"
	"property-poster/internal/metrics"
	"property-poster/models"
)

// SessionRunner owns the browser for the length of a run.
type SessionRunner interface {
	WithSession(ctx context.Context, cfg config.BrowserConfig, fn func(ctx context.Context, s *browser.Session) error) error
}

// RunRequest is everything one posting run needs.
type RunRequest struct {
	Sites       []string
	Listing     models.ListingDetails
	Credentials models.Credentials
	Browser     config.BrowserConfig
}

// Report is the outcome of a run.
type Report struct {
	Run     models.Run
	Summary Summary
}

type PosterService struct {
	registry domain.AdapterRegistry
	sessions SessionRunner
	timing   config.TimingConfig
	clock    interact.Clock
	repos    []domain.ResultRepository
	events   []domain.EventPublisher
	progress io.Writer
}

// Option customizes a PosterService.
type Option func(*PosterService)

// WithRepository adds a store that receives every finished run.
func WithRepository(r domain.ResultRepository) Option {
	return func(s *PosterService) { s.repos = append(s.repos, r) }
}

// WithPublisher adds a publisher that receives one event per result.
func WithPublisher(p domain.EventPublisher) Option {
	return func(s *PosterService) { s.events = append(s.events, p) }
}

// WithClock replaces the wall clock.
func WithClock(c interact.Clock) Option {
	return func(s *PosterService) { s.clock = c }
}

// WithProgress prints per-site progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(s *PosterService) { s.progress = w }
}

func NewPosterService(
	registry domain.AdapterRegistry,
	sessions SessionRunner,
	timing config.TimingConfig,
	opts ...Option,
) *PosterService {

	s := &PosterService{
		registry: registry,
		sessions: sessions,
		timing:   timing,
		clock:    interact.SystemClock,
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run acquires a browser session, posts to every requested site and records the
// results. Only a failure to start the session is returned as an error.
func (s *PosterService) Run(ctx context.Context, req RunRequest) (*Report, error) {
	run := models.Run{
		ID:        ulid.Make().String(),
		Engine:    string(req.Browser.Engine),
		StartedAt: s.clock.Now(),
	}
	log.Printf("[poster] run %s: %d site(s) on %s", run.ID, len(req.Sites), req.Browser.Engine)

	posted := false
	err := s.sessions.WithSession(ctx, req.Browser, func(ctx context.Context, sess *browser.Session) error {
		timing := s.timing
		if t := sess.Timeout(); t > 0 {
			timing.DefaultTimeout = t
		}
		in := interact.New(sess.Driver(), s.clock, timing)
		run.Results = s.post(ctx, in, req.Sites, req.Listing, req.Credentials)
		posted = true
		return nil
	})
	if err != nil {
		if !posted {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		log.Printf("[poster] run %s: %v", run.ID, err)
	}
	run.FinishedAt = s.clock.Now()

	s.record(ctx, run)
	return &Report{Run: run, Summary: Summarize(run.Results)}, nil
}

// PostAll posts listing to each site in order on one driver. Results keep the request
// order, one per requested site, duplicates included. Unknown sites never touch drv.
func (s *PosterService) PostAll(ctx context.Context, drv browser.Driver, sites []string, listing models.ListingDetails, creds models.Credentials) []models.PostResult {
	return s.post(ctx, interact.New(drv, s.clock, s.timing), sites, listing, creds)
}

func (s *PosterService) post(ctx context.Context, in *interact.Interactor, sites []string, listing models.ListingDetails, creds models.Credentials) []models.PostResult {
	results := make([]models.PostResult, 0, len(sites))
	drove := false

	for _, site := range sites {
		fmt.Fprintf(s.progress, "\n📌 Posting to %s...\n", site)

		adapter, ok := s.registry.Lookup(site)
		if !ok {
			log.Printf("[poster] unsupported site %s", site)
			r := models.Unsupported(site, s.clock.Now())
			metrics.Posts.WithLabelValues(site, string(r.Outcome)).Inc()
			s.report(r)
			results = append(results, r)
			continue
		}

		if drove {
			if err := s.clock.Sleep(ctx, s.timing.SitePause); err != nil {
				log.Printf("[poster] pause before %s: %v", site, err)
			}
		}
		c, _ := creds.Lookup(site)
		r := adapter.Post(ctx, in, listing, c)
		drove = true
		s.report(r)
		results = append(results, r)
	}
	return results
}

func (s *PosterService) report(r models.PostResult) {
	if r.Success {
		fmt.Fprintf(s.progress, "✅ Success! Listing posted to %s\n", r.Site)
		if r.ListingURL != "" {
			fmt.Fprintf(s.progress, "   URL: %s\n", r.ListingURL)
		}
		return
	}
	fmt.Fprintf(s.progress, "❌ Failed to post to %s: %s\n", r.Site, r.Message)
}

// record saves and publishes a finished run. Failures are logged, never returned.
func (s *PosterService) record(ctx context.Context, run models.Run) {
	for _, repo := range s.repos {
		if err := repo.Save(ctx, run); err != nil {
			log.Printf("[history] save run %s: %v", run.ID, err)
		}
	}
	for _, pub := range s.events {
		for _, r := range run.Results {
			if err := pub.Publish(ctx, domain.NewPostedEvent(run.ID, r)); err != nil {
				log.Printf("[events] %s: %v", r.Site, err)
			}
		}
	}
}
