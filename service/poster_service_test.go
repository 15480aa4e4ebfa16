package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-poster/browser"
	"property-poster/config"
	"property-poster/interact"
	"property-poster/internal/domain"
	"property-poster/internal/testhelpers"
	"property-poster/models"
	"property-poster/portal"
	"property-poster/service"
)

type memRepo struct {
	runs []models.Run
	err  error
}

func (r *memRepo) Save(ctx context.Context, run models.Run) error {
	r.runs = append(r.runs, run)
	return r.err
}

type memPublisher struct {
	mu     sync.Mutex
	events []domain.PostedEvent
}

func (p *memPublisher) Publish(ctx context.Context, e domain.PostedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *memPublisher) Close() error { return nil }

// countingAdapter records calls and returns a canned result.
type countingAdapter struct {
	site  string
	calls int
}

func (a *countingAdapter) Site() string { return a.site }

func (a *countingAdapter) Post(ctx context.Context, in *interact.Interactor, l models.ListingDetails, c models.SiteCredentials) models.PostResult {
	a.calls++
	return models.PostResult{Site: a.site, Success: true, Message: models.MsgPosted, Outcome: models.OutcomeConfirmed}
}

// waitingAdapter waits for an element that never appears.
type waitingAdapter struct {
	site    string
	waited  time.Duration
	waitErr error
}

func (a *waitingAdapter) Site() string { return a.site }

func (a *waitingAdapter) Post(ctx context.Context, in *interact.Interactor, l models.ListingDetails, c models.SiteCredentials) models.PostResult {
	start := in.Clock().Now()
	_, a.waitErr = in.WaitForElement(ctx, browser.ID("never"), 0)
	a.waited = in.Clock().Now().Sub(start)
	return models.PostResult{Site: a.site, Message: models.MsgErrorPrefix + a.waitErr.Error(), Outcome: models.OutcomeFailed}
}

type fixture struct {
	clock     *testhelpers.FakeClock
	drv       *testhelpers.FakeDriver
	manager   *browser.Manager
	released  int
	launchErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: testhelpers.NewFakeClock()}
	f.drv = testhelpers.NewFakeDriver(f.clock)
	f.manager = browser.NewManager(config.Default().Timing)
	f.manager.Register(config.EngineChrome, func(ctx context.Context, cfg config.BrowserConfig) (browser.Driver, func() error, error) {
		if f.launchErr != nil {
			return nil, nil, f.launchErr
		}
		return f.drv, func() error { f.released++; return nil }, nil
	})
	return f
}

func (f *fixture) service(registry domain.AdapterRegistry, opts ...service.Option) *service.PosterService {
	opts = append([]service.Option{service.WithClock(f.clock)}, opts...)
	return service.NewPosterService(registry, f.manager, config.Default().Timing, opts...)
}

func defaultRegistry() *portal.Registry {
	return portal.DefaultRegistry(config.Default().Timing, interact.NewChallengeHandler(&bytes.Buffer{}))
}

func TestRunEndToEnd(t *testing.T) {
	f := newFixture(t)
	testhelpers.StockPortalPage(f.drv, portal.NjoftimeProfile())

	dir := t.TempDir()
	images := []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpg")}
	for _, p := range images {
		require.NoError(t, os.WriteFile(p, []byte("jpeg"), 0o600))
	}

	repo := &memRepo{}
	pub := &memPublisher{}
	var progress bytes.Buffer
	svc := f.service(defaultRegistry(),
		service.WithRepository(repo),
		service.WithPublisher(pub),
		service.WithProgress(&progress),
	)

	report, err := svc.Run(context.Background(), service.RunRequest{
		Sites:   []string{"njoftime.com", "unknown.al"},
		Listing: models.ListingDetails{Title: "Test Flat", Price: "50000", Images: images},
		Credentials: models.Credentials{
			"njoftime.com": {Username: "agent", Password: "pw"},
		},
		Browser: config.Default().Browser,
	})
	require.NoError(t, err)

	results := report.Run.Results
	require.Len(t, results, 2)
	assert.Equal(t, "njoftime.com", results[0].Site)
	assert.True(t, results[0].Success, results[0].Message)
	assert.NotEmpty(t, results[0].ListingURL)
	assert.Equal(t, "unknown.al", results[1].Site)
	assert.False(t, results[1].Success)
	assert.Equal(t, "Unsupported site: unknown.al", results[1].Message)
	assert.Equal(t, models.OutcomeUnsupported, results[1].Outcome)

	assert.Equal(t, service.Summary{
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Failures:  []service.Failure{{Site: "unknown.al", Message: "Unsupported site: unknown.al", Outcome: models.OutcomeUnsupported}},
	}, report.Summary)

	assert.Equal(t, 1, f.released)
	require.Len(t, repo.runs, 1)
	assert.Equal(t, report.Run.ID, repo.runs[0].ID)
	assert.NotEmpty(t, report.Run.ID)
	require.Len(t, pub.events, 2)
	assert.Equal(t, domain.EventListingPosted, pub.events[0].Type)
	assert.Contains(t, progress.String(), "✅ Success! Listing posted to njoftime.com")
	assert.Contains(t, progress.String(), "❌ Failed to post to unknown.al")
}

func TestUnsupportedSiteTouchesNothing(t *testing.T) {
	f := newFixture(t)
	svc := f.service(defaultRegistry())

	results := svc.PostAll(context.Background(), f.drv, []string{"unknown.al", "craigslist.org"}, models.ListingDetails{Title: "x"}, nil)

	require.Len(t, results, 2)
	assert.Equal(t, "Unsupported site: unknown.al", results[0].Message)
	assert.Equal(t, "Unsupported site: craigslist.org", results[1].Message)
	assert.Zero(t, f.drv.Calls())
	assert.Empty(t, f.clock.Sleeps())
}

func TestPauseBetweenSites(t *testing.T) {
	f := newFixture(t)
	svc := f.service(defaultRegistry())

	// no credentials: each adapter fails at once without driving the page
	results := svc.PostAll(context.Background(), f.drv, config.DefaultSites(), models.ListingDetails{Title: "x"}, models.Credentials{})

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, models.MsgLoginFailed, r.Message)
	}
	assert.Equal(t, 2, f.clock.CountSleeps(config.Default().Timing.SitePause))
}

func TestOrderAndDuplicatesPreserved(t *testing.T) {
	f := newFixture(t)
	a := &countingAdapter{site: "a.al"}
	b := &countingAdapter{site: "b.al"}
	reg := portal.NewRegistry()
	reg.MustRegister(a)
	reg.MustRegister(b)
	svc := f.service(reg)

	results := svc.PostAll(context.Background(), f.drv, []string{"b.al", "zzz", "a.al", "b.al"}, models.ListingDetails{}, nil)

	var sites []string
	for _, r := range results {
		sites = append(sites, r.Site)
	}
	assert.Equal(t, []string{"b.al", "zzz", "a.al", "b.al"}, sites)
	assert.Equal(t, 2, b.calls)
	assert.Equal(t, 1, a.calls)
}

func TestRepeatedRunsAreIndependent(t *testing.T) {
	f := newFixture(t)
	a := &countingAdapter{site: "a.al"}
	reg := portal.NewRegistry()
	reg.MustRegister(a)
	svc := f.service(reg)

	req := service.RunRequest{Sites: []string{"a.al"}, Browser: config.Default().Browser}
	first, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, a.calls)
	assert.NotEqual(t, first.Run.ID, second.Run.ID)
	assert.Len(t, second.Run.Results, 1)
	assert.Equal(t, 2, f.released)
}

func TestSessionStartFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.launchErr = errors.New("chrome not found")
	repo := &memRepo{}
	svc := f.service(defaultRegistry(), service.WithRepository(repo))

	report, err := svc.Run(context.Background(), service.RunRequest{
		Sites:   []string{"njoftime.com"},
		Browser: config.Default().Browser,
	})

	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, models.KindSessionStart, models.KindOf(err))
	assert.Empty(t, repo.runs)
}

func TestRepositoryFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	reg := portal.NewRegistry()
	reg.MustRegister(&countingAdapter{site: "a.al"})
	svc := f.service(reg, service.WithRepository(&memRepo{err: errors.New("disk full")}))

	report, err := svc.Run(context.Background(), service.RunRequest{Sites: []string{"a.al"}, Browser: config.Default().Browser})
	require.NoError(t, err)
	assert.True(t, report.Summary.AllSucceeded())
}

func TestRunUsesSessionTimeout(t *testing.T) {
	f := newFixture(t)
	sessionTiming := config.Default().Timing
	sessionTiming.DefaultTimeout = 3 * time.Second
	f.manager = browser.NewManager(sessionTiming)
	f.manager.Register(config.EngineChrome, func(ctx context.Context, cfg config.BrowserConfig) (browser.Driver, func() error, error) {
		return f.drv, func() error { f.released++; return nil }, nil
	})

	adapter := &waitingAdapter{site: "slow.al"}
	registry := portal.NewRegistry()
	registry.MustRegister(adapter)

	_, err := f.service(registry).Run(context.Background(), service.RunRequest{
		Sites:   []string{"slow.al"},
		Browser: config.Default().Browser,
	})
	require.NoError(t, err)

	require.Error(t, adapter.waitErr)
	assert.GreaterOrEqual(t, adapter.waited, 3*time.Second)
	assert.Less(t, adapter.waited, config.Default().Timing.DefaultTimeout)
}
