package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"property-poster/config"
	"property-poster/internal/metrics"
	"property-poster/models"
)

// Launcher starts one engine and returns its driver plus a release func.
type Launcher func(ctx context.Context, cfg config.BrowserConfig) (Driver, func() error, error)

// Session is one live browser owned by a single run.
type Session struct {
	engine  config.Engine
	driver  Driver
	timeout time.Duration

	once    sync.Once
	release func() error
	err     error
}

// Driver returns the page driver. Only one caller may drive it at a time.
func (s *Session) Driver() Driver { return s.driver }

// Engine returns the engine backing the session.
func (s *Session) Engine() config.Engine { return s.engine }

// Timeout is the default interaction bound for the session.
func (s *Session) Timeout() time.Duration { return s.timeout }

// Close stops the browser. Safe to call more than once.
func (s *Session) Close() error {
	s.once.Do(func() {
		if s.release != nil {
			s.err = s.release()
		}
		log.Printf("[session] %s released", s.engine)
	})
	return s.err
}

// Manager starts sessions on the registered engines.
type Manager struct {
	launchers map[config.Engine]Launcher
	timeout   time.Duration
}

// NewManager returns a Manager with the chrome and firefox engines registered.
func NewManager(timing config.TimingConfig) *Manager {
	m := &Manager{
		launchers: map[config.Engine]Launcher{},
		timeout:   timing.DefaultTimeout,
	}
	m.Register(config.EngineChrome, LaunchChrome)
	m.Register(config.EngineFirefox, LaunchFirefox)
	return m
}

// Register installs or replaces the launcher for engine.
func (m *Manager) Register(engine config.Engine, l Launcher) {
	m.launchers[engine] = l
}

// Acquire starts a browser. Failures are tagged models.KindSessionStart.
// Prefer WithSession, which guarantees release.
func (m *Manager) Acquire(ctx context.Context, cfg config.BrowserConfig) (*Session, error) {
	launch, ok := m.launchers[cfg.Engine]
	if !ok {
		metrics.SessionStarts.WithLabelValues(string(cfg.Engine), "error").Inc()
		return nil, models.NewError(models.KindSessionStart, "acquire",
			fmt.Errorf("unsupported browser %q", cfg.Engine))
	}

	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = m.timeout
	}
	log.Printf("[session] starting %s (headless=%t)", cfg.Engine, cfg.Headless)
	drv, release, err := launch(ctx, cfg)
	if err != nil {
		metrics.SessionStarts.WithLabelValues(string(cfg.Engine), "error").Inc()
		return nil, models.NewError(models.KindSessionStart, "start "+string(cfg.Engine), err)
	}
	metrics.SessionStarts.WithLabelValues(string(cfg.Engine), "ok").Inc()

	return &Session{
		engine:  cfg.Engine,
		driver:  drv,
		timeout: m.timeout,
		release: release,
	}, nil
}

// WithSession acquires a session, runs fn with it and releases it on every exit path,
// including a panic inside fn. A release failure is joined to fn's error.
func (m *Manager) WithSession(ctx context.Context, cfg config.BrowserConfig, fn func(ctx context.Context, s *Session) error) (err error) {
	s, err := m.Acquire(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			log.Printf("[session] release %s: %v", s.engine, cerr)
			err = errors.Join(err, fmt.Errorf("release session: %w", cerr))
		}
	}()
	return fn(ctx, s)
}
