package config

import "time"

// Engine names a supported browser engine.
type Engine string

const (
	EngineChrome  Engine = "chrome"
	EngineFirefox Engine = "firefox"
)

// BrowserConfig controls which engine is launched and with which flags.
type BrowserConfig struct {
	Engine     Engine
	Headless   bool
	NoSandbox  bool
	DisableShm bool
	// Window size used when headless (a headless window cannot be maximized)
	WindowWidth  int
	WindowHeight int
	UserAgent    string
	// Upper bound for one engine action when the caller's ctx has no deadline.
	// Zero means the session's default timeout.
	ActionTimeout time.Duration
}

// TimingConfig controls all wait/sleep durations used while posting.
type TimingConfig struct {
	// Default bound for element waits when a step does not name its own
	DefaultTimeout time.Duration
	// How long to wait for the logged-in indicator after submitting credentials
	LoginWait time.Duration
	// How long to wait for the success indicator after submitting a listing
	ConfirmWait time.Duration
	// How long an operator has to clear a verification challenge
	ChallengeTimeout time.Duration
	// Interval between challenge presence checks
	ChallengePoll time.Duration
	// Interval between element presence checks
	ElementPoll time.Duration
	// Total click attempts before giving up
	ClickAttempts int
	// Pause between click attempts
	ClickRetryDelay time.Duration
	// Pause after each image so the portal can process it
	UploadSettle time.Duration
	// Pause between sites
	SitePause time.Duration
}

// PostingConfig controls what gets posted and where.
type PostingConfig struct {
	ConfigPath string
	Sites      []string
	// Base for relative image paths; empty means the working directory
	ImagesDir string
}

// StorageConfig controls where run results are kept. Empty values disable a store.
type StorageConfig struct {
	CSVPath     string
	HistoryPath string
	PostgresDSN string
}

// EventsConfig controls posting event fan-out. Empty URLs disable a publisher.
type EventsConfig struct {
	RedisURL     string
	RedisChannel string
	NATSURL      string
	NATSSubject  string
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Addr string
}

// Config is the root configuration passed into the poster.
type Config struct {
	Browser BrowserConfig
	Timing  TimingConfig
	Posting PostingConfig
	Storage StorageConfig
	Events  EventsConfig
	Metrics MetricsConfig
}

// DefaultSites lists every portal the poster knows, in posting order.
func DefaultSites() []string {
	return []string{"njoftime.com", "merrjep.al", "indomio.al"}
}

// Default returns a conservative production-ready configuration.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Engine:       EngineChrome,
			Headless:     false,
			NoSandbox:    true,
			DisableShm:   true,
			WindowWidth:  1440,
			WindowHeight: 900,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Timing: TimingConfig{
			DefaultTimeout:   10 * time.Second,
			LoginWait:        10 * time.Second,
			ConfirmWait:      15 * time.Second,
			ChallengeTimeout: 60 * time.Second,
			ChallengePoll:    2 * time.Second,
			ElementPoll:      500 * time.Millisecond,
			ClickAttempts:    3,
			ClickRetryDelay:  1 * time.Second,
			UploadSettle:     2 * time.Second,
			SitePause:        2 * time.Second,
		},
		Posting: PostingConfig{
			ConfigPath: "config.json",
			Sites:      DefaultSites(),
		},
		Storage: StorageConfig{
			HistoryPath: "posting_history.db",
		},
		Events: EventsConfig{
			RedisChannel: "property-poster:results",
			NATSSubject:  "property.poster.results",
		},
	}
}

// Dev returns a config with shorter waits, for trying portals out by hand.
func Dev() *Config {
	cfg := Default()
	cfg.Timing.ChallengeTimeout = 20 * time.Second
	cfg.Timing.UploadSettle = 500 * time.Millisecond
	cfg.Timing.SitePause = 500 * time.Millisecond
	return cfg
}
