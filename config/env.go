package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", p, err)
		}
		log.Printf("[config] loaded %s", p)
	}
	return nil
}

// FromEnv overlays environment variables on cfg and returns it.
func FromEnv(cfg *Config) (*Config, error) {
	if v := os.Getenv("POSTER_BROWSER"); v != "" {
		engine, err := ParseEngine(v)
		if err != nil {
			return nil, err
		}
		cfg.Browser.Engine = engine
	}
	if v := os.Getenv("POSTER_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("POSTER_HEADLESS: %w", err)
		}
		cfg.Browser.Headless = b
	}
	if v := os.Getenv("POSTER_SITES"); v != "" {
		cfg.Posting.Sites = SplitSites(v)
	}
	setString(&cfg.Posting.ConfigPath, "POSTER_CONFIG")
	setString(&cfg.Posting.ImagesDir, "POSTER_IMAGES_DIR")
	setString(&cfg.Storage.CSVPath, "POSTER_CSV")
	setString(&cfg.Storage.HistoryPath, "POSTER_HISTORY_DB")
	setString(&cfg.Storage.PostgresDSN, "PG_DSN")
	setString(&cfg.Events.RedisURL, "REDIS_URL")
	setString(&cfg.Events.RedisChannel, "REDIS_CHANNEL")
	setString(&cfg.Events.NATSURL, "NATS_URL")
	setString(&cfg.Events.NATSSubject, "NATS_SUBJECT")
	setString(&cfg.Metrics.Addr, "METRICS_ADDR")
	return cfg, nil
}

// ParseEngine validates a browser engine name.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(s))); e {
	case EngineChrome, EngineFirefox:
		return e, nil
	default:
		return "", fmt.Errorf("unknown browser %q (want chrome or firefox)", s)
	}
}

// SplitSites turns "a, b,,c" into [a b c].
func SplitSites(s string) []string {
	var sites []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sites = append(sites, part)
		}
	}
	return sites
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
