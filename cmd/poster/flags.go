package main

import (
	"flag"
	"fmt"
	"strings"

	"property-poster/config"
)

// options holds flags that are not part of config.Config.
type options struct {
	interactive     bool
	schedule        string
	installBrowsers bool
	history         int
}

// parseFlags applies command-line flags on top of cfg, which already carries
// defaults and environment overrides. Positional arguments are extra sites.
func parseFlags(args []string, cfg *config.Config) (*options, error) {
	fs := flag.NewFlagSet("poster", flag.ContinueOnError)
	opts := &options{}

	engine := string(cfg.Browser.Engine)
	sites := strings.Join(cfg.Posting.Sites, ",")

	fs.StringVar(&cfg.Posting.ConfigPath, "config", cfg.Posting.ConfigPath, "path to the JSON or YAML posting file")
	fs.StringVar(&cfg.Posting.ConfigPath, "c", cfg.Posting.ConfigPath, "shorthand for -config")
	fs.StringVar(&engine, "browser", engine, "browser engine: chrome or firefox")
	fs.StringVar(&engine, "b", engine, "shorthand for -browser")
	fs.BoolVar(&cfg.Browser.Headless, "headless", cfg.Browser.Headless, "run the browser without a window")
	fs.StringVar(&sites, "sites", sites, "comma separated sites to post to, in order")
	fs.StringVar(&sites, "s", sites, "shorthand for -sites")
	fs.BoolVar(&opts.interactive, "interactive", false, "enter listing details at the prompt")
	fs.BoolVar(&opts.interactive, "i", false, "shorthand for -interactive")
	fs.StringVar(&opts.schedule, "schedule", "", `repeat runs on a cron spec, e.g. "@every 6h"`)
	fs.StringVar(&cfg.Metrics.Addr, "metrics-addr", cfg.Metrics.Addr, "serve prometheus metrics on this address")
	fs.StringVar(&cfg.Storage.CSVPath, "csv", cfg.Storage.CSVPath, "write the latest run's results to this CSV file")
	fs.BoolVar(&opts.installBrowsers, "install-browsers", false, "download the firefox driver before running")
	fs.IntVar(&opts.history, "history", 0, "print the last N posting results and exit")
	dev := fs.Bool("dev", false, "use the shorter development timings")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	e, err := config.ParseEngine(engine)
	if err != nil {
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return nil, err
	}
	cfg.Browser.Engine = e
	if *dev {
		cfg.Timing = config.Dev().Timing
	}
	cfg.Posting.Sites = append(config.SplitSites(sites), fs.Args()...)
	return opts, nil
}
