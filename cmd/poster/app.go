package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"property-poster/browser"
	"property-poster/config"
	"property-poster/interact"
	"property-poster/internal/domain"
	"property-poster/internal/metrics"
	"property-poster/internal/scheduler"
	"property-poster/models"
	"property-poster/portal"
	"property-poster/service"
)

var errSitesFailed = errors.New("one or more sites failed")

type App struct {
	cfg  *config.Config
	opts *options
	in   io.Reader
	out  io.Writer

	history *domain.SQLiteRepository
	closers []func() error
}

func NewApp(cfg *config.Config, opts *options, in io.Reader, out io.Writer) *App {
	return &App{cfg: cfg, opts: opts, in: in, out: out}
}

// Run loads the listing, then posts once or on the configured schedule.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if a.opts.installBrowsers {
		log.Println("[main] installing firefox driver")
		if err := browser.InstallFirefox(); err != nil {
			return fmt.Errorf("install browsers: %w", err)
		}
	}

	if a.opts.history > 0 {
		return a.printHistory(ctx)
	}

	req, err := a.request()
	if err != nil {
		return err
	}
	a.banner(req)

	svc := a.service(ctx)
	if a.cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, a.cfg.Metrics.Addr); err != nil {
				log.Printf("[metrics] %v", err)
			}
		}()
	}

	if a.opts.schedule == "" {
		return a.runOnce(ctx, svc, req)
	}
	sched := scheduler.New(a.opts.schedule, func(ctx context.Context) {
		if err := a.runOnce(ctx, svc, req); err != nil {
			log.Printf("[scheduler] %v", err)
		}
	})
	return sched.Run(ctx)
}

func (a *App) request() (service.RunRequest, error) {
	path := a.cfg.Posting.ConfigPath
	pf, err := config.LoadPostingFile(path, a.cfg.Posting.ImagesDir)
	if errors.Is(err, config.ErrSampleCreated) {
		fmt.Fprintf(a.out, "Config file %s not found.\n", path)
		fmt.Fprintln(a.out, "Creating a sample config file...")
		fmt.Fprintf(a.out, "Please edit %s with your credentials and property details.\n", path)
		return service.RunRequest{}, err
	}
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load property details. Exiting.")
		return service.RunRequest{}, err
	}

	listing := pf.Listing
	if a.opts.interactive {
		if listing, err = config.PromptListing(a.in, a.out, a.cfg.Posting.ImagesDir); err != nil {
			return service.RunRequest{}, fmt.Errorf("interactive listing: %w", err)
		}
	}

	return service.RunRequest{
		Sites:       a.cfg.Posting.Sites,
		Listing:     listing,
		Credentials: config.CredentialsFromEnv(pf.Credentials, a.cfg.Posting.Sites),
		Browser:     a.cfg.Browser,
	}, nil
}

func (a *App) banner(req service.RunRequest) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(a.out, "\n%s\n🏠 Property Listing Automation\n%s\n", rule, rule)
	fmt.Fprintf(a.out, "Title: %s\n", req.Listing.Title)
	fmt.Fprintf(a.out, "Price: %s\n", req.Listing.Price)
	fmt.Fprintf(a.out, "Location: %s\n", req.Listing.City)
	fmt.Fprintf(a.out, "Images: %d images\n", len(req.Listing.Images))
	fmt.Fprintf(a.out, "Posting to: %s\n", strings.Join(req.Sites, ", "))
	fmt.Fprintf(a.out, "%s\n", rule)
}

// service wires the poster with every configured store and publisher. A store or
// publisher that cannot be reached is logged and left out.
func (a *App) service(ctx context.Context) *service.PosterService {
	challenge := interact.NewChallengeHandler(a.out)
	opts := []service.Option{service.WithProgress(a.out)}

	if repo, err := a.openHistory(ctx); err != nil {
		log.Printf("[history] disabled: %v", err)
	} else if repo != nil {
		opts = append(opts, service.WithRepository(repo))
	}

	if dsn := a.cfg.Storage.PostgresDSN; dsn != "" {
		db, err := domain.OpenPostgres(ctx, dsn)
		if err != nil {
			log.Printf("[postgres] disabled: %v", err)
		} else {
			a.closers = append(a.closers, db.Close)
			repo, err := domain.NewPostgresRepository(ctx, db)
			if err != nil {
				log.Printf("[postgres] disabled: %v", err)
			} else {
				log.Println("[postgres] db connection successful")
				opts = append(opts, service.WithRepository(repo))
			}
		}
	}

	if path := a.cfg.Storage.CSVPath; path != "" {
		opts = append(opts, service.WithRepository(domain.NewCSVRepository(path)))
	}

	if url := a.cfg.Events.RedisURL; url != "" {
		pub, err := domain.NewRedisPublisher(ctx, url, a.cfg.Events.RedisChannel)
		if err != nil {
			log.Printf("[events] redis disabled: %v", err)
		} else {
			a.closers = append(a.closers, pub.Close)
			opts = append(opts, service.WithPublisher(pub))
		}
	}
	if url := a.cfg.Events.NATSURL; url != "" {
		pub, err := domain.NewNATSPublisher(url, a.cfg.Events.NATSSubject)
		if err != nil {
			log.Printf("[events] nats disabled: %v", err)
		} else {
			a.closers = append(a.closers, pub.Close)
			opts = append(opts, service.WithPublisher(pub))
		}
	}

	return service.NewPosterService(
		portal.DefaultRegistry(a.cfg.Timing, challenge),
		browser.NewManager(a.cfg.Timing),
		a.cfg.Timing,
		opts...,
	)
}

func (a *App) openHistory(ctx context.Context) (*domain.SQLiteRepository, error) {
	if a.history != nil || a.cfg.Storage.HistoryPath == "" {
		return a.history, nil
	}
	db, err := domain.OpenSQLite(a.cfg.Storage.HistoryPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	repo, err := domain.NewSQLiteRepository(ctx, db)
	if err != nil {
		return nil, err
	}
	a.history = repo
	return repo, nil
}

func (a *App) runOnce(ctx context.Context, svc *service.PosterService, req service.RunRequest) error {
	report, err := svc.Run(ctx, req)
	if err != nil {
		log.Printf("[main] %v", err)
		fmt.Fprintf(a.out, "\n❌ Error: %v\n", err)
		return err
	}
	report.Summary.Write(a.out)
	if !report.Summary.AllSucceeded() {
		return errSitesFailed
	}
	return nil
}

func (a *App) printHistory(ctx context.Context) error {
	repo, err := a.openHistory(ctx)
	if err != nil {
		return err
	}
	if repo == nil {
		return errors.New("history is disabled (set POSTER_HISTORY_DB)")
	}
	entries, err := repo.Recent(ctx, "", a.opts.history)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%s  %-14s %-11s %s\n",
			e.Result.StartedAt.Local().Format("2006-01-02 15:04"), e.Result.Site, e.Result.Outcome, describe(e.Result))
	}
	return nil
}

func describe(r models.PostResult) string {
	if r.ListingURL != "" {
		return r.ListingURL
	}
	return r.Message
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("[main] close: %v", err)
		}
	}
}
