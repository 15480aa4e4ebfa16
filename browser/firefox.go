package browser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"property-poster/config"
)

// InstallFirefox downloads the playwright driver and the Firefox build it drives.
func InstallFirefox() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"firefox"}})
}

// LaunchFirefox starts Firefox through playwright and opens one page.
func LaunchFirefox(ctx context.Context, cfg config.BrowserConfig) (Driver, func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start playwright (try -install-browsers): %w", err)
	}
	b, err := pw.Firefox.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, nil, fmt.Errorf("launch firefox: %w", err)
	}

	pageOpts := playwright.BrowserNewPageOptions{}
	if cfg.Headless && cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		pageOpts.Viewport = &playwright.Size{Width: cfg.WindowWidth, Height: cfg.WindowHeight}
	} else {
		// follow the OS window size, i.e. maximized
		pageOpts.NoViewport = playwright.Bool(true)
	}
	page, err := b.NewPage(pageOpts)
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, nil, fmt.Errorf("open firefox page: %w", err)
	}

	if ms := timeoutMs(context.Background(), cfg.ActionTimeout); ms != nil {
		page.SetDefaultTimeout(*ms)
	}

	release := func() error {
		return errors.Join(b.Close(), pw.Stop())
	}
	return &firefoxDriver{page: page, fallback: cfg.ActionTimeout}, release, nil
}

type firefoxDriver struct {
	page     playwright.Page
	fallback time.Duration
}

// timeoutMs converts ctx's deadline into a playwright timeout, using fallback when
// ctx has none. nil keeps the page default.
func timeoutMs(ctx context.Context, fallback time.Duration) *float64 {
	remaining := fallback
	if dl, ok := ctx.Deadline(); ok {
		remaining = time.Until(dl)
	} else if fallback <= 0 {
		return nil
	}
	ms := float64(remaining.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return &ms
}

func playwrightSelector(loc Locator) string {
	switch loc.By {
	case ByID:
		return `[id="` + strings.ReplaceAll(loc.Value, `"`, `\"`) + `"]`
	case ByXPath:
		return "xpath=" + loc.Value
	default:
		return "css=" + loc.Value
	}
}

func (d *firefoxDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.page.Goto(url, playwright.PageGotoOptions{Timeout: timeoutMs(ctx, d.fallback)}); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (d *firefoxDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := d.page.Locator(playwrightSelector(loc))
	n, err := all.Count()
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", loc, ErrNoSuchElement)
	}
	return &firefoxElement{loc: all.First(), fallback: d.fallback}, nil
}

func (d *firefoxDriver) CurrentURL(ctx context.Context) (string, error) {
	return d.page.URL(), ctx.Err()
}

func (d *firefoxDriver) PageHTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.Content()
}

type firefoxElement struct {
	loc      playwright.Locator
	fallback time.Duration
}

func (e *firefoxElement) Displayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.loc.IsVisible()
}

func (e *firefoxElement) Click(ctx context.Context) error {
	return e.loc.Click(playwright.LocatorClickOptions{Timeout: timeoutMs(ctx, e.fallback)})
}

func (e *firefoxElement) Clear(ctx context.Context) error {
	return e.loc.Clear(playwright.LocatorClearOptions{Timeout: timeoutMs(ctx, e.fallback)})
}

func (e *firefoxElement) Type(ctx context.Context, text string) error {
	return e.loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{Timeout: timeoutMs(ctx, e.fallback)})
}

func (e *firefoxElement) UploadFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return e.loc.SetInputFiles([]string{abs}, playwright.LocatorSetInputFilesOptions{Timeout: timeoutMs(ctx, e.fallback)})
}

func (e *firefoxElement) SelectByText(ctx context.Context, text string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{text}},
		playwright.LocatorSelectOptionOptions{Timeout: timeoutMs(ctx, e.fallback)})
	return err
}

func (e *firefoxElement) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.GetAttribute(name)
}
