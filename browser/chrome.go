package browser

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"property-poster/config"
)

// NewAllocator creates a Chrome process from the given browser config.
// Tabs must be created from the returned context.
func NewAllocator(parent context.Context, cfg config.BrowserConfig) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-setuid-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", cfg.DisableShm),
		chromedp.Flag("start-maximized", !cfg.Headless),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.Headless && cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	return chromedp.NewExecAllocator(parent, opts...)
}

// NewTab opens a new browser tab from the allocator context.
func NewTab(allocCtx context.Context) (context.Context, context.CancelFunc) {
	return chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))
}

// LaunchChrome starts Chrome through chromedp and opens the tab every page runs in.
func LaunchChrome(ctx context.Context, cfg config.BrowserConfig) (Driver, func() error, error) {
	allocCtx, allocCancel := NewAllocator(ctx, cfg)
	tabCtx, tabCancel := NewTab(allocCtx)

	release := func() error {
		err := chromedp.Cancel(tabCtx)
		tabCancel()
		allocCancel()
		return err
	}

	// The first Run starts the process, so a missing binary surfaces here.
	actions := []chromedp.Action{}
	if !cfg.Headless {
		actions = append(actions, maximizeWindow())
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		_ = release()
		return nil, nil, fmt.Errorf("launch chrome: %w", err)
	}
	return &chromeDriver{tab: tabCtx}, release, nil
}

func maximizeWindow() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		windowID, _, err := cdpbrowser.GetWindowForTarget().Do(ctx)
		if err != nil {
			return fmt.Errorf("maximize: get window: %w", err)
		}
		bounds := &cdpbrowser.Bounds{WindowState: cdpbrowser.WindowStateMaximized}
		if err := cdpbrowser.SetWindowBounds(windowID, bounds).Do(ctx); err != nil {
			return fmt.Errorf("maximize: set bounds: %w", err)
		}
		return nil
	}
}

type chromeDriver struct {
	tab context.Context
}

// run executes actions in the tab, bounded by the caller's ctx.
func (d *chromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	if err := d.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (d *chromeDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(loc.Value, &nodes, chromedp.AtLeast(0), queryOption(loc.By))); err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", loc, ErrNoSuchElement)
	}
	return &chromeElement{d: d, node: nodes[0]}, nil
}

func (d *chromeDriver) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := d.run(ctx, chromedp.Location(&u))
	return u, err
}

func (d *chromeDriver) PageHTML(ctx context.Context) (string, error) {
	var html string
	err := d.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func queryOption(by By) chromedp.QueryOption {
	switch by {
	case ByID:
		return chromedp.ByID
	case ByXPath:
		return chromedp.BySearch
	default:
		return chromedp.ByQuery
	}
}

type chromeElement struct {
	d    *chromeDriver
	node *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

// Displayed reports whether the node has a rendered, non-empty box.
func (e *chromeElement) Displayed(ctx context.Context) (bool, error) {
	visible := false
	err := e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		box, err := dom.GetBoxModel().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			// no box model means the node is not rendered
			return nil
		}
		visible = box.Width > 0 && box.Height > 0
		return nil
	}))
	return visible, err
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.d.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *chromeElement) Clear(ctx context.Context) error {
	return e.d.run(ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID))
}

func (e *chromeElement) Type(ctx context.Context, text string) error {
	return e.d.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e *chromeElement) UploadFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return e.d.run(ctx, chromedp.SetUploadFiles(e.ids(), []string{abs}, chromedp.ByNodeID))
}

func (e *chromeElement) SelectByText(ctx context.Context, text string) error {
	var found bool
	err := e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.CallFunctionOnNode(ctx, e.node, selectByTextJS, &found, text)
	}))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("select: no option %q: %w", text, ErrNoSuchElement)
	}
	return nil
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var (
		v  string
		ok bool
	)
	err := e.d.run(ctx, chromedp.AttributeValue(e.ids(), name, &v, &ok, chromedp.ByNodeID))
	return v, err
}
