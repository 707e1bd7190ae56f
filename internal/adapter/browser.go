package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserOptions configures how a browser is started or attached to
type BrowserOptions struct {
	// ControlURL attaches to an already running browser instead of launching one
	ControlURL string
	// Bin is the browser binary; empty lets the launcher resolve or download one
	Bin      string
	Headless bool
	Leakless bool
}

// BrowserLauncher defines an interface for starting browsers to enable mocking
//
//go:generate mockgen -source=browser.go -destination=../mocks/browser.go -package=mocks -mock_names=BrowserLauncher=MockBrowserLauncher,Browser=MockBrowser,Page=MockPage
type BrowserLauncher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser defines an interface for a running browser
type Browser interface {
	// NewPage opens a blank tab
	NewPage(ctx context.Context) (Page, error)

	// Close closes the browser and releases the launched process
	Close() error
}

// Page defines an interface for a single browser tab
type Page interface {
	// Navigate loads url and waits for the load event
	Navigate(ctx context.Context, url string) error

	// HTML returns the current document markup
	HTML(ctx context.Context) (string, error)

	// Submit types text into the element matched by selector, presses Enter and waits for the resulting navigation
	Submit(ctx context.Context, selector string, text string) error

	// URL returns the current location of the tab
	URL(ctx context.Context) (string, error)

	// Close closes the tab
	Close() error
}

// NavigationReason extracts the browser's network error text (e.g. "net::ERR_CONNECTION_RESET")
// from a failed navigation
func NavigationReason(err error) (string, bool) {
	var navErr *rod.NavigationError
	if errors.As(err, &navErr) {
		return navErr.Reason, true
	}
	return "", false
}

// RealBrowserLauncher implements BrowserLauncher using go-rod
type RealBrowserLauncher struct {
	opts BrowserOptions
}

// NewBrowserLauncher creates a new go-rod backed launcher
func NewBrowserLauncher(opts BrowserOptions) BrowserLauncher {
	return &RealBrowserLauncher{opts: opts}
}

func (l *RealBrowserLauncher) Launch(ctx context.Context) (Browser, error) {
	var (
		controlURL string
		proc       *launcher.Launcher
		err        error
	)

	if l.opts.ControlURL != "" {
		controlURL, err = launcher.ResolveURL(l.opts.ControlURL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve browser control url: %w", err)
		}
	} else {
		proc = launcher.New().
			Context(ctx).
			Headless(l.opts.Headless).
			Leakless(l.opts.Leakless)
		if l.opts.Bin != "" {
			proc = proc.Bin(l.opts.Bin)
		}
		controlURL, err = proc.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if proc != nil {
			proc.Kill()
		}
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &rodBrowser{browser: browser, launcher: proc}, nil
}

type rodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (b *rodBrowser) NewPage(ctx context.Context) (Page, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return &rodPage{page: page}, nil
}

func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return err
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

func (p *rodPage) Submit(ctx context.Context, selector string, text string) error {
	page := p.page.Context(ctx)

	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("failed to find %q: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("failed to type into %q: %w", selector, err)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Type(input.Enter); err != nil {
		return fmt.Errorf("failed to submit %q: %w", selector, err)
	}
	wait()

	return ctx.Err()
}

func (p *rodPage) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
