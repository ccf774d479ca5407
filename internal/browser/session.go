// Package browser drives a headless Chrome session via chromedp for
// JavaScript rendering and screenshot capture. The session can run against a
// local Chrome binary or a remote browser grid.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ErrBrowserUnavailable is returned when a browser session cannot be started,
// e.g. the Chrome binary is missing or the grid endpoint is unreachable.
var ErrBrowserUnavailable = errors.New("browser automation unavailable")

// Options configures a browser session.
type Options struct {
	Headless     bool
	UserAgent    string
	ChromePath   string
	GridEndpoint string // when set, routes the session to a remote grid
	WindowWidth  int
	WindowHeight int
}

// Session wraps a single chromedp browser context with guaranteed release.
// Construct with NewSession and always call Close, including on error paths.
type Session struct {
	ctx           context.Context
	cancels       []context.CancelFunc
	userAgent     string
	width, height int
}

// NewSession starts a browser session and verifies it responds.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = 1920
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = 1080
	}

	var cancels []context.CancelFunc
	var browserCtx context.Context

	if opts.GridEndpoint != "" {
		log.Debug().Str("endpoint", opts.GridEndpoint).Msg("Using remote browser grid")
		allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, opts.GridEndpoint)
		cancels = append(cancels, allocCancel)

		var cancel context.CancelFunc
		browserCtx, cancel = chromedp.NewContext(allocCtx)
		cancels = append(cancels, cancel)
	} else {
		allocOpts := []chromedp.ExecAllocatorOption{
			chromedp.NoFirstRun,
			chromedp.NoDefaultBrowserCheck,
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("disable-background-networking", true),
			chromedp.Flag("disable-breakpad", true),
			chromedp.Flag("disable-default-apps", true),
			chromedp.Flag("disable-hang-monitor", true),
			chromedp.Flag("disable-prompt-on-repost", true),
			chromedp.Flag("disable-renderer-backgrounding", true),
			chromedp.Flag("disable-sync", true),
			chromedp.Flag("mute-audio", true),
			chromedp.Flag("log-level", "3"),
			chromedp.Flag("window-size", fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight)),
			chromedp.UserAgent(opts.UserAgent),
		}
		if opts.Headless {
			allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
		}
		if path := FindChrome(opts.ChromePath); path != "" {
			allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
		}

		allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
		cancels = append(cancels, allocCancel)

		var cancel context.CancelFunc
		browserCtx, cancel = chromedp.NewContext(allocCtx)
		cancels = append(cancels, cancel)
	}

	// Warm up so a missing binary or unreachable grid fails here, not on first use
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		for i := len(cancels) - 1; i >= 0; i-- {
			cancels[i]()
		}
		return nil, fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
	}

	log.Debug().
		Bool("headless", opts.Headless).
		Str("window", strconv.Itoa(opts.WindowWidth)+"x"+strconv.Itoa(opts.WindowHeight)).
		Msg("Browser session started")

	return &Session{
		ctx:       browserCtx,
		cancels:   cancels,
		userAgent: opts.UserAgent,
		width:     opts.WindowWidth,
		height:    opts.WindowHeight,
	}, nil
}

// prepare applies per-target CDP overrides before navigation. The exec
// allocator already sets the user agent via a Chrome flag, but a remote grid
// browser only honors an explicit override.
func (s *Session) prepare() chromedp.Action {
	if s.userAgent == "" {
		return chromedp.Tasks{}
	}
	return emulation.SetUserAgentOverride(s.userAgent)
}

// Render navigates to url and returns the rendered outer HTML once waitFor
// (a CSS selector) is visible.
func (s *Session) Render(ctx context.Context, url, waitFor string) (string, error) {
	runCtx, cancel := mergeContext(s.ctx, ctx)
	defer cancel()

	if waitFor == "" {
		waitFor = "body"
	}

	var html string
	err := chromedp.Run(runCtx,
		s.prepare(),
		chromedp.Navigate(url),
		chromedp.WaitVisible(waitFor, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}

// Close tears down the browser session. Safe to call multiple times.
func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
	s.cancels = nil
}

// mergeContext derives a context from the session's browser context that is
// also cancelled when the caller's context is.
func mergeContext(browserCtx, callerCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(browserCtx)
	stop := context.AfterFunc(callerCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
