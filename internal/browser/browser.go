// Package browser owns the headless Chrome process and exposes pages that
// the loader can scroll and measure.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ArtScraper/pkg/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Browser wraps a launched Chrome instance.
type Browser struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	userAgent string
}

// Launch starts a browser for the given scraper settings. The caller must
// Close it on every exit path.
func Launch(conf config.ScraperConfig) (*Browser, error) {
	l := launcher.New().
		Headless(conf.Headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-blink-features", "AutomationControlled")
	if conf.ProxyURL != "" {
		l = l.Proxy(conf.ProxyURL)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	slog.Debug("browser launched", "headless", conf.Headless, "proxy", conf.ProxyURL != "")
	return &Browser{browser: b, launcher: l, userAgent: conf.UserAgent}, nil
}

// NewPage opens a stealth tab with the configured user agent.
func (b *Browser) NewPage(ctx context.Context) (*Page, error) {
	p, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if b.userAgent != "" {
		if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}
	return &Page{page: p.Context(ctx)}, nil
}

// Close shuts the browser down and kills the launched process.
func (b *Browser) Close() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return err
}

// Page is a browser tab. It satisfies loader.Page.
type Page struct {
	page *rod.Page
}

// Navigate loads url and waits for the document and its network to settle.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	pg := p.page.Context(ctx).Timeout(timeout)
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for load of %s: %w", url, err)
	}
	// Client-rendered listings keep mutating after load; a timeout here is fine.
	if err := p.page.Context(ctx).Timeout(10 * time.Second).WaitStable(time.Second); err != nil {
		slog.Debug("page did not become stable", "url", url, "err", err)
	}
	return nil
}

// ScrollToBottom scrolls the window to the end of the document.
func (p *Page) ScrollToBottom(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// MeasureHeight returns the document scroll height.
func (p *Page) MeasureHeight(ctx context.Context) (int, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.documentElement.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// HTML returns the serialized current DOM.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}
