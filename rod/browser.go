package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is how many pages a browser renders before it is replaced.
const DefaultMaxPages = 75

// browserPool hands out a shared headless browser and replaces it after
// maxPages pages, since Chrome's memory baseline only grows.
type browserPool struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	maxPages int
	closed   bool
}

func newBrowserPool(maxPages int) (*browserPool, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	p := &browserPool{maxPages: maxPages}
	if err := p.launch(); err != nil {
		return nil, err
	}
	return p, nil
}

// acquire returns the current browser and counts one page against it.
// ok is false once the pool is closed.
func (p *browserPool) acquire() (b *rod.Browser, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false
	}
	if p.pages >= p.maxPages {
		p.recycle()
	}
	p.pages++
	return p.browser, true
}

func (p *browserPool) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.shutdown(p.browser, p.launcher)
}

func (p *browserPool) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	p.browser, p.launcher = b, l
	return nil
}

// recycle swaps in a fresh browser. On launch failure the old one stays.
// Must be called with mu held.
func (p *browserPool) recycle() {
	oldBrowser, oldLauncher := p.browser, p.launcher
	if err := p.launch(); err != nil {
		return
	}
	_ = p.shutdown(oldBrowser, oldLauncher)
	p.pages = 0
}

func (p *browserPool) shutdown(b *rod.Browser, l *launcher.Launcher) error {
	var err error
	if b != nil {
		err = b.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
