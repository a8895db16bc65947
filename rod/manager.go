package rod

import (
	"sync"

	"github.com/fwojciec/html2md"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// chromeFlags keep background tabs rendering at full speed and avoid /dev/shm
// exhaustion in containers.
var chromeFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
	"disable-hang-monitor",
}

// instance is one launched browser and the pages rendered on it.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int64
	inFlight int
	retired  bool
}

func launch() (*instance, error) {
	l := launcher.New().Leakless(true).Headless(true)
	for _, flag := range chromeFlags {
		l = l.Set(flag)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, html2md.WrapError(err, html2md.ERENDER, "launching browser")
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, html2md.WrapError(err, html2md.ERENDER, "connecting to browser")
	}

	return &instance{browser: browser, launcher: l}, nil
}

// shutdown closes the browser and kills its process. Safe to repeat.
func (in *instance) shutdown() error {
	var err error
	if in.browser != nil {
		err = in.browser.Close()
		in.browser = nil
	}
	if in.launcher != nil {
		in.launcher.Kill()
		in.launcher = nil
	}
	return err
}

// BrowserManager owns the headless browser behind a Fetcher and swaps in a
// fresh one after maxPages renders. A replaced browser stays open until the
// renders still using it are released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	maxPages int64
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless browser. Close must be called when
// the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(bm)
	}

	in, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = in

	return bm, nil
}

// Acquire returns the browser to render one page on. The caller must call
// release once the page is closed. When the current browser has rendered
// maxPages pages it is replaced first; if the replacement fails to launch
// the old browser keeps serving.
func (bm *BrowserManager) Acquire() (browser *rod.Browser, release func(), err error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, html2md.Errorf(html2md.EINVALID, "browser is closed")
	}

	if bm.maxPages > 0 && bm.current.pages >= bm.maxPages {
		bm.recycle()
	}

	in := bm.current
	in.pages++
	in.inFlight++

	var once sync.Once
	return in.browser, func() { once.Do(func() { bm.release(in) }) }, nil
}

func (bm *BrowserManager) release(in *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	in.inFlight--
	if in.retired && in.inFlight == 0 {
		_ = in.shutdown()
	}
}

// recycle retires the current browser. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := launch()
	if err != nil {
		return
	}

	old := bm.current
	old.retired = true
	if old.inFlight == 0 {
		_ = old.shutdown()
	}
	bm.current = next
}

// Close shuts down the current browser, interrupting renders in progress.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	bm.current.retired = true
	return bm.current.shutdown()
}

// LauncherPID returns the process ID of the current browser, or 0 once the
// manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
