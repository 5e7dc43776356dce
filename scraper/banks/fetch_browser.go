package banks

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"banks-etl/models"
	"banks-etl/utils"
)

// BrowserFetcher renders the page in headless Chrome and returns the
// resulting document HTML. It is used when the archived page needs scripts
// to run before the table appears.
type BrowserFetcher struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewBrowserFetcher returns a BrowserFetcher. An empty chromeBin is resolved
// from CHROME_BIN, PATH and the usual install locations.
func NewBrowserFetcher(chromeBin string, timeout time.Duration, logger *utils.Logger) *BrowserFetcher {
	return &BrowserFetcher{chromeBin: chromeBin, timeout: timeout, logger: logger}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	chromeBin := f.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	f.logger.Debug("[fetch] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	if f.timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, f.timeout)
		defer cancelTimeout()
	}

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &models.FetchError{URL: url, Err: err}
	}
	return html, nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
