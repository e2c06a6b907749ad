package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/seckatie/bookmarkt/internal/core/db"
)

// ArchiveOptions controls how a bookmarked page is loaded and captured.
//
// Pages are rendered by a real Chrome/Chromium over the DevTools protocol so
// that script-built content is present in the snapshot.
type ArchiveOptions struct {
	// ChromePath overrides the browser executable. Empty lets chromedp search.
	ChromePath string
	Headless   bool
	// Timeout bounds navigation, rendering and capture of one page.
	// If <= 0, DefaultArchiveTimeout is used.
	Timeout time.Duration
	// WaitSelector, when set, must become visible before the capture.
	WaitSelector string
}

// ArchiveResult is what was captured for one page.
type ArchiveResult struct {
	// FinalURL is the browser location after redirects.
	FinalURL string
	Title    string
	// HTML is the outerHTML of the rendered <html> element.
	HTML string
	// IconURI is the favicon advertised by the page, resolved to an absolute URL.
	IconURI string
}

// ArchiveRunOptions selects what RunArchive processes: one bookmark when ID > 0,
// otherwise up to Limit bookmarks without an archive (all when Limit <= 0).
type ArchiveRunOptions struct {
	ID      int64
	Limit   int
	Options ArchiveOptions
}

// ArchiveRunResult reports the outcome of an archive run.
type ArchiveRunResult struct {
	Attempted int
	Succeeded int
	Failed    int
}

// capturePage is swapped out in tests that have no browser.
var capturePage = ArchivePage

func allocatorOptions(opts ArchiveOptions) []chromedp.ExecAllocatorOption {
	allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocatorOpts = append(allocatorOpts,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.UserAgent(UserAgent),
	)
	if opts.ChromePath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(opts.ChromePath))
	}
	if opts.Headless {
		allocatorOpts = append(allocatorOpts, chromedp.Headless)
	} else {
		allocatorOpts = append(allocatorOpts, chromedp.Flag("headless", false))
	}
	return allocatorOpts
}

// navigateUntilIdle navigates to url and returns once Chrome reports the
// networkIdle lifecycle event.
func navigateUntilIdle(url string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}

		idle := make(chan struct{}, 1)
		chromedp.ListenTarget(ctx, func(ev any) {
			if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		})

		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}

		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ArchivePage loads url in Chrome and captures the rendered document.
// Logins, paywalls and CAPTCHAs are not handled; they surface as errors or as
// whatever the browser ended up showing.
func ArchivePage(ctx context.Context, url string, opts ArchiveOptions) (ArchiveResult, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultArchiveTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelRun()

	var res ArchiveResult
	actions := []chromedp.Action{
		navigateUntilIdle(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if strings.TrimSpace(opts.WaitSelector) != "" {
		actions = append(actions, chromedp.WaitVisible(opts.WaitSelector, chromedp.ByQuery))
	}
	actions = append(actions,
		chromedp.Sleep(DefaultNetworkIdleDelay),
		chromedp.Location(&res.FinalURL),
		chromedp.Title(&res.Title),
		chromedp.OuterHTML("html", &res.HTML, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return ArchiveResult{}, err
	}

	if strings.TrimSpace(res.Title) == "" && strings.TrimSpace(res.HTML) != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML)); err == nil {
			res.Title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}
	res.IconURI = DiscoverIconURI(res.HTML, res.FinalURL)

	return res, nil
}

// ArchiveAndPersist captures a stored bookmark and records the outcome.
//
// Success stores the final URL and HTML with status "ok". Any failure,
// including an href that is not http(s), stores status "error" with the
// message and is returned. A bookmark without ICON_URI gets the favicon
// advertised by the captured page.
func ArchiveAndPersist(ctx context.Context, database *db.DB, b db.Bookmark, opts ArchiveOptions) error {
	attemptedAt := time.Now()

	res, err := archiveBookmark(ctx, b, opts)
	if err != nil {
		if saveErr := database.SaveArchiveResult(b.ID, attemptedAt, nil, ArchiveStatusError, err.Error(), "", ""); saveErr != nil {
			return fmt.Errorf("archive failed (%v) and saving failure failed (%v)", err, saveErr)
		}
		return err
	}

	archivedAt := time.Now()
	if err := database.SaveArchiveResult(b.ID, attemptedAt, &archivedAt, ArchiveStatusOK, "", res.FinalURL, res.HTML); err != nil {
		return err
	}

	if b.IconURI == "" && res.IconURI != "" {
		if err := database.SetBookmarkIconURI(b.ID, res.IconURI); err != nil {
			log.Printf("Failed to store icon uri for id=%d: %v", b.ID, err)
		}
	}

	log.Printf("Archived bookmark id=%d url=%s", b.ID, b.URL)
	return nil
}

func archiveBookmark(ctx context.Context, b db.Bookmark, opts ArchiveOptions) (ArchiveResult, error) {
	if err := db.ValidateBookmarkURL(b.URL); err != nil {
		return ArchiveResult{}, err
	}
	return capturePage(ctx, b.URL, opts)
}

// RunArchive archives a single bookmark or a batch of unarchived ones. Batch
// mode keeps going past failures and returns an error if any occurred.
func RunArchive(ctx context.Context, database *db.DB, opts ArchiveRunOptions) (ArchiveRunResult, error) {
	if opts.ID > 0 {
		b, err := database.GetBookmark(opts.ID)
		if err != nil {
			return ArchiveRunResult{}, err
		}
		if err := ArchiveAndPersist(ctx, database, b, opts.Options); err != nil {
			return ArchiveRunResult{Attempted: 1, Failed: 1}, err
		}
		return ArchiveRunResult{Attempted: 1, Succeeded: 1}, nil
	}

	bookmarks, err := database.ListBookmarksToArchive(opts.Limit)
	if err != nil {
		return ArchiveRunResult{}, err
	}
	if len(bookmarks) == 0 {
		log.Println("No bookmarks to archive.")
		return ArchiveRunResult{}, nil
	}

	log.Printf("Archiving %d bookmark(s)...", len(bookmarks))
	var res ArchiveRunResult
	for _, b := range bookmarks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Attempted++
		if err := ArchiveAndPersist(ctx, database, b, opts.Options); err != nil {
			res.Failed++
			log.Printf("Archive failed for id=%d url=%s: %v", b.ID, b.URL, err)
			continue
		}
		res.Succeeded++
	}

	if res.Failed > 0 {
		return res, fmt.Errorf("archiving finished with %d failure(s)", res.Failed)
	}
	log.Println("Archiving finished successfully.")
	return res, nil
}
