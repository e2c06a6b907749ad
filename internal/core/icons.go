package core

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/seckatie/bookmarkt/internal/netscape"
)

// IconOptions controls how favicons are embedded into a bookmark file.
type IconOptions struct {
	// Timeout is the per-icon fetch timeout. If <= 0, DefaultIconTimeout is used.
	Timeout time.Duration
	// MaxSize caps the size of a single icon in bytes. If <= 0, MaxIconSize is used.
	MaxSize int64
	// Overwrite replaces ICON values that are already present.
	Overwrite bool
	// Workers bounds concurrent downloads. If <= 0, DefaultIconWorkers is used.
	Workers int
}

// IconReport counts the bookmarks EmbedIcons looked at.
type IconReport struct {
	// Candidates have an ICON_URI and need an ICON.
	Candidates int
	Embedded   int
	Failed     int
}

// EmbedIcons downloads the ICON_URI of every bookmark that has one and stores
// it as a data: URI in ICON. Bookmarks sharing an ICON_URI cause one download.
// A failed icon is logged and counted; only cancellation of ctx is an error.
// doc itself is left unchanged.
func EmbedIcons(ctx context.Context, doc netscape.Document, opts IconOptions) (netscape.Document, IconReport, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultIconTimeout
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = MaxIconSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultIconWorkers
	}

	needsIcon := func(b netscape.Bookmark) bool {
		return b.IconURI != "" && (b.Icon == "" || opts.Overwrite)
	}

	var report IconReport
	var uris []string
	seen := make(map[string]bool)
	for _, b := range doc.Bookmarks() {
		if !needsIcon(b) {
			continue
		}
		report.Candidates++
		if !seen[b.IconURI] {
			seen[b.IconURI] = true
			uris = append(uris, b.IconURI)
		}
	}
	if len(uris) == 0 {
		return doc, report, nil
	}

	icons := fetchIcons(ctx, uris, opts)
	if err := ctx.Err(); err != nil {
		return doc, report, err
	}

	out := doc
	out.Children = doc.Children.MapShortcuts(func(b netscape.Bookmark) netscape.Bookmark {
		if !needsIcon(b) {
			return b
		}
		if icon, ok := icons[b.IconURI]; ok {
			b.Icon = icon
			report.Embedded++
		} else {
			report.Failed++
		}
		return b
	})
	return out, report, nil
}

// fetchIcons downloads uris with a bounded pool of workers and returns the
// data URIs of those that succeeded.
func fetchIcons(ctx context.Context, uris []string, opts IconOptions) map[string]string {
	client := newHTTPClient(opts.Timeout)
	jobs := make(chan string)

	var mu sync.Mutex
	icons := make(map[string]string, len(uris))

	var wg sync.WaitGroup
	for i := 0; i < min(opts.Workers, len(uris)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for uri := range jobs {
				icon, err := fetchIcon(ctx, client, uri, opts.MaxSize)
				if err != nil {
					log.Printf("Failed to fetch icon %s: %v", uri, err)
					continue
				}
				mu.Lock()
				icons[uri] = icon
				mu.Unlock()
			}
		}()
	}

feed:
	for _, uri := range uris {
		select {
		case jobs <- uri:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return icons
}

func fetchIcon(ctx context.Context, client *http.Client, uri string, maxSize int64) (string, error) {
	res, err := fetchURL(ctx, client, uri, maxSize)
	if err != nil {
		return "", err
	}
	if len(res.data) == 0 {
		return "", fmt.Errorf("empty response")
	}

	contentType := res.contentType
	if !strings.HasPrefix(contentType, "image/") {
		// Servers often label favicons application/octet-stream.
		contentType = http.DetectContentType(res.data)
		if !strings.HasPrefix(contentType, "image/") {
			return "", fmt.Errorf("not an image: %s", res.contentType)
		}
	}
	return dataURI(contentType, res.data), nil
}

// DiscoverIconURI finds the favicon of a captured page: the first <link> whose
// rel contains "icon", resolved against pageURL, or /favicon.ico at the page's
// origin when there is none. It returns "" when pageURL is not absolute.
func DiscoverIconURI(pageHTML, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return ""
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML)); err == nil {
		var found string
		doc.Find("link[rel][href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			rel, _ := s.Attr("rel")
			for _, token := range strings.Fields(strings.ToLower(rel)) {
				if token == "icon" || token == "apple-touch-icon" {
					href, _ := s.Attr("href")
					found = resolveURL(base, href)
					return found == ""
				}
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	return resolveURL(base, "/favicon.ico")
}
