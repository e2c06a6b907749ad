package core

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/seckatie/bookmarkt/internal/netscape"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}

func newIconServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	})
	mux.HandleFunc("/octet.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pngBytes)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>not an icon</body></html>"))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func iconDocument(base string) netscape.Document {
	return netscape.Document{
		Title: "icons",
		Children: netscape.Items{
			netscape.Bookmark{Href: "https://a.example/", Title: "A", IconURI: base + "/ok.png"},
			netscape.Bookmark{Href: "https://b.example/", Title: "B", IconURI: base + "/ok.png"},
			netscape.Bookmark{Href: "https://c.example/", Title: "C", IconURI: base + "/missing.ico"},
			netscape.Bookmark{Href: "https://d.example/", Title: "D", IconURI: base + "/page.html"},
			netscape.Bookmark{Href: "https://e.example/", Title: "E", IconURI: base + "/octet.ico", Icon: "data:image/gif;base64,R0lG"},
			netscape.Bookmark{Href: "https://f.example/", Title: "F"},
			netscape.Folder{Title: "nested", Children: netscape.Items{
				netscape.Bookmark{Href: "https://g.example/", Title: "G", IconURI: base + "/octet.ico"},
			}},
		},
	}
}

func iconsByTitle(doc netscape.Document) map[string]string {
	icons := make(map[string]string)
	for _, b := range doc.Bookmarks() {
		icons[b.Title] = b.Icon
	}
	return icons
}

func TestEmbedIcons(t *testing.T) {
	var hits atomic.Int32
	ts := newIconServer(t, &hits)
	doc := iconDocument(ts.URL)
	wantIcon := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

	t.Run("fills missing icons", func(t *testing.T) {
		got, report, err := EmbedIcons(context.Background(), doc, IconOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := IconReport{Candidates: 5, Embedded: 3, Failed: 2}
		if report != want {
			t.Errorf("report = %+v, want %+v", report, want)
		}
		if hits.Load() != 1 {
			t.Errorf("shared icon fetched %d times, want 1", hits.Load())
		}

		icons := iconsByTitle(got)
		for _, title := range []string{"A", "B", "G"} {
			if icons[title] != wantIcon {
				t.Errorf("%s: icon = %q, want %q", title, icons[title], wantIcon)
			}
		}
		for _, title := range []string{"C", "D", "F"} {
			if icons[title] != "" {
				t.Errorf("%s: expected no icon, got %q", title, icons[title])
			}
		}
		if icons["E"] != "data:image/gif;base64,R0lG" {
			t.Errorf("existing icon replaced: %q", icons["E"])
		}

		if !got.Equal(doc) {
			t.Error("tree shape changed")
		}
		for _, b := range doc.Bookmarks() {
			if b.Title == "A" && b.Icon != "" {
				t.Error("input document was modified")
			}
		}
	})

	t.Run("overwrite replaces existing icons", func(t *testing.T) {
		got, report, err := EmbedIcons(context.Background(), doc, IconOptions{Overwrite: true, Workers: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Candidates != 6 || report.Embedded != 4 {
			t.Errorf("unexpected report %+v", report)
		}
		if icons := iconsByTitle(got); icons["E"] != wantIcon {
			t.Errorf("E: icon = %q, want %q", icons["E"], wantIcon)
		}
	})

	t.Run("oversized icons are skipped", func(t *testing.T) {
		got, report, err := EmbedIcons(context.Background(), doc, IconOptions{MaxSize: int64(len(pngBytes)) - 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := (IconReport{Candidates: 5, Embedded: 0, Failed: 5}); report != want {
			t.Errorf("report = %+v, want %+v", report, want)
		}
		for title, icon := range iconsByTitle(got) {
			if title != "E" && icon != "" {
				t.Errorf("%s: expected no icon, got %q", title, icon)
			}
		}
	})

	t.Run("icon at the size limit is embedded", func(t *testing.T) {
		got, report, err := EmbedIcons(context.Background(), doc, IconOptions{MaxSize: int64(len(pngBytes))})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Embedded != 3 {
			t.Errorf("expected 3 icons embedded, got %+v", report)
		}
		if icons := iconsByTitle(got); icons["A"] != wantIcon {
			t.Errorf("A: icon = %q, want %q", icons["A"], wantIcon)
		}
	})

	t.Run("nothing to do", func(t *testing.T) {
		plain := netscape.Document{Children: netscape.Items{netscape.Bookmark{Href: "x"}}}
		got, report, err := EmbedIcons(context.Background(), plain, IconOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report != (IconReport{}) || !got.Equal(plain) {
			t.Errorf("unexpected result %+v %+v", got, report)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, _, err := EmbedIcons(ctx, doc, IconOptions{}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestDiscoverIconURI(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		pageURL string
		want    string
	}{
		{
			name:    "shortcut icon",
			html:    `<html><head><link rel="Shortcut Icon" href="/static/fav.ico"></head></html>`,
			pageURL: "https://example.com/articles/1",
			want:    "https://example.com/static/fav.ico",
		},
		{
			name:    "first icon wins",
			html:    `<head><link rel="stylesheet" href="a.css"><link rel="icon" href="icon-32.png"><link rel="icon" href="icon-64.png"></head>`,
			pageURL: "https://example.com/blog/",
			want:    "https://example.com/blog/icon-32.png",
		},
		{
			name:    "apple touch icon",
			html:    `<head><link rel="apple-touch-icon" href="https://cdn.example.com/touch.png"></head>`,
			pageURL: "https://example.com/",
			want:    "https://cdn.example.com/touch.png",
		},
		{
			name:    "inline icon is skipped",
			html:    `<head><link rel="icon" href="data:image/png;base64,AA=="></head>`,
			pageURL: "https://example.com/a/b",
			want:    "https://example.com/favicon.ico",
		},
		{
			name:    "fallback to favicon.ico",
			html:    `<html><body>no links</body></html>`,
			pageURL: "https://example.com/a/b?q=1",
			want:    "https://example.com/favicon.ico",
		},
		{
			name:    "relative page url",
			html:    `<link rel="icon" href="/x.ico">`,
			pageURL: "/local",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiscoverIconURI(tt.html, tt.pageURL); got != tt.want {
				t.Errorf("DiscoverIconURI() = %q, want %q", got, tt.want)
			}
		})
	}
}
