package netscape

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(raw)
}

func TestDocumentHTML(t *testing.T) {
	got, err := netscapeFixture().HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := readFixture(t, "netscape.html"); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}

func TestDocumentHTMLEmpty(t *testing.T) {
	got, err := Document{Title: "t", Heading: "h"}.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, "<TITLE>t</TITLE>\n<H1>h</H1>\n<DL><p>\n</DL><p>\n") {
		t.Errorf("unexpected empty document rendering:\n%s", got)
	}
}

func TestWriteHTML(t *testing.T) {
	var sb strings.Builder
	if err := netscapeFixture().WriteHTML(&sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := netscapeFixture().HTML()
	if sb.String() != want {
		t.Errorf("WriteHTML and HTML disagree:\n%s\n---\n%s", sb.String(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"netscape.html", "firefox.html", "chromium.html"} {
		t.Run(name, func(t *testing.T) {
			parsed, err := ParseString(readFixture(t, name))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			first, err := parsed.HTML()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			reparsed, err := ParseString(first)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reparsed.Equal(parsed) {
				t.Errorf("parse(render(d)) != d\ngot  %+v\nwant %+v", reparsed, parsed)
			}

			second, err := reparsed.HTML()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if first != second {
				t.Errorf("rendering is not stable:\n%s\n---\n%s", first, second)
			}
		})
	}
}

func TestRoundTripKeepsFlagsAndIcons(t *testing.T) {
	doc := Document{
		Title:   "t",
		Heading: "h",
		Children: Items{
			Folder{
				Title:                  "toolbar",
				Folded:                 true,
				AddDate:                "1",
				LastModified:           "2",
				PersonalToolbarFolder:  true,
				UnfiledBookmarksFolder: true,
				Children: Items{
					Bookmark{Href: "h", Title: "b", IconURI: "https://x/favicon.ico", Icon: "data:image/png;base64,AA=="},
				},
			},
		},
	}

	html, err := doc.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, err := ParseString(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	folder, ok := AsSubfolder(parsed.Children[0])
	if !ok {
		t.Fatal("expected a folder")
	}
	if !folder.Folded || !folder.PersonalToolbarFolder || !folder.UnfiledBookmarksFolder || folder.LastModified != "2" {
		t.Errorf("flags lost in round trip: %+v", folder)
	}
	bookmark, ok := AsShortcut(folder.Children[0])
	if !ok {
		t.Fatal("expected a bookmark")
	}
	if bookmark.IconURI != "https://x/favicon.ico" || bookmark.Icon != "data:image/png;base64,AA==" {
		t.Errorf("icons lost in round trip: %+v", bookmark)
	}
}

func TestRoundTripPreservesOrder(t *testing.T) {
	children := Items{
		Bookmark{Href: "c1", Title: "c1"},
		Folder{Title: "c2", Children: Items{Bookmark{Href: "c2.1", Title: "c2.1"}}},
		Bookmark{Href: "c3", Title: "c3"},
	}
	doc := Document{Children: Items{Folder{Title: "root", Children: children}}}

	html, err := doc.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, err := ParseString(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, ok := AsSubfolder(parsed.Children[0])
	if !ok {
		t.Fatal("expected a folder")
	}
	if !root.Children.Equal(children) {
		t.Errorf("children order changed:\ngot  %+v\nwant %+v", root.Children, children)
	}
}
