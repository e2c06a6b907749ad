package db

import (
	"errors"
	"testing"
)

func TestGetBookmark(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	docID := seedDocument(t, db)
	stored := bookmarkByURL(t, db, docID, "https://go.dev/")

	t.Run("existing bookmark", func(t *testing.T) {
		b, err := db.GetBookmark(stored.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if b.URL != "https://go.dev/" || b.Title != "Go" || b.DocumentID != docID {
			t.Errorf("unexpected bookmark %+v", b)
		}
		if b.ArchiveStatus != "" || b.ArchivedAt != "" {
			t.Errorf("expected no archive state, got %+v", b)
		}
	})

	t.Run("folder id is not a bookmark", func(t *testing.T) {
		var folderID int64
		if err := db.db.QueryRow("SELECT id FROM items WHERE kind = 'subfolder' LIMIT 1").Scan(&folderID); err != nil {
			t.Fatalf("failed to find folder: %v", err)
		}
		if _, err := db.GetBookmark(folderID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing bookmark", func(t *testing.T) {
		if _, err := db.GetBookmark(99999); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListBookmarks(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	first := seedDocument(t, db)
	second := seedDocument(t, db)

	t.Run("one document in document order", func(t *testing.T) {
		bookmarks, err := db.ListBookmarks(first, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []string{"https://go.dev/", "https://example.com/a", "place:sort=8", "https://www.kernel.org/"}
		if len(bookmarks) != len(want) {
			t.Fatalf("expected %d bookmarks, got %d", len(want), len(bookmarks))
		}
		for i, b := range bookmarks {
			if b.URL != want[i] {
				t.Errorf("bookmark %d: got %q, want %q", i, b.URL, want[i])
			}
			if b.DocumentID != first {
				t.Errorf("bookmark %d belongs to document %d", i, b.DocumentID)
			}
		}
	})

	t.Run("all documents", func(t *testing.T) {
		bookmarks, err := db.ListBookmarks(0, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(bookmarks) != 8 {
			t.Errorf("expected 8 bookmarks, got %d", len(bookmarks))
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		bookmarks, err := db.ListBookmarks(second, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(bookmarks) != 2 {
			t.Errorf("expected 2 bookmarks, got %d", len(bookmarks))
		}
	})
}

func TestSetBookmarkIconURI(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	docID := seedDocument(t, db)
	b := bookmarkByURL(t, db, docID, "https://example.com/a")

	if err := db.SetBookmarkIconURI(b.ID, "https://example.com/favicon.ico"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	updated, err := db.GetBookmark(b.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.IconURI != "https://example.com/favicon.ico" {
		t.Errorf("IconURI = %q", updated.IconURI)
	}

	if err := db.SetBookmarkIconURI(99999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateBookmarkURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid http URL", "http://example.com", false},
		{"valid https URL", "https://example.com/path?query=1", false},
		{"empty URL", "", true},
		{"places query", "place:sort=8&maxResults=10", true},
		{"javascript bookmarklet", "javascript:alert(1)", true},
		{"ftp scheme", "ftp://example.com", true},
		{"missing host", "https://", true},
		{"relative path", "/just/a/path", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookmarkURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBookmarkURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
		})
	}
}
