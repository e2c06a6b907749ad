package db

import (
	"errors"
	"testing"
	"time"
)

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind     EventKind
		expected string
	}{
		{OnDocumentImportedEvent, "document_imported"},
		{OnDocumentDeletedEvent, "document_deleted"},
		{OnArchiveResultSavedEvent, "archive_result_saved"},
		{OnArchiveClearedEvent, "archive_cleared"},
		{EventKind(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDocumentImportedEvent(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var received DocumentImportedEvent
	db.RegisterEventListener(OnDocumentImportedEvent, func(event Event) error {
		received = event.(DocumentImportedEvent)
		return nil
	})

	id := seedDocument(t, db)

	if received.Document.ID != id {
		t.Errorf("expected document ID %d, got %d", id, received.Document.ID)
	}
	if received.Document.Source != "sample.html" || received.Document.Bookmarks != 4 {
		t.Errorf("unexpected event payload %+v", received.Document)
	}
}

func TestDocumentDeletedEvent(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	id := seedDocument(t, db)

	var received DocumentDeletedEvent
	db.RegisterEventListener(OnDocumentDeletedEvent, func(event Event) error {
		received = event.(DocumentDeletedEvent)
		return nil
	})

	if err := db.DeleteDocument(id); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if received.Document.ID != id || received.Document.Title != "Bookmarks" {
		t.Errorf("unexpected event payload %+v", received.Document)
	}
}

func TestArchiveEvents(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	docID := seedDocument(t, db)
	b := bookmarkByURL(t, db, docID, "https://go.dev/")

	var saved ArchiveResultSavedEvent
	var cleared ArchiveClearedEvent
	db.RegisterEventListener(OnArchiveResultSavedEvent, func(event Event) error {
		saved = event.(ArchiveResultSavedEvent)
		return nil
	})
	db.RegisterEventListener(OnArchiveClearedEvent, func(event Event) error {
		cleared = event.(ArchiveClearedEvent)
		return nil
	})

	now := time.Now()
	if err := db.SaveArchiveResult(b.ID, now, &now, "ok", "", "", "<html></html>"); err != nil {
		t.Fatalf("failed to save archive: %v", err)
	}
	if saved.BookmarkID != b.ID || saved.Status != "ok" {
		t.Errorf("unexpected saved event %+v", saved)
	}

	if err := db.ClearBookmarkArchive(b.ID); err != nil {
		t.Fatalf("failed to clear archive: %v", err)
	}
	if cleared.BookmarkID != b.ID {
		t.Errorf("unexpected cleared event %+v", cleared)
	}
}

func TestListenerCanQueryDB(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var queued []Bookmark
	db.RegisterEventListener(OnDocumentImportedEvent, func(event Event) error {
		ev := event.(DocumentImportedEvent)
		bookmarks, err := db.ListBookmarks(ev.Document.ID, 0)
		queued = bookmarks
		return err
	})

	seedDocument(t, db)

	if len(queued) != 4 {
		t.Errorf("expected listener to see 4 committed bookmarks, got %d", len(queued))
	}
}

func TestListenerErrors(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	secondCalled := false
	db.RegisterEventListener(OnDocumentImportedEvent, func(event Event) error {
		return errors.New("first listener error")
	})
	db.RegisterEventListener(OnDocumentImportedEvent, func(event Event) error {
		secondCalled = true
		return nil
	})

	if _, err := db.SaveDocument(sampleDocument(), "sample.html"); err != nil {
		t.Fatalf("expected no error from SaveDocument, got %v", err)
	}
	if !secondCalled {
		t.Error("expected second listener to be called despite first listener error")
	}
}

func TestListenersForDifferentEvents(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	importedCalled := false
	deletedCalled := false
	db.RegisterEventListener(OnDocumentImportedEvent, func(event Event) error {
		importedCalled = true
		return nil
	})
	db.RegisterEventListener(OnDocumentDeletedEvent, func(event Event) error {
		deletedCalled = true
		return nil
	})

	seedDocument(t, db)

	if !importedCalled {
		t.Error("expected imported listener to be called")
	}
	if deletedCalled {
		t.Error("expected deleted listener NOT to be called")
	}
}
