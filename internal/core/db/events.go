package db

import "log"

// Event is the common interface for all database events.
//
// Listeners are registered per kind and run synchronously once the write
// they describe has been committed:
//
//	db.RegisterEventListener(db.OnDocumentImportedEvent, func(event db.Event) error {
//	    ev := event.(db.DocumentImportedEvent)
//	    log.Printf("Imported %s with %d bookmarks", ev.Document.Source, ev.Document.Bookmarks)
//	    return nil
//	})
type Event interface {
	Kind() EventKind
}

// EventKind represents all the kinds of events that can be emitted by the DB.
type EventKind int

const (
	// OnDocumentImportedEvent is emitted when a bookmark file is stored.
	OnDocumentImportedEvent EventKind = iota
	// OnDocumentDeletedEvent is emitted when a document and its items are removed.
	OnDocumentDeletedEvent
	// OnArchiveResultSavedEvent is emitted when an archive result is saved.
	OnArchiveResultSavedEvent
	// OnArchiveClearedEvent is emitted when an archive is cleared for re-archiving.
	OnArchiveClearedEvent
)

func (k EventKind) String() string {
	switch k {
	case OnDocumentImportedEvent:
		return "document_imported"
	case OnDocumentDeletedEvent:
		return "document_deleted"
	case OnArchiveResultSavedEvent:
		return "archive_result_saved"
	case OnArchiveClearedEvent:
		return "archive_cleared"
	default:
		return "unknown"
	}
}

type DocumentImportedEvent struct {
	Document StoredDocument
}

func (e DocumentImportedEvent) Kind() EventKind { return OnDocumentImportedEvent }

// DocumentDeletedEvent carries the summary of the document as it was before
// deletion.
type DocumentDeletedEvent struct {
	Document StoredDocument
}

func (e DocumentDeletedEvent) Kind() EventKind { return OnDocumentDeletedEvent }

type ArchiveResultSavedEvent struct {
	BookmarkID int64
	Status     string // "ok" or "error"
}

func (e ArchiveResultSavedEvent) Kind() EventKind { return OnArchiveResultSavedEvent }

type ArchiveClearedEvent struct {
	BookmarkID int64
}

func (e ArchiveClearedEvent) Kind() EventKind { return OnArchiveClearedEvent }

// EventListener is a callback that handles events of a specific kind.
type EventListener func(event Event) error

// RegisterEventListener adds a listener for a specific event kind. Register
// listeners before the DB is shared between goroutines.
func (db *DB) RegisterEventListener(eventKind EventKind, listener EventListener) {
	if db.eventListeners == nil {
		db.eventListeners = make(map[EventKind][]EventListener)
	}
	db.eventListeners[eventKind] = append(db.eventListeners[eventKind], listener)
}

// emit runs every listener for the event's kind in registration order. A
// failing listener is logged and does not stop the others.
func (db *DB) emit(event Event) {
	for _, listener := range db.eventListeners[event.Kind()] {
		if err := listener(event); err != nil {
			log.Printf("Event listener error for %s: %v", event.Kind(), err)
		}
	}
}
