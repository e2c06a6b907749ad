/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/seckatie/bookmarkt/internal/config"
	"github.com/seckatie/bookmarkt/internal/core"
	"github.com/seckatie/bookmarkt/internal/core/db"
)

// startupScanDelay gives the web server a moment to start before the
// backlog of unarchived bookmarks is queued.
const startupScanDelay = 2 * time.Second

func newArchiveQueue(workers int) chan db.Bookmark {
	return make(chan db.Bookmark, workers*10) // Buffer for multiple bookmarks
}

// enqueue never blocks. A dropped bookmark keeps archived_at NULL and is
// picked up by the next startup scan.
func enqueue(queue chan<- db.Bookmark, b db.Bookmark) bool {
	select {
	case queue <- b:
		return true
	default:
		log.Printf("Warning: work queue full, bookmark %d will be picked up later", b.ID)
		return false
	}
}

// registerArchiveListeners queues the fetchable bookmarks of every imported
// document and every bookmark whose archive is cleared.
func registerArchiveListeners(database *db.DB, queue chan<- db.Bookmark) {
	database.RegisterEventListener(db.OnDocumentImportedEvent, func(event db.Event) error {
		ev := event.(db.DocumentImportedEvent)
		bookmarks, err := database.ListBookmarks(ev.Document.ID, 0)
		if err != nil {
			log.Printf("Error listing bookmarks of document %d: %v", ev.Document.ID, err)
			return err
		}

		queued := 0
		for _, b := range bookmarks {
			if db.ValidateBookmarkURL(b.URL) != nil {
				continue
			}
			if enqueue(queue, b) {
				queued++
			}
		}
		log.Printf("Document %d imported, queued %d of %d bookmarks for archive", ev.Document.ID, queued, len(bookmarks))
		return nil
	})

	database.RegisterEventListener(db.OnArchiveClearedEvent, func(event db.Event) error {
		ev := event.(db.ArchiveClearedEvent)
		log.Printf("Archive cleared for bookmark %d, queuing for re-archiving", ev.BookmarkID)
		// Fetch the bookmark to queue it
		bookmark, err := database.GetBookmark(ev.BookmarkID)
		if err != nil {
			log.Printf("Error fetching bookmark %d for re-archiving: %v", ev.BookmarkID, err)
			return err
		}
		enqueue(queue, bookmark)
		return nil
	})
}

// startArchiveWorkers starts n workers that process bookmarks from queue
// until it is closed.
func startArchiveWorkers(database *db.DB, queue <-chan db.Bookmark, n int, opts core.ArchiveOptions) {
	for i := 0; i < n; i++ {
		workerID := i
		go func() {
			log.Printf("Archive worker %d started", workerID)
			for bookmark := range queue {
				log.Printf("Worker %d archiving bookmark %d: %s", workerID, bookmark.ID, bookmark.URL)
				if err := core.ArchiveAndPersist(context.Background(), database, bookmark, opts); err != nil {
					log.Printf("Worker %d: Archive failed for id=%d url=%s: %v", workerID, bookmark.ID, bookmark.URL, err)
				} else {
					log.Printf("Worker %d: Successfully archived bookmark %d", workerID, bookmark.ID)
				}
			}
			log.Printf("Archive worker %d stopped", workerID)
		}()
	}
}

// queueUnarchived queues the bookmarks left over from earlier runs.
func queueUnarchived(database *db.DB, queue chan<- db.Bookmark) {
	time.Sleep(startupScanDelay)
	log.Println("Checking for existing unarchived bookmarks on startup...")
	bookmarks, err := database.ListBookmarksToArchive(0)
	if err != nil {
		log.Printf("Error listing bookmarks to archive: %v", err)
		return
	}
	if len(bookmarks) == 0 {
		log.Println("No existing bookmarks need archiving")
		return
	}

	log.Printf("Found %d existing unarchived bookmarks", len(bookmarks))
	for _, b := range bookmarks {
		enqueue(queue, b)
	}
}

// archiveOptions builds browser options from cfg. timeout <= 0 keeps the
// archive default.
func archiveOptions(cfg config.Config, timeout time.Duration, waitSelector string) core.ArchiveOptions {
	chromePath := cfg.ChromePath
	if chromePath == "" && runtime.GOOS == "darwin" {
		// Best-effort default for macOS.
		chromePath = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	}
	return core.ArchiveOptions{
		ChromePath:   chromePath,
		Headless:     !cfg.Headful,
		Timeout:      timeout,
		WaitSelector: waitSelector,
	}
}
