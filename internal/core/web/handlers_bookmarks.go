package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/seckatie/bookmarkt/internal/core"
	"github.com/seckatie/bookmarkt/internal/core/db"
)

// handleBookmarkRoutes routes /bookmarks/{id}/archive and /bookmarks/{id}/refetch.
func (ws *Server) handleBookmarkRoutes(w http.ResponseWriter, r *http.Request) {
	id, rest, err := splitIDPath(r.URL.Path, "/bookmarks/")
	if err != nil {
		http.Error(w, "Invalid bookmark ID", http.StatusBadRequest)
		return
	}

	switch rest {
	case "archive":
		if requireMethod(w, r, http.MethodGet) {
			ws.serveArchiveHTML(w, r, id)
		}
	case "refetch":
		if requireMethod(w, r, http.MethodPost) {
			ws.refetchArchive(w, r, id)
		}
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// serveArchiveHTML serves the raw archived HTML content
func (ws *Server) serveArchiveHTML(w http.ResponseWriter, _ *http.Request, id int64) {
	archive, err := ws.db.GetBookmarkArchive(id)
	if err != nil {
		http.Error(w, "Bookmark not found", http.StatusNotFound)
		return
	}

	if archive.ArchiveStatus != core.ArchiveStatusOK || archive.ArchivedHTML == "" {
		http.Error(w, "Archive not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Archived pages run their own scripts; keep them off this origin.
	w.Header().Set("Content-Security-Policy", "sandbox")
	if _, err := w.Write([]byte(archive.ArchivedHTML)); err != nil {
		log.Printf("Failed to write archived HTML: %v", err)
	}
}

// refetchArchive clears an existing archive to queue it for re-archiving
func (ws *Server) refetchArchive(w http.ResponseWriter, r *http.Request, id int64) {
	bookmark, err := ws.db.GetBookmark(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Bookmark not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to get bookmark %d: %v", id, err)
		return
	}

	if err := ws.db.ClearBookmarkArchive(id); err != nil {
		http.Error(w, "Failed to clear archive", http.StatusInternalServerError)
		log.Printf("Failed to clear bookmark archive %d: %v", id, err)
		return
	}

	log.Printf("Cleared archive for bookmark %d, queued for re-archiving", id)
	http.Redirect(w, r, fmt.Sprintf("/documents/%d", bookmark.DocumentID), http.StatusSeeOther)
}
