package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/seckatie/bookmarkt/internal/core/db"
	"github.com/seckatie/bookmarkt/internal/netscape"
)

// handleDocuments accepts bookmark file uploads.
func (ws *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	ws.importDocument(w, r)
}

// handleDocumentRoutes routes /documents/{id} and its sub-resources.
func (ws *Server) handleDocumentRoutes(w http.ResponseWriter, r *http.Request) {
	id, rest, err := splitIDPath(r.URL.Path, "/documents/")
	if err != nil {
		http.Error(w, "Invalid document ID", http.StatusBadRequest)
		return
	}

	switch rest {
	case "":
		if requireMethod(w, r, http.MethodGet) {
			ws.viewDocument(w, r, id)
		}
	case "json":
		// The CORS handler answers preflight requests itself.
		ws.jsonCORS.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requireMethod(w, r, http.MethodGet) {
				ws.serveDocumentJSON(w, r, id)
			}
		})).ServeHTTP(w, r)
	case "export":
		if requireMethod(w, r, http.MethodGet) {
			ws.exportDocument(w, r, id)
		}
	case "delete":
		if requireMethod(w, r, http.MethodPost) {
			ws.deleteDocument(w, r, id)
		}
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func (ws *Server) importDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		log.Printf("Failed to parse upload: %v", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc, err := netscape.Parse(file)
	if err != nil {
		http.Error(w, "Unreadable bookmark file", http.StatusBadRequest)
		log.Printf("Failed to parse %s: %v", header.Filename, err)
		return
	}

	id, err := ws.db.SaveDocument(doc, header.Filename)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to save document: %v", err)
		return
	}

	log.Printf("Imported %s as document %d", header.Filename, id)
	http.Redirect(w, r, fmt.Sprintf("/documents/%d", id), http.StatusSeeOther)
}

// loadDocument writes the error response itself and reports whether doc is usable.
func (ws *Server) loadDocument(w http.ResponseWriter, id int64) (netscape.Document, bool) {
	doc, err := ws.db.GetDocument(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return netscape.Document{}, false
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to load document %d: %v", id, err)
		return netscape.Document{}, false
	}
	return doc, true
}

func (ws *Server) viewDocument(w http.ResponseWriter, _ *http.Request, id int64) {
	doc, ok := ws.loadDocument(w, id)
	if !ok {
		return
	}

	bookmarks, err := ws.db.ListBookmarks(id, 0)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to list bookmarks of document %d: %v", id, err)
		return
	}

	views := make([]bookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		views = append(views, bookmarkView{
			ID:            b.ID,
			URL:           b.URL,
			Link:          linkURL(b.URL),
			Title:         b.Title,
			ArchiveStatus: b.ArchiveStatus,
			ArchivedAt:    b.ArchivedAt,
			ArchiveError:  b.ArchiveError,
		})
	}

	ws.renderTemplate(w, "document.html", map[string]any{
		"ActivePage": "documents",
		"Title":      doc.Title,
		"ID":         id,
		"Document":   doc,
		"Stats":      doc.Stats(),
		"Bookmarks":  views,
	})
}

func (ws *Server) serveDocumentJSON(w http.ResponseWriter, _ *http.Request, id int64) {
	doc, ok := ws.loadDocument(w, id)
	if !ok {
		return
	}

	data, err := doc.JSON()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to encode document %d: %v", id, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write document JSON: %v", err)
	}
}

func (ws *Server) exportDocument(w http.ResponseWriter, _ *http.Request, id int64) {
	doc, ok := ws.loadDocument(w, id)
	if !ok {
		return
	}

	out, err := doc.HTML()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to render document %d: %v", id, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bookmarks-%d.html"`, id))
	if _, err := w.Write([]byte(out)); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}

func (ws *Server) deleteDocument(w http.ResponseWriter, r *http.Request, id int64) {
	if err := ws.db.DeleteDocument(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to delete document %d: %v", id, err)
		return
	}

	log.Printf("Deleted document %d", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
