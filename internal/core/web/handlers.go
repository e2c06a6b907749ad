package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
)

var errBadID = errors.New("invalid id")

// renderTemplate renders a template with the standard HTML content-type header.
// If template execution fails, it logs the error and returns a 500 response.
func (ws *Server) renderTemplate(w http.ResponseWriter, templateName string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ws.templates.ExecuteTemplate(w, templateName, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to execute %s template: %v", templateName, err)
	}
}

// requireMethod checks if the request method matches the expected method.
// Returns true if the method matches, false otherwise (and sends 405 response).
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// splitIDPath parses "/prefix/{id}/rest" into the id and "rest".
func splitIDPath(path, prefix string) (int64, string, error) {
	parts := strings.SplitN(strings.TrimPrefix(path, prefix), "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", errBadID
	}
	if len(parts) == 1 {
		return id, "", nil
	}
	return id, parts[1], nil
}

func (ws *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	documents, err := ws.db.ListDocuments()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to list documents: %v", err)
		return
	}

	ws.renderTemplate(w, "index.html", map[string]any{
		"ActivePage": "documents",
		"Documents":  documents,
	})
}
