package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/rs/cors"
	"github.com/seckatie/bookmarkt/internal/core/db"
)

//go:embed templates/*.html static/*.css
var templatesFS embed.FS

// maxUploadSize bounds the multipart body of an imported bookmark file.
const maxUploadSize = 32 << 20

type Server struct {
	db        *db.DB
	templates *template.Template
	staticFS  http.FileSystem
	// jsonCORS lets other origins read the JSON projection of a document.
	jsonCORS *cors.Cors
}

func StartServer(addr string, database *db.DB) {
	ws, err := newServer(database)
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}

	mux := http.NewServeMux()
	ws.registerRoutes(mux)

	log.Printf("Starting web server at %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Web server failed: %v", err)
	}
}

func newServer(database *db.DB) (*Server, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"treeOf": buildTree,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	staticSub, err := fs.Sub(templatesFS, "static")
	if err != nil {
		return nil, err
	}

	return &Server{
		db:        database,
		templates: templates,
		staticFS:  http.FS(staticSub),
		jsonCORS: cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}),
	}, nil
}

func (ws *Server) registerRoutes(mux *http.ServeMux) {
	ws.registerStaticRoutes(mux)

	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/documents", ws.handleDocuments)
	mux.HandleFunc("/documents/", ws.handleDocumentRoutes) // {id}, {id}/json, {id}/export, {id}/delete
	mux.HandleFunc("/bookmarks/", ws.handleBookmarkRoutes) // {id}/archive, {id}/refetch
}

func (ws *Server) registerStaticRoutes(mux *http.ServeMux) {
	// Serve embedded static assets (CSS, etc)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(ws.staticFS)))
}
