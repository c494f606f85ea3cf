package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Search screen.
	mux.HandleFunc("GET /{$}", h.Search)
	mux.HandleFunc("POST /app/search/query", requireCSRF(h.SearchQuery))
	mux.HandleFunc("POST /app/search/submit", requireCSRF(h.SearchSubmit))
	mux.HandleFunc("GET /app/search/results", h.SearchResults)
	mux.HandleFunc("POST /app/messages/dismiss", requireCSRF(h.DismissMessage))

	// Recipe detail.
	mux.HandleFunc("GET /app/recipes/{id}", h.RecipeDetail)
	mux.HandleFunc("POST /app/recipes/{id}/toggle-save", requireCSRF(h.ToggleSave))

	// Saved recipes.
	mux.HandleFunc("GET /app/saved", h.Saved)
	mux.HandleFunc("POST /app/saved/{id}/unsave", requireCSRF(h.Unsave))
}
