package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// maxBodyBytes caps the size of a request body.
const maxBodyBytes = 1 << 20

// RecipeService is the application service the API serves.
type RecipeService interface {
	SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error)
	GetRecipeDetails(ctx context.Context, id string) (model.Recipe, error)
	SaveRecipe(ctx context.Context, recipe model.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	SavedRecipes(ctx context.Context) ([]model.Recipe, error)
	SearchSavedRecipes(ctx context.Context, query string) ([]model.Recipe, error)
	IsRecipeSaved(ctx context.Context, id string) (bool, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	recipes RecipeService
	db      Pinger
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. db may be nil,
// in which case the health check does not probe storage.
func NewHandler(recipes RecipeService, db Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		recipes: recipes,
		db:      db,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/recipes", h.SearchRecipes)
	mux.HandleFunc("GET /api/v1/recipes/{id}", h.GetRecipe)
	mux.HandleFunc("GET /api/v1/saved", h.ListSaved)
	mux.HandleFunc("GET /api/v1/saved/{id}", h.GetSavedStatus)
	mux.HandleFunc("PUT /api/v1/saved/{id}", h.SaveRecipe)
	mux.HandleFunc("DELETE /api/v1/saved/{id}", h.DeleteRecipe)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// SearchRecipes searches the catalog by name, falling back to saved recipes
// when the catalog is unreachable.
func (h *Handler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	recipes, err := h.recipes.SearchRecipes(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to search recipes", "query", query)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponses(recipes))
}

// GetRecipe returns a single recipe, from the saved copy when there is one.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !isValidRecipeID(id) {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	recipe, err := h.recipes.GetRecipeDetails(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to get recipe", "recipe_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

// ListSaved returns saved recipes, narrowed by ?q= when present.
func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		recipes []model.Recipe
		err     error
	)
	if query == "" {
		recipes, err = h.recipes.SavedRecipes(r.Context())
	} else {
		recipes, err = h.recipes.SearchSavedRecipes(r.Context(), query)
	}
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list saved recipes", "query", query)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponses(recipes))
}

// GetSavedStatus reports whether a recipe is saved.
func (h *Handler) GetSavedStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !isValidRecipeID(id) {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	saved, err := h.recipes.IsRecipeSaved(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to check saved recipe", "recipe_id", id)
		return
	}

	writeJSON(w, http.StatusOK, SavedStatusResponse{ID: id, Saved: saved})
}

// SaveRecipe saves the recipe given in the body. With an empty body the
// recipe is resolved by ID first, so a search hit can be saved by ID alone.
func (h *Handler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !isValidRecipeID(id) {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	var req RecipeRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)

	var recipe model.Recipe
	switch {
	case errors.Is(err, io.EOF):
		recipe, err = h.recipes.GetRecipeDetails(r.Context(), id)
		if err != nil {
			h.writeServiceError(w, r, err, "failed to resolve recipe to save", "recipe_id", id)
			return
		}
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	default:
		if req.ID == "" {
			req.ID = id
		}
		if req.ID != id {
			writeError(w, http.StatusBadRequest, "recipe id in body does not match path")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "recipe name is required")
			return
		}
		recipe = req.toDomain()
	}

	if err := h.recipes.SaveRecipe(r.Context(), recipe); err != nil {
		h.writeServiceError(w, r, err, "failed to save recipe", "recipe_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

// DeleteRecipe removes a saved recipe. Removing an unsaved recipe succeeds.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !isValidRecipeID(id) {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	if err := h.recipes.DeleteRecipe(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to delete recipe", "recipe_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health reports whether the service and its database are up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.Error("health check failed", "error", err)
			resp.Status = "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeServiceError maps a service error onto a status code. Internal error
// text is logged, never returned.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	var netErr *model.NetworkError

	switch {
	case errors.Is(err, model.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	case errors.As(err, &netErr):
		h.logger.Warn(msg, append(attrs, "error", err, "path", r.URL.Path)...)
		writeError(w, http.StatusBadGateway, "recipe catalog unavailable")
		return
	}

	h.logger.Error(msg, append(attrs, "error", err, "path", r.URL.Path)...)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// isValidRecipeID reports whether id looks like a catalog recipe ID: a short
// run of ASCII letters, digits, hyphens or underscores.
func isValidRecipeID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, ch := range id {
		if !isValidIDChar(ch) {
			return false
		}
	}
	return true
}

func isValidIDChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '_'
}
