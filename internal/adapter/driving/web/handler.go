// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/mycookbook/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/mycookbook/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/mycookbook/internal/presentation"
)

const appTitle = "My Cookbook"

// defaultLongPoll is how long a results request with ?wait=1 blocks for a change.
const defaultLongPoll = 20 * time.Second

// Handler is the web GUI driving adapter that serves HTML via templ components.
// Every browser session owns a search screen; detail and saved pages open a
// screen for the duration of one request.
type Handler struct {
	recipes  presentation.RecipeService
	sessions *sessionStore
	longPoll time.Duration
	logger   *slog.Logger
}

// NewHandler creates a Handler. debounce is the search screen quiet period and
// sessionTTL how long an idle session keeps its screen.
func NewHandler(
	recipes presentation.RecipeService,
	debounce time.Duration,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Handler {
	newSearch := func() *presentation.SearchScreen {
		return presentation.NewSearchScreen(recipes, debounce)
	}

	return &Handler{
		recipes:  recipes,
		sessions: newSessionStore(sessionTTL, newSearch, logger),
		longPoll: defaultLongPoll,
		logger:   logger,
	}
}

// Run expires idle sessions until ctx is done, then closes all of them.
func (h *Handler) Run(ctx context.Context) {
	h.sessions.run(ctx)
}

// Search renders the search page for the caller's session. A caller without
// a session sees an empty search; the first POST opens one.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	csrf := ensureCSRFToken(w, r)

	var st presentation.SearchState
	if sess, ok := h.sessions.find(r); ok {
		st = sess.search.State()
	}

	page := toSearchPageViewModel(st, csrf)
	h.render(w, r, http.StatusOK, templates.Layout(appTitle, pages.SearchPage(page)))
}

// SearchQuery records a keystroke. The search itself runs once typing pauses.
func (h *Handler) SearchQuery(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(w, r)
	sess.search.OnQueryChanged(r.FormValue("q"))
	w.WriteHeader(http.StatusNoContent)
}

// SearchSubmit runs the search immediately. A q form value replaces the query first.
func (h *Handler) SearchSubmit(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.get(w, r)

	if err := r.ParseForm(); err == nil && r.PostForm.Has("q") {
		sess.search.OnQueryChanged(r.PostForm.Get("q"))
	}
	sess.search.OnSubmit()

	h.done(w, r, "/")
}

// SearchResults renders the results fragment. With ?wait=1 it first waits for
// the next state change, up to the long-poll limit; without a session there is
// nothing to wait for and it answers 204.
func (h *Handler) SearchResults(w http.ResponseWriter, r *http.Request) {
	csrf := ensureCSRFToken(w, r)

	sess, ok := h.sessions.find(r)
	if !ok {
		// Nothing can change until a POST opens a session.
		if r.URL.Query().Get("wait") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.render(w, r, http.StatusOK, pages.SearchResults(toSearchPageViewModel(presentation.SearchState{}, csrf)))
		return
	}

	if r.URL.Query().Get("wait") != "" {
		timer := time.NewTimer(h.longPoll)
		defer timer.Stop()

		select {
		case <-sess.search.Changes():
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}

	page := toSearchPageViewModel(sess.search.State(), csrf)
	h.render(w, r, http.StatusOK, pages.SearchResults(page))
}

// DismissMessage clears the search screen message.
func (h *Handler) DismissMessage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.sessions.find(r); ok {
		sess.search.OnUserMessageShown()
	}
	h.done(w, r, "/")
}

// RecipeDetail renders one recipe.
func (h *Handler) RecipeDetail(w http.ResponseWriter, r *http.Request) {
	csrf := ensureCSRFToken(w, r)
	id := r.PathValue("id")

	screen := presentation.NewDetailScreen(h.recipes, id)
	defer screen.Close()

	st, err := screen.AwaitLoaded(r.Context())
	if err != nil {
		return
	}

	status := http.StatusOK
	if st.Recipe == nil {
		status = statusForMessage(st.UserMessage)
	}

	page := toRecipeDetailViewModel(st, csrf)
	title := appTitle
	if page.Found {
		title = page.Name + " · " + appTitle
	}
	h.render(w, r, status, templates.Layout(title, pages.RecipeDetailPage(page)))
}

// ToggleSave saves or unsaves a recipe. A recipe showing in the session's
// search results is toggled through the search screen so its saved flag
// updates at once; any other recipe is resolved by ID first.
func (h *Handler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if sess, ok := h.sessions.find(r); ok {
		for _, item := range sess.search.State().Recipes {
			if item.Recipe.ID == id {
				sess.search.OnToggleSave(item.Recipe)
				h.done(w, r, returnTo(r, recipePath(id)))
				return
			}
		}
	}

	screen := presentation.NewDetailScreen(h.recipes, id)
	defer screen.Close()

	st, err := screen.AwaitLoaded(r.Context())
	if err != nil {
		return
	}
	if st.Recipe != nil {
		screen.OnToggleSave()
		st = screen.State()
	}

	if st.UserMessage != "" {
		page := toRecipeDetailViewModel(st, ensureCSRFToken(w, r))
		h.render(w, r, statusForMessage(st.UserMessage), templates.Layout(appTitle, pages.RecipeDetailPage(page)))
		return
	}

	h.done(w, r, returnTo(r, recipePath(id)))
}

// Saved renders the saved recipes page, filtered by ?q=.
func (h *Handler) Saved(w http.ResponseWriter, r *http.Request) {
	csrf := ensureCSRFToken(w, r)

	screen := presentation.NewSavedScreen(h.recipes)
	defer screen.Close()

	if _, err := screen.AwaitLoaded(r.Context()); err != nil {
		return
	}
	screen.OnFilterChanged(r.URL.Query().Get("q"))

	page := toSavedPageViewModel(screen.State(), csrf)
	h.render(w, r, http.StatusOK, templates.Layout("Saved · "+appTitle, pages.SavedPage(page)))
}

// Unsave removes a saved recipe.
func (h *Handler) Unsave(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	screen := presentation.NewSavedScreen(h.recipes)
	defer screen.Close()

	st, err := screen.AwaitLoaded(r.Context())
	if err != nil {
		return
	}

	for _, recipe := range st.Recipes {
		if recipe.ID == id {
			screen.OnUnsave(recipe)
			break
		}
	}

	if st = screen.State(); st.UserMessage != "" {
		page := toSavedPageViewModel(st, ensureCSRFToken(w, r))
		h.render(w, r, http.StatusInternalServerError, templates.Layout("Saved · "+appTitle, pages.SavedPage(page)))
		return
	}

	h.done(w, r, returnTo(r, "/app/saved"))
}

// render writes c with the given status.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// done finishes a POST: scripted requests get 204, form posts a 303 to target.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("X-Requested-With") != "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// returnTo reads the return_to form value, accepting only local paths.
func returnTo(r *http.Request, fallback string) string {
	target := r.FormValue("return_to")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return fallback
	}
	return target
}

func statusForMessage(msg string) int {
	switch msg {
	case "":
		return http.StatusOK
	case presentation.MessageNotFound:
		return http.StatusNotFound
	case presentation.MessageNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
