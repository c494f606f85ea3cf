package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
	"github.com/ericfisherdev/mycookbook/internal/domain/port/driven"
)

// RecipeService is the single source of truth for recipes. It decides between
// the remote catalog and the saved-recipe store and publishes the saved list
// to subscribers after every write. It depends only on port interfaces.
type RecipeService struct {
	catalog driven.RecipeCatalog
	store   driven.SavedRecipeStore
	feed    *savedFeed
}

// NewRecipeService creates a new RecipeService with the required dependencies.
func NewRecipeService(catalog driven.RecipeCatalog, store driven.SavedRecipeStore) *RecipeService {
	return &RecipeService{
		catalog: catalog,
		store:   store,
		feed:    newSavedFeed(),
	}
}

// SearchRecipes searches the remote catalog by name. A blank query succeeds with
// no results without touching either source. Remote results win whenever the
// catalog answers, even when empty. If the catalog fails, saved recipes whose
// name contains query are served instead; with no local match the remote
// failure is returned as a *model.NetworkError.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error) {
	if strings.TrimSpace(query) == "" {
		return []model.Recipe{}, nil
	}

	recipes, remoteErr := s.catalog.SearchRecipes(ctx, query)
	if remoteErr == nil {
		return recipes, nil
	}

	// A canceled caller gets its own error back, not a fallback.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	local, err := s.store.Search(ctx, query)
	if err != nil {
		slog.Error("saved recipe fallback failed", "query", query, "remote_error", remoteErr, "error", err)
		return nil, &model.StorageError{Err: err}
	}

	if len(local) > 0 {
		slog.Warn("recipe catalog unavailable, serving saved recipes",
			"query", query,
			"count", len(local),
			"error", remoteErr,
		)
		return local, nil
	}

	return nil, &model.NetworkError{Err: remoteErr}
}

// GetRecipeDetails returns the recipe with the given ID, preferring the saved
// copy so saved recipes open offline. A store read failure is logged and the
// remote catalog is asked instead. An empty catalog answer yields
// model.ErrRecipeNotFound.
func (s *RecipeService) GetRecipeDetails(ctx context.Context, id string) (model.Recipe, error) {
	saved, err := s.store.GetByID(ctx, id)
	switch {
	case err != nil:
		slog.Warn("saved recipe lookup failed, asking catalog", "recipe_id", id, "error", err)
	case saved != nil:
		return *saved, nil
	}

	recipes, err := s.catalog.LookupRecipe(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return model.Recipe{}, ctxErr
		}
		return model.Recipe{}, &model.NetworkError{Err: err}
	}
	if len(recipes) == 0 {
		return model.Recipe{}, model.ErrRecipeNotFound
	}

	return recipes[0], nil
}

// SaveRecipe stores recipe, replacing any saved copy with the same ID.
func (s *RecipeService) SaveRecipe(ctx context.Context, recipe model.Recipe) error {
	if err := s.store.Save(ctx, recipe); err != nil {
		return &model.StorageError{Err: err}
	}

	slog.Info("recipe saved", "recipe_id", recipe.ID, "name", recipe.Name)
	s.publishSaved(ctx)
	return nil
}

// DeleteRecipe removes the saved recipe with the given ID.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return &model.StorageError{Err: err}
	}

	slog.Info("recipe unsaved", "recipe_id", id)
	s.publishSaved(ctx)
	return nil
}

// SavedRecipes returns every saved recipe ordered by name.
func (s *RecipeService) SavedRecipes(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, &model.StorageError{Err: err}
	}
	return recipes, nil
}

// SearchSavedRecipes returns saved recipes whose name contains query, ignoring case.
func (s *RecipeService) SearchSavedRecipes(ctx context.Context, query string) ([]model.Recipe, error) {
	recipes, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, &model.StorageError{Err: err}
	}
	return recipes, nil
}

// IsRecipeSaved reports whether a recipe with the given ID is saved.
func (s *RecipeService) IsRecipeSaved(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, &model.StorageError{Err: err}
	}
	return ok, nil
}

// WatchSaved returns a channel carrying the saved recipe list. The current list
// is sent immediately and a fresh one after every save or delete. A slow reader
// only ever sees the latest list. The channel is closed once ctx is done.
func (s *RecipeService) WatchSaved(ctx context.Context) (<-chan []model.Recipe, error) {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()

	current, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, &model.StorageError{Err: err}
	}

	ch := s.feed.subscribeLocked()
	offerLatest(ch, current)

	go func() {
		<-ctx.Done()
		s.feed.unsubscribe(ch)
	}()

	return ch, nil
}

// publishSaved reloads the saved list and hands it to every subscriber. It runs
// after a write that already succeeded, so it must not fail with the caller's
// cancellation.
func (s *RecipeService) publishSaved(ctx context.Context) {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()

	if len(s.feed.subs) == 0 {
		return
	}

	recipes, err := s.store.ListAll(context.WithoutCancel(ctx))
	if err != nil {
		slog.Error("failed to reload saved recipes for subscribers", "error", err)
		return
	}

	for ch := range s.feed.subs {
		offerLatest(ch, recipes)
	}
}
