package driven

import (
	"context"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// RecipeCatalog defines the driven port for the remote, read-only recipe catalog.
// Both lookups return an empty slice (not an error) when the catalog has no match.
type RecipeCatalog interface {
	// SearchRecipes returns recipes whose name matches query.
	SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error)
	// LookupRecipe returns the recipe with the given ID, as a zero- or one-element slice.
	LookupRecipe(ctx context.Context, id string) ([]model.Recipe, error)
}
