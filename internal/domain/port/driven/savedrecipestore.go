package driven

import (
	"context"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// SavedRecipeStore defines the driven port for the local cache of saved recipes.
// Save replaces any existing entry with the same ID. Delete of a missing ID is a no-op.
// GetByID returns nil, nil when the recipe is not saved.
type SavedRecipeStore interface {
	Save(ctx context.Context, recipe model.Recipe) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Search returns saved recipes whose name contains query, ignoring case.
	Search(ctx context.Context, query string) ([]model.Recipe, error)
	ListAll(ctx context.Context) ([]model.Recipe, error)
}
