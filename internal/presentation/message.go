// Package presentation holds per-screen UI state for the recipe browser. Each
// screen owns its goroutines and must be closed when the screen goes away.
package presentation

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// User-facing messages for failed recipe operations.
const (
	MessageNotFound = "Recipe not found."
	MessageNetwork  = "Please check your network connection."
	MessageUnknown  = "An unknown error occurred."
)

// UserMessage maps an error from the recipe service to the text shown to the user.
func UserMessage(err error) string {
	var netErr *model.NetworkError
	switch {
	case errors.Is(err, model.ErrRecipeNotFound):
		return MessageNotFound
	case errors.As(err, &netErr):
		return MessageNetwork
	default:
		return MessageUnknown
	}
}

// RecipeService is the subset of the application service the screens use.
type RecipeService interface {
	SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error)
	GetRecipeDetails(ctx context.Context, id string) (model.Recipe, error)
	SaveRecipe(ctx context.Context, recipe model.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	WatchSaved(ctx context.Context) (<-chan []model.Recipe, error)
}
