package mealdb

import (
	"strings"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// mapRecipe converts a catalog meal object to a domain Recipe. Null scalar fields
// become empty strings. An ingredient column is kept only when its name is
// non-null and non-blank; a null measure becomes "". Column order is preserved.
func mapRecipe(m mealDTO) model.Recipe {
	ingredients := make([]model.Ingredient, 0, maxIngredients)
	for _, col := range m.ingredientPairs() {
		if col.name == nil || strings.TrimSpace(*col.name) == "" {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{
			Name:    *col.name,
			Measure: orEmpty(col.measure),
		})
	}

	return model.Recipe{
		ID:           orEmpty(m.ID),
		Name:         orEmpty(m.Name),
		ImageURL:     orEmpty(m.ImageURL),
		Instructions: orEmpty(m.Instructions),
		Ingredients:  ingredients,
		Category:     orEmpty(m.Category),
		Area:         orEmpty(m.Area),
	}
}

// mapRecipes converts a (possibly null) meals array. The result is never nil.
func mapRecipes(meals []mealDTO) []model.Recipe {
	recipes := make([]model.Recipe, 0, len(meals))
	for _, m := range meals {
		recipes = append(recipes, mapRecipe(m))
	}
	return recipes
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
