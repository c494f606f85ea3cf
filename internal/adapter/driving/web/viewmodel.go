package web

import (
	"net/url"
	"strings"

	vm "github.com/ericfisherdev/mycookbook/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/mycookbook/internal/domain/model"
	"github.com/ericfisherdev/mycookbook/internal/presentation"
)

// recipePath returns the detail page path for a recipe ID.
func recipePath(id string) string {
	return "/app/recipes/" + url.PathEscape(id)
}

// savedPath returns the saved-recipe path for a recipe ID.
func savedPath(id string) string {
	return "/app/saved/" + url.PathEscape(id)
}

// subtitle joins category and area, skipping blanks.
func subtitle(r model.Recipe) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{r.Category, r.Area} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

// toRecipeCardViewModel converts a domain Recipe to a search result card.
func toRecipeCardViewModel(r model.Recipe, isSaved bool) vm.RecipeCardViewModel {
	return vm.RecipeCardViewModel{
		ID:         r.ID,
		Name:       r.Name,
		ImageURL:   r.ImageURL,
		Subtitle:   subtitle(r),
		DetailPath: recipePath(r.ID),
		SaveAction: recipePath(r.ID) + "/toggle-save",
		ReturnTo:   "/",
		IsSaved:    isSaved,
	}
}

// toSavedCardViewModel converts a saved Recipe to a card whose button unsaves it.
func toSavedCardViewModel(r model.Recipe) vm.RecipeCardViewModel {
	card := toRecipeCardViewModel(r, true)
	card.SaveAction = savedPath(r.ID) + "/unsave"
	card.ReturnTo = "/app/saved"
	return card
}

// toSearchPageViewModel converts the search screen state.
func toSearchPageViewModel(st presentation.SearchState, csrf string) vm.SearchPageViewModel {
	results := make([]vm.RecipeCardViewModel, 0, len(st.Recipes))
	for _, item := range st.Recipes {
		results = append(results, toRecipeCardViewModel(item.Recipe, item.IsSaved))
	}

	return vm.SearchPageViewModel{
		Query:     st.Query,
		Results:   results,
		IsLoading: st.IsLoading,
		Message:   st.UserMessage,
		CSRFToken: csrf,
	}
}

// toRecipeDetailViewModel converts the detail screen state. Steps are rendered
// as an ordered list.
func toRecipeDetailViewModel(st presentation.DetailState, csrf string) vm.RecipeDetailViewModel {
	detail := vm.RecipeDetailViewModel{
		Ingredients: []vm.IngredientViewModel{},
		IsSaved:     st.IsSaved,
		Message:     st.UserMessage,
		CSRFToken:   csrf,
	}

	if st.Recipe == nil {
		return detail
	}

	r := *st.Recipe
	detail.ID = r.ID
	detail.Path = recipePath(r.ID)
	detail.SaveAction = detail.Path + "/toggle-save"
	detail.Name = r.Name
	detail.ImageURL = r.ImageURL
	detail.Subtitle = subtitle(r)
	detail.Found = true
	detail.StepsHTML = RenderSteps(st.NumberedSteps)
	for _, ing := range r.Ingredients {
		detail.Ingredients = append(detail.Ingredients, vm.IngredientViewModel{
			Name:    ing.Name,
			Measure: ing.Measure,
		})
	}

	return detail
}

// toSavedPageViewModel converts the saved screen state. Every listed recipe is saved.
func toSavedPageViewModel(st presentation.SavedState, csrf string) vm.SavedPageViewModel {
	recipes := make([]vm.RecipeCardViewModel, 0, len(st.Recipes))
	for _, r := range st.Recipes {
		recipes = append(recipes, toSavedCardViewModel(r))
	}

	return vm.SavedPageViewModel{
		Filter:    st.Filter,
		Recipes:   recipes,
		Message:   st.UserMessage,
		CSRFToken: csrf,
	}
}
