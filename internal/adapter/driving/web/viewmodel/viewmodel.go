// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// CSRFFormField is the hidden form field carrying the double-submit token.
const CSRFFormField = "csrf_token"

// RecipeCardViewModel holds presentation-ready data for a recipe in a result list.
type RecipeCardViewModel struct {
	ID         string
	Name       string
	ImageURL   string
	Subtitle   string // "Category · Area", either part may be missing.
	DetailPath string
	SaveAction string // Toggle or unsave endpoint for this list.
	ReturnTo   string
	IsSaved    bool
}

// SearchPageViewModel holds the state of the search screen.
type SearchPageViewModel struct {
	Query     string
	Results   []RecipeCardViewModel
	IsLoading bool
	Message   string
	CSRFToken string
}

// IngredientViewModel is one ingredient line.
type IngredientViewModel struct {
	Name    string
	Measure string
}

// RecipeDetailViewModel holds presentation-ready data for the recipe detail page.
type RecipeDetailViewModel struct {
	ID          string
	Path        string
	SaveAction  string
	Name        string
	ImageURL    string
	Subtitle    string
	Ingredients []IngredientViewModel
	StepsHTML   string // Sanitized HTML.
	IsSaved     bool
	Found       bool
	Message     string
	CSRFToken   string
}

// SavedPageViewModel holds the state of the saved recipes page.
type SavedPageViewModel struct {
	Filter    string
	Recipes   []RecipeCardViewModel
	Message   string
	CSRFToken string
}
