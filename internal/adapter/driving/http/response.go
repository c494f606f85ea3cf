package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RecipeResponse is the JSON representation of a recipe.
type RecipeResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	ImageURL     string               `json:"image_url"`
	Instructions string               `json:"instructions"`
	Steps        []string             `json:"steps"`
	Ingredients  []IngredientResponse `json:"ingredients"`
	Category     string               `json:"category"`
	Area         string               `json:"area"`
}

// IngredientResponse is one ingredient line of a recipe.
type IngredientResponse struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// RecipeRequest is the JSON body for the save endpoint. An omitted ID takes
// the ID from the path.
type RecipeRequest struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	ImageURL     string               `json:"image_url"`
	Instructions string               `json:"instructions"`
	Ingredients  []IngredientResponse `json:"ingredients"`
	Category     string               `json:"category"`
	Area         string               `json:"area"`
}

// SavedStatusResponse reports whether a recipe is saved.
type SavedStatusResponse struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toRecipeResponse converts a domain Recipe to its JSON response representation.
func toRecipeResponse(r model.Recipe) RecipeResponse {
	ingredients := make([]IngredientResponse, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, IngredientResponse{Name: ing.Name, Measure: ing.Measure})
	}

	return RecipeResponse{
		ID:           r.ID,
		Name:         r.Name,
		ImageURL:     r.ImageURL,
		Instructions: r.Instructions,
		Steps:        r.Steps(),
		Ingredients:  ingredients,
		Category:     r.Category,
		Area:         r.Area,
	}
}

func toRecipeResponses(recipes []model.Recipe) []RecipeResponse {
	resp := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		resp = append(resp, toRecipeResponse(r))
	}
	return resp
}

// toDomain converts the request body to a domain Recipe. Ingredients with a
// blank name are dropped.
func (req RecipeRequest) toDomain() model.Recipe {
	ingredients := make([]model.Ingredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if ing.Name == "" {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{Name: ing.Name, Measure: ing.Measure})
	}

	return model.Recipe{
		ID:           req.ID,
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		Instructions: req.Instructions,
		Ingredients:  ingredients,
		Category:     req.Category,
		Area:         req.Area,
	}
}
