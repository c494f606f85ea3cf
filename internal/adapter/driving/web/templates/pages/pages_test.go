package pages_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mycookbook/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/mycookbook/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/mycookbook/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestLayout_WrapsBodyAndEscapesTitle(t *testing.T) {
	body := render(t, templates.Layout("Fish & <Chips>", templ.Raw("<p>inner</p>")))

	assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
	assert.Contains(t, body, "<title>Fish &amp; &lt;Chips&gt;</title>")
	assert.Contains(t, body, "<main><p>inner</p></main>")
	assert.Contains(t, body, `<script src="/static/app.js" defer></script>`)
}

func TestSearchPage_RendersQueryAndCards(t *testing.T) {
	page := vm.SearchPageViewModel{
		Query: `pen"ne`,
		Results: []vm.RecipeCardViewModel{{
			ID:         "52771",
			Name:       "Spicy <b>Arrabiata</b>",
			ImageURL:   "https://example.com/penne.jpg",
			Subtitle:   "Vegetarian · Italian",
			DetailPath: "/app/recipes/52771",
			SaveAction: "/app/recipes/52771/toggle-save",
			ReturnTo:   "/",
		}},
		CSRFToken: "tok",
	}

	body := render(t, pages.SearchPage(page))

	assert.Contains(t, body, `value="pen&#34;ne"`)
	assert.Contains(t, body, `<input type="hidden" name="csrf_token" value="tok">`)
	assert.Contains(t, body, `<a href="/app/recipes/52771">`)
	assert.Contains(t, body, `src="https://example.com/penne.jpg/preview"`)
	assert.Contains(t, body, "Spicy &lt;b&gt;Arrabiata&lt;/b&gt;")
	assert.Contains(t, body, `action="/app/recipes/52771/toggle-save"`)
	assert.Contains(t, body, "&#9734; Save")
	assert.NotContains(t, body, "No recipes found.")
}

func TestSearchResults_EmptyStates(t *testing.T) {
	tests := []struct {
		name    string
		page    vm.SearchPageViewModel
		want    string
		notWant string
	}{
		{
			name:    "no query shows nothing",
			page:    vm.SearchPageViewModel{},
			notWant: "No recipes found.",
		},
		{
			name: "query without results",
			page: vm.SearchPageViewModel{Query: "zzz"},
			want: "No recipes found.",
		},
		{
			name:    "loading hides the empty notice",
			page:    vm.SearchPageViewModel{Query: "zzz", IsLoading: true},
			want:    "Searching&hellip;",
			notWant: "No recipes found.",
		},
		{
			name:    "message replaces the empty notice",
			page:    vm.SearchPageViewModel{Query: "zzz", Message: "Please check your network connection."},
			want:    `action="/app/messages/dismiss"`,
			notWant: "No recipes found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := render(t, pages.SearchResults(tt.page))
			if tt.want != "" {
				assert.Contains(t, body, tt.want)
			}
			if tt.notWant != "" {
				assert.NotContains(t, body, tt.notWant)
			}
		})
	}
}

func TestRecipeDetailPage_SanitizesURLsAndKeepsStepsMarkup(t *testing.T) {
	page := vm.RecipeDetailViewModel{
		ID:          "1",
		Path:        "/app/recipes/1",
		SaveAction:  "javascript:alert(1)",
		Name:        "Toast",
		ImageURL:    "javascript:alert(2)",
		Ingredients: []vm.IngredientViewModel{{Name: "bread", Measure: "2 slices"}},
		StepsHTML:   "<ol><li>Toast it.</li></ol>",
		IsSaved:     true,
		Found:       true,
		CSRFToken:   "tok",
	}

	body := render(t, pages.RecipeDetailPage(page))

	assert.NotContains(t, body, "javascript:")
	assert.Contains(t, body, "about:invalid#TemplFailedSanitizationURL")
	assert.Contains(t, body, `<li><span class="measure">2 slices</span> bread</li>`)
	assert.Contains(t, body, "<ol><li>Toast it.</li></ol>")
	assert.Contains(t, body, `name="return_to" value="/app/recipes/1"`)
	assert.Contains(t, body, "&#9733; Saved")
}

func TestRecipeDetailPage_NotFound(t *testing.T) {
	body := render(t, pages.RecipeDetailPage(vm.RecipeDetailViewModel{Message: "Recipe not found."}))

	assert.Contains(t, body, "Recipe not found.")
	assert.Contains(t, body, `<a href="/">Back to search</a>`)
	assert.NotContains(t, body, "<article")
}

func TestSavedPage_EmptyStates(t *testing.T) {
	assert.Contains(t, render(t, pages.SavedPage(vm.SavedPageViewModel{})), "Nothing saved yet.")
	assert.Contains(t, render(t, pages.SavedPage(vm.SavedPageViewModel{Filter: "zzz"})), "No saved recipes match.")

	body := render(t, pages.SavedPage(vm.SavedPageViewModel{
		Recipes: []vm.RecipeCardViewModel{{
			ID:         "52771",
			Name:       "Spicy Arrabiata Penne",
			DetailPath: "/app/recipes/52771",
			SaveAction: "/app/saved/52771/unsave",
			ReturnTo:   "/app/saved",
			IsSaved:    true,
		}},
	}))
	assert.Contains(t, body, `action="/app/saved/52771/unsave"`)
	assert.Contains(t, body, `name="return_to" value="/app/saved"`)
	assert.NotContains(t, body, "Nothing saved yet.")
}
