package mealdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mycookbook/internal/adapter/driven/mealdb"
	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *mealdb.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := mealdb.NewClientWithHTTPClient(server.Client(), server.URL+"/api/json/v1/1/")
	require.NoError(t, err)

	return client
}

const arrabiataJSON = `{
  "meals": [
    {
      "idMeal": "52771",
      "strMeal": "Spicy Arrabiata Penne",
      "strDrinkAlternate": null,
      "strCategory": "Vegetarian",
      "strArea": "Italian",
      "strInstructions": "Bring a large pot of water to a boil.\r\nAdd the penne.",
      "strMealThumb": "https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
      "strTags": "Pasta,Curry",
      "strIngredient1": "penne rigate",
      "strIngredient2": "olive oil",
      "strIngredient3": "garlic",
      "strIngredient4": "",
      "strIngredient5": null,
      "strMeasure1": "1 pound",
      "strMeasure2": "1/4 cup",
      "strMeasure3": null,
      "strMeasure4": "",
      "strMeasure5": null
    }
  ]
}`

func TestSearchRecipes_MapsMeals(t *testing.T) {
	var gotPath, gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("s")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(arrabiataJSON))
	})

	client := newTestClient(t, handler)
	result, err := client.SearchRecipes(context.Background(), "Arrabiata")

	require.NoError(t, err)
	assert.Equal(t, "/api/json/v1/1/search.php", gotPath)
	assert.Equal(t, "Arrabiata", gotQuery)

	require.Len(t, result, 1)
	assert.Equal(t, model.Recipe{
		ID:           "52771",
		Name:         "Spicy Arrabiata Penne",
		ImageURL:     "https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
		Instructions: "Bring a large pot of water to a boil.\r\nAdd the penne.",
		Ingredients: []model.Ingredient{
			{Name: "penne rigate", Measure: "1 pound"},
			{Name: "olive oil", Measure: "1/4 cup"},
			{Name: "garlic", Measure: ""},
		},
		Category: "Vegetarian",
		Area:     "Italian",
	}, result[0])
}

func TestSearchRecipes_NullMealsIsEmpty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meals": null}`))
	})

	client := newTestClient(t, handler)
	result, err := client.SearchRecipes(context.Background(), "zzz")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestSearchRecipes_EscapesQuery(t *testing.T) {
	var rawQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"meals": null}`))
	})

	client := newTestClient(t, handler)
	_, err := client.SearchRecipes(context.Background(), "mac & cheese")

	require.NoError(t, err)
	assert.Equal(t, "s=mac+%26+cheese", rawQuery)
}

func TestSearchRecipes_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newTestClient(t, handler)
	_, err := client.SearchRecipes(context.Background(), "chicken")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestSearchRecipes_MalformedJSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"meals": [`))
	})

	client := newTestClient(t, handler)
	_, err := client.SearchRecipes(context.Background(), "chicken")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding search.php response")
}

func TestSearchRecipes_CanceledContext(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"meals": null}`))
	})

	client := newTestClient(t, handler)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchRecipes(ctx, "chicken")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookupRecipe_UsesIDParam(t *testing.T) {
	var gotPath, gotID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotID = r.URL.Query().Get("i")
		_, _ = w.Write([]byte(arrabiataJSON))
	})

	client := newTestClient(t, handler)
	result, err := client.LookupRecipe(context.Background(), "52771")

	require.NoError(t, err)
	assert.Equal(t, "/api/json/v1/1/lookup.php", gotPath)
	assert.Equal(t, "52771", gotID)
	require.Len(t, result, 1)
	assert.Equal(t, "Spicy Arrabiata Penne", result[0].Name)
}

func TestLookupRecipe_NotFoundIsEmpty(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"meals": null}`))
	})

	client := newTestClient(t, handler)
	result, err := client.LookupRecipe(context.Background(), "0")

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLookupRecipe_SharedLookupSurvivesFirstCallerCancel(t *testing.T) {
	var calls atomic.Int32
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	releaseOnce := sync.OnceFunc(func() { close(release) })

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		arrived <- struct{}{}
		<-release
		_, _ = w.Write([]byte(arrabiataJSON))
	})

	client := newTestClient(t, handler)
	t.Cleanup(releaseOnce)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.LookupRecipe(firstCtx, "52771")
		firstErr <- err
	}()
	<-arrived

	type result struct {
		recipes []model.Recipe
		err     error
	}
	second := make(chan result, 1)
	go func() {
		recipes, err := client.LookupRecipe(context.Background(), "52771")
		second <- result{recipes, err}
	}()
	// Give the second caller time to join the in-flight lookup.
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller kept waiting for the shared lookup")
	}

	releaseOnce()
	got := <-second
	require.NoError(t, got.err)
	require.Len(t, got.recipes, 1)
	assert.Equal(t, "Spicy Arrabiata Penne", got.recipes[0].Name)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClientWithHTTPClient_AddsTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"meals": null}`))
	}))
	t.Cleanup(server.Close)

	client, err := mealdb.NewClientWithHTTPClient(server.Client(), server.URL+"/api/json/v1/1")
	require.NoError(t, err)

	_, err = client.SearchRecipes(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "/api/json/v1/1/search.php", gotPath)
}

func TestNewClientWithHTTPClient_RejectsRelativeURL(t *testing.T) {
	_, err := mealdb.NewClientWithHTTPClient(http.DefaultClient, "api/json")
	assert.Error(t, err)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client, err := mealdb.NewClient(mealdb.DefaultBaseURL)
	require.NoError(t, err)
	assert.NotNil(t, client)
}
