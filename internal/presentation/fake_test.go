package presentation_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// fakeService is a concurrency-safe RecipeService with a working saved feed.
type fakeService struct {
	mu       sync.Mutex
	searchFn func(ctx context.Context, query string) ([]model.Recipe, error)
	detailFn func(ctx context.Context, id string) (model.Recipe, error)
	queries  []string
	saved    []model.Recipe
	writeErr error
	watchErr error
	subs     []chan []model.Recipe
}

func (f *fakeService) SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	fn := f.searchFn
	f.mu.Unlock()

	if fn == nil {
		return []model.Recipe{}, nil
	}
	return fn(ctx, query)
}

func (f *fakeService) GetRecipeDetails(ctx context.Context, id string) (model.Recipe, error) {
	f.mu.Lock()
	fn := f.detailFn
	f.mu.Unlock()

	if fn == nil {
		return model.Recipe{}, model.ErrRecipeNotFound
	}
	return fn(ctx, id)
}

func (f *fakeService) SaveRecipe(_ context.Context, recipe model.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}
	f.saved = slices.DeleteFunc(f.saved, func(r model.Recipe) bool { return r.ID == recipe.ID })
	f.saved = append(f.saved, recipe)
	f.publishLocked()
	return nil
}

func (f *fakeService) DeleteRecipe(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}
	f.saved = slices.DeleteFunc(f.saved, func(r model.Recipe) bool { return r.ID == id })
	f.publishLocked()
	return nil
}

func (f *fakeService) WatchSaved(ctx context.Context) (<-chan []model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.watchErr != nil {
		return nil, f.watchErr
	}

	ch := make(chan []model.Recipe, 1)
	ch <- slices.Clone(f.saved)
	f.subs = append(f.subs, ch)

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs = slices.DeleteFunc(f.subs, func(c chan []model.Recipe) bool { return c == ch })
		close(ch)
	}()

	return ch, nil
}

func (f *fakeService) publishLocked() {
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- slices.Clone(f.saved)
	}
}

func (f *fakeService) searchedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.queries)
}

func (f *fakeService) subscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

var (
	arrabiata = model.Recipe{
		ID:           "52771",
		Name:         "Spicy Arrabiata Penne",
		Instructions: "Bring a large pot of water to a boil.\r\n\r\nAdd the penne.\r\nServe.",
	}
	teriyaki = model.Recipe{ID: "52772", Name: "Teriyaki Chicken Casserole"}
	handi    = model.Recipe{ID: "52795", Name: "Chicken Handi"}

	errOffline = &model.NetworkError{Err: errors.New("connection refused")}
	errDisk    = &model.StorageError{Err: errors.New("disk I/O error")}
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)
