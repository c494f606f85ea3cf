package presentation

import (
	"slices"
	"time"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// DefaultSearchDebounce is the quiet period after the last keystroke before a
// search runs.
const DefaultSearchDebounce = 500 * time.Millisecond

// RecipeItem is one search result with its saved flag.
type RecipeItem struct {
	Recipe  model.Recipe
	IsSaved bool
}

// SearchState is a snapshot of the search screen.
type SearchState struct {
	Query       string
	Recipes     []RecipeItem
	IsLoading   bool
	UserMessage string
}

// SearchScreen holds the state of the search screen: the query text, the
// results of the latest search and which of them are saved.
type SearchScreen struct {
	screen

	svc      RecipeService
	debounce time.Duration

	state   SearchState
	results []model.Recipe
	saved   map[string]struct{}

	// debounceSeq identifies the pending debounce timer; searchSeq the search
	// whose result may still be applied.
	timer       *time.Timer
	debounceSeq uint64
	searchSeq   uint64
}

// NewSearchScreen opens a search screen. A non-positive debounce selects
// DefaultSearchDebounce. The caller must Close the screen.
func NewSearchScreen(svc RecipeService, debounce time.Duration) *SearchScreen {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}

	s := &SearchScreen{
		svc:      svc,
		debounce: debounce,
		state:    SearchState{Recipes: []RecipeItem{}},
		saved:    map[string]struct{}{},
	}
	s.init()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchSavedLocked(svc, func(recipes []model.Recipe, err error) {
		if err != nil {
			s.state.UserMessage = UserMessage(err)
			return
		}
		s.saved = savedIDs(recipes)
		s.rebuildItemsLocked()
	})

	return s
}

// State returns a copy of the current state.
func (s *SearchScreen) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Recipes = slices.Clone(s.state.Recipes)
	return st
}

// OnQueryChanged records the query text. The search runs once the text has
// stayed unchanged for the debounce period; repeating the current text does
// not restart the wait.
func (s *SearchScreen) OnQueryChanged(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || query == s.state.Query {
		return
	}

	s.state.Query = query
	s.stopDebounceLocked()

	s.debounceSeq++
	seq := s.debounceSeq
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || seq != s.debounceSeq {
			return
		}
		s.timer = nil
		s.searchLocked(query)
	})

	s.notifyLocked()
}

// OnSubmit searches for the current query immediately and drops any pending
// debounced search.
func (s *SearchScreen) OnSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.stopDebounceLocked()
	s.searchLocked(s.state.Query)
}

// OnToggleSave unsaves recipe if it is saved and saves it otherwise. It blocks
// until the write finishes.
func (s *SearchScreen) OnToggleSave(recipe model.Recipe) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	_, isSaved := s.saved[recipe.ID]
	ctx := s.ctx
	s.mu.Unlock()

	var err error
	if isSaved {
		err = s.svc.DeleteRecipe(ctx, recipe.ID)
	} else {
		err = s.svc.SaveRecipe(ctx, recipe)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if err != nil {
		s.state.UserMessage = UserMessage(err)
		s.notifyLocked()
		return
	}

	// Reflect the write now; the saved feed confirms it shortly after.
	if isSaved {
		delete(s.saved, recipe.ID)
	} else {
		s.saved[recipe.ID] = struct{}{}
	}
	s.rebuildItemsLocked()
	s.notifyLocked()
}

// OnUserMessageShown clears the message once the user has seen it.
func (s *SearchScreen) OnUserMessageShown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.UserMessage == "" {
		return
	}
	s.state.UserMessage = ""
	s.notifyLocked()
}

func (s *SearchScreen) stopDebounceLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// Invalidates a timer that already fired and is waiting for the lock.
	s.debounceSeq++
}

// searchLocked starts a search for query. Only the most recently started
// search may update the state.
func (s *SearchScreen) searchLocked(query string) {
	s.searchSeq++
	seq := s.searchSeq

	s.state.IsLoading = true
	s.notifyLocked()

	ctx := s.ctx
	s.goLocked(func() {
		recipes, err := s.svc.SearchRecipes(ctx, query)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || seq != s.searchSeq {
			return
		}

		s.state.IsLoading = false
		if err != nil {
			s.results = nil
			s.state.UserMessage = UserMessage(err)
		} else {
			s.results = recipes
		}
		s.rebuildItemsLocked()
		s.notifyLocked()
	})
}

func (s *SearchScreen) rebuildItemsLocked() {
	items := make([]RecipeItem, 0, len(s.results))
	for _, r := range s.results {
		_, ok := s.saved[r.ID]
		items = append(items, RecipeItem{Recipe: r, IsSaved: ok})
	}
	s.state.Recipes = items
}
