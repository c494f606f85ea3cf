package presentation

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// SavedState is a snapshot of the saved recipes screen. Recipes is already
// narrowed by Filter.
type SavedState struct {
	Recipes     []model.Recipe
	Filter      string
	IsLoading   bool
	UserMessage string
}

// SavedScreen lists saved recipes and follows changes to them.
type SavedScreen struct {
	screen

	svc    RecipeService
	all    []model.Recipe
	filter string
	loaded bool
	msg    string
}

// NewSavedScreen opens the saved recipes screen. The caller must Close it.
func NewSavedScreen(svc RecipeService) *SavedScreen {
	s := &SavedScreen{svc: svc}
	s.init()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchSavedLocked(svc, func(recipes []model.Recipe, err error) {
		s.loaded = true
		if err != nil {
			s.msg = UserMessage(err)
			return
		}
		s.all = recipes
	})

	return s
}

// State returns a copy of the current state.
func (s *SavedScreen) State() SavedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *SavedScreen) stateLocked() SavedState {
	return SavedState{
		Recipes:     filterByName(s.all, s.filter),
		Filter:      s.filter,
		IsLoading:   !s.loaded,
		UserMessage: s.msg,
	}
}

// AwaitLoaded blocks until the first saved list has arrived and returns the
// state at that point.
func (s *SavedScreen) AwaitLoaded(ctx context.Context) (SavedState, error) {
	for {
		s.mu.Lock()
		if s.loaded {
			st := s.stateLocked()
			s.mu.Unlock()
			return st, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return SavedState{}, ctx.Err()
		case _, ok := <-s.changes:
			if !ok {
				return SavedState{}, context.Canceled
			}
		}
	}
}

// OnFilterChanged narrows the list to recipes whose name contains filter,
// ignoring case.
func (s *SavedScreen) OnFilterChanged(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter == filter {
		return
	}
	s.filter = filter
	s.notifyLocked()
}

// OnUnsave removes recipe from the saved list. It blocks until the delete finishes.
func (s *SavedScreen) OnUnsave(recipe model.Recipe) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.mu.Unlock()

	err := s.svc.DeleteRecipe(ctx, recipe.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if err != nil {
		s.msg = UserMessage(err)
	} else {
		s.all = slices.DeleteFunc(slices.Clone(s.all), func(r model.Recipe) bool {
			return r.ID == recipe.ID
		})
	}
	s.notifyLocked()
}

// OnUserMessageShown clears the message once the user has seen it.
func (s *SavedScreen) OnUserMessageShown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.msg == "" {
		return
	}
	s.msg = ""
	s.notifyLocked()
}

func filterByName(recipes []model.Recipe, filter string) []model.Recipe {
	out := make([]model.Recipe, 0, len(recipes))
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(filter))
	for _, r := range recipes {
		if needle == "" || strings.Contains(fold.String(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}
