package presentation

import (
	"context"
	"fmt"
	"slices"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// DetailState is a snapshot of the recipe detail screen. Recipe is nil until
// the recipe has loaded.
type DetailState struct {
	Recipe        *model.Recipe
	NumberedSteps []string
	IsSaved       bool
	IsLoading     bool
	UserMessage   string
}

// DetailScreen loads one recipe and tracks whether it is saved.
type DetailScreen struct {
	screen

	svc   RecipeService
	id    string
	state DetailState

	// feedSeen is set once the saved feed has answered, so IsSaved is known.
	feedSeen bool
}

// NewDetailScreen opens the detail screen for the recipe with the given ID and
// starts loading it. The caller must Close the screen.
func NewDetailScreen(svc RecipeService, id string) *DetailScreen {
	s := &DetailScreen{
		svc:   svc,
		id:    id,
		state: DetailState{IsLoading: true, NumberedSteps: []string{}},
	}
	s.init()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.ctx
	s.goLocked(func() {
		recipe, err := svc.GetRecipeDetails(ctx, id)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed {
			return
		}
		s.state.IsLoading = false
		if err != nil {
			s.state.UserMessage = UserMessage(err)
		} else {
			s.state.Recipe = &recipe
			s.state.NumberedSteps = numberSteps(recipe.Steps())
		}
		s.notifyLocked()
	})

	s.watchSavedLocked(svc, func(recipes []model.Recipe, err error) {
		s.feedSeen = true
		if err != nil {
			return
		}
		_, s.state.IsSaved = savedIDs(recipes)[id]
	})

	return s
}

// State returns a copy of the current state.
func (s *DetailScreen) State() DetailState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *DetailScreen) stateLocked() DetailState {
	st := s.state
	if s.state.Recipe != nil {
		recipe := *s.state.Recipe
		recipe.Ingredients = slices.Clone(recipe.Ingredients)
		st.Recipe = &recipe
	}
	st.NumberedSteps = slices.Clone(s.state.NumberedSteps)
	return st
}

// AwaitLoaded blocks until the recipe load has finished and the saved flag is
// known, then returns the state at that point.
func (s *DetailScreen) AwaitLoaded(ctx context.Context) (DetailState, error) {
	for {
		s.mu.Lock()
		if !s.state.IsLoading && s.feedSeen {
			st := s.stateLocked()
			s.mu.Unlock()
			return st, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return DetailState{}, ctx.Err()
		case _, ok := <-s.changes:
			if !ok {
				return DetailState{}, context.Canceled
			}
		}
	}
}

// OnToggleSave unsaves the recipe if it is saved and saves it otherwise. It is
// a no-op until the recipe has loaded.
func (s *DetailScreen) OnToggleSave() {
	s.mu.Lock()
	if s.closed || s.state.Recipe == nil {
		s.mu.Unlock()
		return
	}
	recipe := *s.state.Recipe
	isSaved := s.state.IsSaved
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
	} else {
		s.state.IsSaved = !isSaved
	}
	s.notifyLocked()
}

// OnUserMessageShown clears the message once the user has seen it.
func (s *DetailScreen) OnUserMessageShown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.UserMessage == "" {
		return
	}
	s.state.UserMessage = ""
	s.notifyLocked()
}

// numberSteps prefixes each step with its 1-based position.
func numberSteps(steps []string) []string {
	numbered := make([]string, len(steps))
	for i, step := range steps {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, step)
	}
	return numbered
}
