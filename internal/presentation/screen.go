package presentation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// screen carries the lifecycle shared by every state holder: a lock guarding
// the holder's state, a context bounding background work and a coalescing
// change signal.
type screen struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	changes chan struct{}
	closed  bool
}

func (s *screen) init() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.changes = make(chan struct{}, 1)
}

// Changes returns a channel that receives a value after the state changes.
// Notifications coalesce, so a reader should re-read the full state. The
// channel is closed when the screen is closed.
func (s *screen) Changes() <-chan struct{} {
	return s.changes
}

// Close cancels in-flight work and waits for background goroutines to exit.
// Results arriving afterwards are dropped. Close is idempotent.
func (s *screen) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	close(s.changes)
	s.mu.Unlock()

	s.wg.Wait()
}

// notifyLocked signals a state change without blocking.
func (s *screen) notifyLocked() {
	if s.closed {
		return
	}
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// goLocked runs fn on a tracked goroutine unless the screen is closed.
func (s *screen) goLocked(fn func()) {
	if s.closed {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// watchSavedLocked follows the saved recipe feed until the screen closes.
// apply runs with the lock held for every snapshot, or once with the error
// if the feed cannot be opened.
func (s *screen) watchSavedLocked(svc RecipeService, apply func(recipes []model.Recipe, err error)) {
	s.goLocked(func() {
		ch, err := svc.WatchSaved(s.ctx)
		if err != nil {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return
			}
			slog.Error("failed to watch saved recipes", "error", err)
			apply(nil, err)
			s.notifyLocked()
			return
		}

		for recipes := range ch {
			s.mu.Lock()
			if !s.closed {
				apply(recipes, nil)
				s.notifyLocked()
			}
			s.mu.Unlock()
		}
	})
}

// savedIDs builds a set of the IDs in recipes.
func savedIDs(recipes []model.Recipe) map[string]struct{} {
	ids := make(map[string]struct{}, len(recipes))
	for _, r := range recipes {
		ids[r.ID] = struct{}{}
	}
	return ids
}
