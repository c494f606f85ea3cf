package application

import (
	"slices"
	"sync"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// savedFeed tracks the subscribers of the saved recipe list. mu also
// serializes snapshot loads so subscribers never receive lists out of order.
type savedFeed struct {
	mu   sync.Mutex
	subs map[chan []model.Recipe]struct{}
}

func newSavedFeed() *savedFeed {
	return &savedFeed{subs: make(map[chan []model.Recipe]struct{})}
}

func (f *savedFeed) subscribeLocked() chan []model.Recipe {
	ch := make(chan []model.Recipe, 1)
	f.subs[ch] = struct{}{}
	return ch
}

func (f *savedFeed) unsubscribe(ch chan []model.Recipe) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[ch]; !ok {
		return
	}
	delete(f.subs, ch)
	close(ch)
}

// offerLatest delivers recipes without blocking, replacing a snapshot the
// reader has not picked up yet. Callers must hold the feed lock.
func offerLatest(ch chan []model.Recipe, recipes []model.Recipe) {
	snapshot := slices.Clone(recipes)
	if snapshot == nil {
		snapshot = []model.Recipe{}
	}

	for {
		select {
		case ch <- snapshot:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}
