package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/mycookbook/internal/presentation"
)

const sessionCookieName = "session_id"

// minReapInterval bounds how often idle sessions are swept.
const minReapInterval = time.Second

// session is one browser's search screen.
type session struct {
	id       uuid.UUID
	search   *presentation.SearchScreen
	lastSeen time.Time
}

// sessionStore maps session cookies to their screens and closes screens that
// have been idle longer than ttl.
type sessionStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*session
	ttl       time.Duration
	newSearch func() *presentation.SearchScreen
	now       func() time.Time
	logger    *slog.Logger
}

func newSessionStore(ttl time.Duration, newSearch func() *presentation.SearchScreen, logger *slog.Logger) *sessionStore {
	return &sessionStore{
		sessions:  make(map[uuid.UUID]*session),
		ttl:       ttl,
		newSearch: newSearch,
		now:       time.Now,
		logger:    logger,
	}
}

// find returns the live session named by the request cookie, if any. It never
// opens a session, so cookieless GETs cost no screen.
func (s *sessionStore) find(r *http.Request) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookupLocked(r)
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// get returns the session named by the request cookie, opening a new one
// (and setting its cookie) when the cookie is missing, malformed or expired.
// Only CSRF-checked POST handlers call it.
func (s *sessionStore) get(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if sess, ok := s.lookupLocked(r); ok {
		sess.lastSeen = now
		return sess
	}

	sess := &session{
		id:       uuid.New(),
		search:   s.newSearch(),
		lastSeen: now,
	}
	s.sessions[sess.id] = sess

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Debug("session opened", "session_id", sess.id.String())
	return sess
}

func (s *sessionStore) lookupLocked(r *http.Request) (*session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil, false
	}
	sess, ok := s.sessions[id]
	return sess, ok
}

// reap closes sessions idle for longer than ttl and returns how many it closed.
func (s *sessionStore) reap() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.ttl)
	var expired []*session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.search.Close()
		s.logger.Debug("session expired", "session_id", sess.id.String())
	}
	return len(expired)
}

// closeAll closes every session.
func (s *sessionStore) closeAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.search.Close()
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// run sweeps idle sessions until ctx is done, then closes the rest.
func (s *sessionStore) run(ctx context.Context) {
	interval := max(s.ttl/2, minReapInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			if n := s.reap(); n > 0 {
				s.logger.Info("closed idle sessions", "count", n)
			}
		}
	}
}
