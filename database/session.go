package database

import (
	"sync"
	"time"

	"github.com/fulldump/inmemdb/engine"
)

// Session owns one engine. Engines are never shared across sessions.
type Session struct {
	ID      string
	Name    string
	Created time.Time

	mutex  *sync.Mutex
	engine *engine.Engine
	ended  bool
}

func newSession(id, name string) *Session {
	return &Session{
		ID:      id,
		Name:    name,
		Created: time.Now(),
		mutex:   &sync.Mutex{},
		engine:  engine.New(),
	}
}

// Do runs f with exclusive access to the session engine.
func (s *Session) Do(f func(e *engine.Engine) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	return f(s.engine)
}

// End finalizes the open transactions and rejects further operations.
func (s *Session) End(commit bool) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.ended {
		return 0, ErrSessionEnded
	}
	s.ended = true
	return s.engine.End(commit)
}

func (s *Session) Stats() engine.Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.engine.Stats()
}
