package database

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/btree"
	"github.com/google/uuid"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrSessionEnded         = errors.New("session ended")
)

type Config struct {
	// CommitOnEnd commits open transactions when a session ends or the
	// database stops, otherwise they are abandoned.
	CommitOnEnd bool
}

type Database struct {
	Config *Config

	mutex    *sync.RWMutex
	status   string
	sessions map[string]*Session
	byName   *btree.BTreeG[*Session]
	exit     chan struct{}
	stopOnce *sync.Once
}

func NewDatabase(config *Config) *Database {
	return &Database{
		Config:   config,
		mutex:    &sync.RWMutex{},
		status:   StatusOpening,
		sessions: map[string]*Session{},
		byName: btree.NewG(32, func(a, b *Session) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}),
		exit:     make(chan struct{}),
		stopOnce: &sync.Once{},
	}
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

func (db *Database) CreateSession(name string) (*Session, error) {

	id := uuid.New().String()
	if name == "" {
		name = id
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if db.nameTaken(name) {
		return nil, fmt.Errorf("%w: '%s'", ErrSessionAlreadyExists, name)
	}

	session := newSession(id, name)
	db.sessions[id] = session
	db.byName.ReplaceOrInsert(session)

	return session, nil
}

// nameTaken must be called with the lock held.
func (db *Database) nameTaken(name string) bool {
	taken := false
	db.byName.AscendGreaterOrEqual(&Session{Name: name}, func(s *Session) bool {
		taken = s.Name == name
		return false
	})
	return taken
}

// GetSession finds a session by id or by name.
func (db *Database) GetSession(idOrName string) (*Session, error) {

	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if session, exists := db.sessions[idOrName]; exists {
		return session, nil
	}

	var found *Session
	db.byName.AscendGreaterOrEqual(&Session{Name: idOrName}, func(s *Session) bool {
		if s.Name == idOrName {
			found = s
		}
		return false
	})
	if found != nil {
		return found, nil
	}

	return nil, ErrSessionNotFound
}

// ListSessions returns the sessions ordered by name.
func (db *Database) ListSessions() []*Session {

	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := make([]*Session, 0, db.byName.Len())
	db.byName.Ascend(func(s *Session) bool {
		result = append(result, s)
		return true
	})

	return result
}

// EndSession finalizes the session open transactions, according to
// Config.CommitOnEnd, and removes it from the registry. It returns how many
// transactions were open.
func (db *Database) EndSession(idOrName string) (int, error) {

	session, err := db.GetSession(idOrName)
	if err != nil {
		return 0, err
	}

	db.mutex.Lock()
	delete(db.sessions, session.ID)
	db.byName.Delete(session)
	db.mutex.Unlock()

	n, err := session.End(db.Config.CommitOnEnd)
	if err == ErrSessionEnded {
		return 0, nil
	}
	if err != nil {
		return n, fmt.Errorf("end session '%s': %w", session.Name, err)
	}
	if n > 0 {
		log.Printf("Session '%s' ended with %d open transactions (commit=%v)\n", session.Name, n, db.Config.CommitOnEnd)
	}

	return n, nil
}

func (db *Database) Load() error {
	// Nothing to read: sessions only live in memory.
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.status == StatusOpening {
		db.status = StatusOperating
	}
	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	var lastErr error

	db.stopOnce.Do(func() {
		defer close(db.exit)

		db.setStatus(StatusClosing)

		for _, session := range db.ListSessions() {
			n, err := session.End(db.Config.CommitOnEnd)
			if err == ErrSessionEnded {
				continue
			}
			if err != nil {
				log.Printf("ERROR: end session '%s': %s\n", session.Name, err.Error())
				lastErr = err
				continue
			}
			if n > 0 {
				log.Printf("Closing session '%s' with %d open transactions (commit=%v)\n", session.Name, n, db.Config.CommitOnEnd)
			}
		}
	})

	return lastErr
}
