package apisessionv1

import (
	"time"

	"github.com/fulldump/inmemdb/database"
	"github.com/fulldump/inmemdb/engine"
)

type SessionResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	engine.Stats
}

func newSessionResponse(s *database.Session) *SessionResponse {
	return &SessionResponse{
		ID:      s.ID,
		Name:    s.Name,
		Created: s.Created,
		Stats:   s.Stats(),
	}
}
