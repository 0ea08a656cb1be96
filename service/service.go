package service

import (
	"github.com/fulldump/inmemdb/database"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateSession(name string) (*database.Session, error) {
	return s.db.CreateSession(name)
}

func (s *Service) GetSession(name string) (*database.Session, error) {
	return s.db.GetSession(name)
}

func (s *Service) ListSessions() []*database.Session {
	return s.db.ListSessions()
}

func (s *Service) EndSession(name string) (int, error) {
	return s.db.EndSession(name)
}

func (s *Service) CommitOnEnd() bool {
	return s.db.Config.CommitOnEnd
}
