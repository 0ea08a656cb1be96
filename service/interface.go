package service

import (
	"github.com/fulldump/inmemdb/database"
)

var ErrorSessionNotFound = database.ErrSessionNotFound
var ErrorSessionAlreadyExists = database.ErrSessionAlreadyExists

type Servicer interface {
	CreateSession(name string) (*database.Session, error)
	GetSession(name string) (*database.Session, error)
	ListSessions() []*database.Session
	EndSession(name string) (int, error)
	CommitOnEnd() bool
}
