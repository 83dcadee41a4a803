// Package inmem provides an in-memory implementation of the Gumshoe server
// store. It is the default when no database is configured, and is what the
// server tests run against.
package inmem

import (
	"github.com/gumshoeworks/gumshoe/server/dao"
)

type store struct {
	users       *UsersRepository
	sessions    *SessionsRepository
	transcripts *TranscriptsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users:       NewUsersRepository(),
		sessions:    NewSessionsRepository(),
		transcripts: NewTranscriptsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Sessions() dao.SessionRepository {
	return s.sessions
}

func (s *store) Transcripts() dao.TranscriptRepository {
	return s.transcripts
}

func (s *store) Close() error {
	return nil
}
