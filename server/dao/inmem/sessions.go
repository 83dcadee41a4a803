package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gumshoeworks/gumshoe/server/dao"
)

func NewSessionsRepository() *SessionsRepository {
	return &SessionsRepository{
		sessions:    make(map[uuid.UUID]dao.Session),
		byUserIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type SessionsRepository struct {
	sessions    map[uuid.UUID]dao.Session
	byUserIndex map[uuid.UUID][]uuid.UUID
}

func (imsr *SessionsRepository) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	s.ID = newUUID
	s.Created = time.Now()
	s.State = copyBytes(s.State)

	imsr.sessions[s.ID] = s
	imsr.byUserIndex[s.UserID] = append(imsr.byUserIndex[s.UserID], s.ID)

	return s, nil
}

func (imsr *SessionsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s, ok := imsr.sessions[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	return s, nil
}

func (imsr *SessionsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	ids := imsr.byUserIndex[userID]

	all := make([]dao.Session, 0, len(ids))
	for _, id := range ids {
		all = append(all, imsr.sessions[id])
	}

	sort.Slice(all, func(l, r int) bool {
		return all[l].Created.Before(all[r].Created)
	})

	return all, nil
}

func (imsr *SessionsRepository) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	existing, ok := imsr.sessions[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	// ID, UserID, and Created are immutable once created
	existing.State = copyBytes(s.State)
	existing.Over = s.Over

	imsr.sessions[id] = existing

	return existing, nil
}

func (imsr *SessionsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s, ok := imsr.sessions[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	delete(imsr.sessions, id)

	ids := imsr.byUserIndex[s.UserID]
	for i := range ids {
		if ids[i] == id {
			imsr.byUserIndex[s.UserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	return s, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
