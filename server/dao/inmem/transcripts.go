package inmem

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gumshoeworks/gumshoe/server/dao"
)

func NewTranscriptsRepository() *TranscriptsRepository {
	return &TranscriptsRepository{
		entries: make(map[uuid.UUID][]dao.TranscriptEntry),
	}
}

type TranscriptsRepository struct {
	entries map[uuid.UUID][]dao.TranscriptEntry
}

func (imtr *TranscriptsRepository) Append(ctx context.Context, entry dao.TranscriptEntry) (dao.TranscriptEntry, error) {
	existing := imtr.entries[entry.SessionID]

	entry.Seq = len(existing)
	entry.Created = time.Now()

	imtr.entries[entry.SessionID] = append(existing, entry)

	return entry, nil
}

func (imtr *TranscriptsRepository) GetForSession(ctx context.Context, sessionID uuid.UUID, afterSeq int) ([]dao.TranscriptEntry, error) {
	existing := imtr.entries[sessionID]

	// entries are stored in sequence order already, so slicing is enough
	start := afterSeq + 1
	if start < 0 {
		start = 0
	}
	if start >= len(existing) {
		return nil, nil
	}

	out := make([]dao.TranscriptEntry, len(existing)-start)
	copy(out, existing[start:])
	return out, nil
}
