package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/gumshoeworks/gumshoe/server/dao"
)

type TranscriptsDB struct {
	db *sql.DB
}

func (repo *TranscriptsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS transcripts (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE ON UPDATE CASCADE,
		seq INTEGER NOT NULL,
		input TEXT NOT NULL,
		reply TEXT NOT NULL,
		created INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *TranscriptsDB) Append(ctx context.Context, entry dao.TranscriptEntry) (dao.TranscriptEntry, error) {
	// next seq for the session; COALESCE covers the empty-transcript case
	row := repo.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM transcripts WHERE session_id = ?;`,
		entry.SessionID.String(),
	)
	if err := row.Scan(&entry.Seq); err != nil {
		return dao.TranscriptEntry{}, wrapDBError(err)
	}

	entry.Created = time.Now()

	_, err := repo.db.ExecContext(ctx, `INSERT INTO transcripts (session_id, seq, input, reply, created) VALUES (?, ?, ?, ?, ?)`,
		entry.SessionID.String(),
		entry.Seq,
		entry.Input,
		entry.Reply,
		entry.Created.Unix(),
	)
	if err != nil {
		return dao.TranscriptEntry{}, wrapDBError(err)
	}

	return entry, nil
}

func (repo *TranscriptsDB) GetForSession(ctx context.Context, sessionID uuid.UUID, afterSeq int) ([]dao.TranscriptEntry, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT seq, input, reply, created FROM transcripts WHERE session_id=? AND seq > ? ORDER BY seq;`,
		sessionID.String(),
		afterSeq,
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.TranscriptEntry

	for rows.Next() {
		entry := dao.TranscriptEntry{
			SessionID: sessionID,
		}
		var created int64
		err = rows.Scan(
			&entry.Seq,
			&entry.Input,
			&entry.Reply,
			&created,
		)

		if err != nil {
			return nil, wrapDBError(err)
		}

		entry.Created = time.Unix(created, 0)

		all = append(all, entry)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}
