package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gumshoeworks/gumshoe/server/dao"
)

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE,
		state TEXT NOT NULL,
		over INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO sessions (id, user_id, state, over, created) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	now := time.Now()

	encState := base64.StdEncoding.EncodeToString(s.State)
	_, err = stmt.ExecContext(ctx, newUUID.String(), s.UserID.String(), encState, boolInt(s.Over), now.Unix())
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s := dao.Session{
		ID: id,
	}
	var userID string
	var encState string
	var over int
	var created int64

	row := repo.db.QueryRowContext(ctx, `SELECT user_id, state, over, created FROM sessions WHERE id = ?;`,
		id.String(),
	)
	err := row.Scan(
		&userID,
		&encState,
		&over,
		&created,
	)

	if err != nil {
		return s, wrapDBError(err)
	}

	s.UserID, err = uuid.Parse(userID)
	if err != nil {
		return s, fmt.Errorf("stored user ID %q is invalid: %w", userID, err)
	}

	s.State, err = base64.StdEncoding.DecodeString(encState)
	if err != nil {
		return s, fmt.Errorf("stored game state for %s is invalid: %w", s.ID.String(), err)
	}
	s.Over = over != 0
	s.Created = time.Unix(created, 0)

	return s, nil
}

func (repo *SessionsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, state, over, created FROM sessions WHERE user_id=? ORDER BY created;`, userID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Session

	for rows.Next() {
		s := dao.Session{
			UserID: userID,
		}
		var id string
		var encState string
		var over int
		var created int64
		err = rows.Scan(
			&id,
			&encState,
			&over,
			&created,
		)

		if err != nil {
			return nil, wrapDBError(err)
		}

		s.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", id)
		}
		s.State, err = base64.StdEncoding.DecodeString(encState)
		if err != nil {
			return all, fmt.Errorf("stored game state for %s is invalid: %w", id, err)
		}
		s.Over = over != 0
		s.Created = time.Unix(created, 0)

		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	encState := base64.StdEncoding.EncodeToString(s.State)

	res, err := repo.db.ExecContext(ctx, `UPDATE sessions SET state=?, over=? WHERE id=?;`,
		encState,
		boolInt(s.Over),
		id.String(),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Session{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, id)
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
