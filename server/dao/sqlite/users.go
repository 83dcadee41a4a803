package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/gumshoeworks/gumshoe/server/dao"
)

type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL,
		role INTEGER NOT NULL,
		last_logout INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO users (id, username, password, email, role, last_logout) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	now := time.Now()
	_, err = stmt.ExecContext(
		ctx,
		newUUID.String(),
		user.Username,
		user.Password,
		emailStr(user.Email),
		int(user.Role),
		now.Unix(),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT username, password, email, role, last_logout FROM users WHERE id = ?;`,
		id.String(),
	)
	return repo.scanUser(row, dao.User{ID: id})
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	var idStr string
	row := repo.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?;`, username)
	if err := row.Scan(&idStr); err != nil {
		return dao.User{}, wrapDBError(err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return dao.User{}, fmt.Errorf("stored UUID %q is invalid", idStr)
	}

	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, username, password, email, role, last_logout FROM users ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.User

	for rows.Next() {
		var user dao.User
		var id string
		var email string
		var role int
		var lastLogout int64
		err = rows.Scan(
			&id,
			&user.Username,
			&user.Password,
			&email,
			&role,
			&lastLogout,
		)

		if err != nil {
			return nil, wrapDBError(err)
		}

		user.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", id)
		}
		user.Email, err = parseEmail(email)
		if err != nil {
			return all, err
		}
		user.Role = dao.Role(role)
		user.LastLogoutTime = time.Unix(lastLogout, 0)

		all = append(all, user)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE users SET id=?, username=?, password=?, email=?, role=?, last_logout=? WHERE id=?;`,
		user.ID.String(),
		user.Username,
		user.Password,
		emailStr(user.Email),
		int(user.Role),
		user.LastLogoutTime.Unix(),
		id.String(),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.User{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, user.ID)
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
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

func (repo *UsersDB) scanUser(row *sql.Row, user dao.User) (dao.User, error) {
	var email string
	var role int
	var lastLogout int64

	err := row.Scan(
		&user.Username,
		&user.Password,
		&email,
		&role,
		&lastLogout,
	)
	if err != nil {
		return user, wrapDBError(err)
	}

	user.Email, err = parseEmail(email)
	if err != nil {
		return user, err
	}
	user.Role = dao.Role(role)
	user.LastLogoutTime = time.Unix(lastLogout, 0)

	return user, nil
}

func emailStr(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func parseEmail(s string) (*mail.Address, error) {
	if s == "" {
		return nil, nil
	}
	email, err := mail.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("stored email %q is invalid: %w", s, err)
	}
	return email, nil
}
