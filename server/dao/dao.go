// Package dao provides data access objects for use in the Gumshoe server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is a set of repositories backed by the same persistence layer.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Transcripts() TranscriptRepository

	// Close closes all connections the store holds.
	Close() error
}

// UserRepository holds registered players.
type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
}

// SessionRepository holds investigation sessions in play.
type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
}

// TranscriptRepository holds the command/reply history of sessions.
type TranscriptRepository interface {

	// Append adds an entry to the end of a session's transcript. The Seq of
	// the given entry is ignored; the stored entry is assigned the next
	// sequence number for the session.
	Append(ctx context.Context, entry TranscriptEntry) (TranscriptEntry, error)

	// GetForSession returns the full transcript of a session in sequence
	// order. The afterSeq parameter skips all entries at or before that
	// sequence number; pass a negative number to get everything.
	GetForSession(ctx context.Context, sessionID uuid.UUID, afterSeq int) ([]TranscriptEntry, error)
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID
	Username       string
	Password       string // base64-encoded bcrypt hash
	Email          *mail.Address
	Role           Role
	LastLogoutTime time.Time
}

// Session is a single playthrough of a case by one user. State is the binary
// save-state blob of the game engine as of the last command, so a session can
// be resumed after server restart.
type Session struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	State   []byte
	Over    bool
	Created time.Time
}

// TranscriptEntry is one command given to a session and the game's reply.
type TranscriptEntry struct {
	SessionID uuid.UUID
	Seq       int
	Input     string
	Reply     string
	Created   time.Time
}
