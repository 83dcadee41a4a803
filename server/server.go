// Package server provides an HTTP REST server that hosts Gumshoe
// investigation sessions and associated resources. The zero-value of a
// GumshoeServer should not be used directly; call New() to get one ready for
// use.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gumshoeworks/gumshoe/internal/game"
	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/gwf"
	"github.com/gumshoeworks/gumshoe/server/dao"
	"github.com/gumshoeworks/gumshoe/server/serr"
)

const sessionOutputWidth = 80

// GumshoeServer hosts cases over HTTP. Each session a user creates gets its
// own game engine; the engine's save state is written back to the store after
// every command so sessions survive a restart.
type GumshoeServer struct {
	router        http.Handler
	db            dao.Store
	jwtSecret     []byte
	unauthedDelay time.Duration
	worldFile     string

	mu      sync.Mutex
	engines map[uuid.UUID]*sessionEngine
}

// sessionEngine is a live game engine for one session. Its output function
// appends to buf, which is drained after each command to form the reply.
type sessionEngine struct {
	mu  sync.Mutex
	st  *game.State
	buf strings.Builder
}

// New creates a new GumshoeServer from the given config.
func New(cfg Config) (*GumshoeServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	gs := &GumshoeServer{
		db:            db,
		jwtSecret:     cfg.TokenSecret,
		unauthedDelay: cfg.UnauthDelay(),
		worldFile:     cfg.WorldFile,
		engines:       make(map[uuid.UUID]*sessionEngine),
	}

	gs.router = newRouter(gs)

	return gs, nil
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost".
// If port is less than 1, it will default to 8080.
func (gs *GumshoeServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, gs.router))
}

// Login verifies the provided username and password against the existing
// user in persistence and returns that user if they match.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the credentials do not
// match a user or if the password is incorrect, it will match
// serr.ErrBadCredentials. If the error occured due to an unexpected problem
// with the DB, it will match serr.ErrDB.
func (gs *GumshoeServer) Login(ctx context.Context, username string, password string) (dao.User, error) {
	user, err := gs.db.Users().GetByUsername(ctx, username)
	if err != nil {
		if err == dao.ErrNotFound {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	// verify password
	bcryptHash, err := base64.StdEncoding.DecodeString(user.Password)
	if err != nil {
		return dao.User{}, err
	}

	err = bcrypt.CompareHashAndPassword(bcryptHash, []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	return user, nil
}

// Logout marks the user with the given ID as having logged out, invalidating
// any login that may be active. Returns the user entity that was logged out.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the user doesn't exist, it
// will match serr.ErrNotFound. If the error occured due to an unexpected
// problem with the DB, it will match serr.ErrDB.
func (gs *GumshoeServer) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	existing, err := gs.db.Users().GetByID(ctx, who)
	if err != nil {
		if err == dao.ErrNotFound {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.New("could not retrieve user", err, serr.ErrDB)
	}

	existing.LastLogoutTime = time.Now()

	updated, err := gs.db.Users().Update(ctx, existing.ID, existing)
	if err != nil {
		return dao.User{}, serr.New("could not update user", err, serr.ErrDB)
	}

	return updated, nil
}

// CreateUser creates a new user with the given username, password, and email
// combo. Returns the newly-created user as it exists after creation.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If a user with that username
// is already present, it will match serr.ErrAlreadyExists. If the error
// occured due to an unexpected problem with the DB, it will match serr.ErrDB.
// Finally, if one of the arguments is invalid, it will match
// serr.ErrBadArgument.
func (gs *GumshoeServer) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	var err error
	if username == "" {
		return dao.User{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.User{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	var storedEmail *mail.Address
	if email != "" {
		storedEmail, err = mail.ParseAddress(email)
		if err != nil {
			return dao.User{}, serr.New("email is not valid", err, serr.ErrBadArgument)
		}
	}

	_, err = gs.db.Users().GetByUsername(ctx, username)
	if err == nil {
		return dao.User{}, serr.New("a user with that username already exists", serr.ErrAlreadyExists)
	} else if err != dao.ErrNotFound {
		return dao.User{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.User{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.User{}, serr.New("password could not be encrypted", err)
	}

	storedPass := base64.StdEncoding.EncodeToString(passHash)

	newUser := dao.User{
		Username: username,
		Password: storedPass,
		Email:    storedEmail,
		Role:     role,
	}

	user, err := gs.db.Users().Create(ctx, newUser)
	if err != nil {
		if err == dao.ErrConstraintViolation {
			return dao.User{}, serr.ErrAlreadyExists
		}
		return dao.User{}, serr.New("could not create user", err, serr.ErrDB)
	}

	return user, nil
}

// UpdatePassword sets the password of the user with the given ID to the new
// password. The new password cannot be empty. Returns the updated user.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no user with the given ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if one
// of the arguments is invalid, it will match serr.ErrBadArgument.
func (gs *GumshoeServer) UpdatePassword(ctx context.Context, id uuid.UUID, password string) (dao.User, error) {
	if password == "" {
		return dao.User{}, serr.New("password cannot be empty", serr.ErrBadArgument)
	}

	existing, err := gs.db.Users().GetByID(ctx, id)
	if err != nil {
		if err == dao.ErrNotFound {
			return dao.User{}, serr.New("no user with that ID exists", serr.ErrNotFound)
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.User{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.User{}, serr.New("password could not be encrypted", err)
	}

	existing.Password = base64.StdEncoding.EncodeToString(passHash)

	updated, err := gs.db.Users().Update(ctx, id, existing)
	if err != nil {
		if err == dao.ErrNotFound {
			return dao.User{}, serr.New("no user with that ID exists", serr.ErrNotFound)
		}
		return dao.User{}, serr.New("could not update user", err, serr.ErrDB)
	}

	return updated, nil
}

// CreateSession starts a new investigation for the given user. It loads the
// server's world file into a fresh engine, persists the session, and returns
// it along with the opening room description.
func (gs *GumshoeServer) CreateSession(ctx context.Context, userID uuid.UUID) (dao.Session, string, error) {
	eng, err := gs.newEngine()
	if err != nil {
		return dao.Session{}, "", serr.New("could not start case", err)
	}

	// the opening description is just the result of an initial LOOK
	opening, _ := eng.run("look")

	stateData, err := eng.st.SaveData()
	if err != nil {
		return dao.Session{}, "", serr.New("could not snapshot new case", err)
	}

	s := dao.Session{
		UserID: userID,
		State:  stateData,
	}

	s, err = gs.db.Sessions().Create(ctx, s)
	if err != nil {
		return dao.Session{}, "", serr.WrapDB("could not persist session", err)
	}

	gs.mu.Lock()
	gs.engines[s.ID] = eng
	gs.mu.Unlock()

	entry := dao.TranscriptEntry{
		SessionID: s.ID,
		Input:     "look",
		Reply:     opening,
	}
	if _, err := gs.db.Transcripts().Append(ctx, entry); err != nil {
		return dao.Session{}, "", serr.WrapDB("could not persist transcript", err)
	}

	return s, opening, nil
}

// GetSession returns the session with the given ID, which must belong to the
// given user.
//
// The returned error, if non-nil, matches serr.ErrNotFound if no such session
// exists, and serr.ErrPermissions if it belongs to someone else.
func (gs *GumshoeServer) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (dao.Session, error) {
	s, err := gs.db.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		if err == dao.ErrNotFound {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("", err)
	}

	if s.UserID != userID {
		return dao.Session{}, serr.ErrPermissions
	}

	return s, nil
}

// GetSessionsForUser returns all sessions belonging to the given user in
// creation order.
func (gs *GumshoeServer) GetSessionsForUser(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	sessions, err := gs.db.Sessions().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return sessions, nil
}

// SubmitCommand executes one command against the given user's session and
// returns the appended transcript entry. The engine's new state is persisted
// before the reply is returned.
//
// The returned error matches serr.ErrNotFound if the session does not exist,
// serr.ErrPermissions if it belongs to someone else, and serr.ErrSessionOver
// if its case has already concluded.
func (gs *GumshoeServer) SubmitCommand(ctx context.Context, sessionID, userID uuid.UUID, input string) (dao.TranscriptEntry, error) {
	s, err := gs.GetSession(ctx, sessionID, userID)
	if err != nil {
		return dao.TranscriptEntry{}, err
	}

	if s.Over {
		return dao.TranscriptEntry{}, serr.ErrSessionOver
	}

	eng, err := gs.engineFor(s)
	if err != nil {
		return dao.TranscriptEntry{}, serr.New("could not revive session", err)
	}

	eng.mu.Lock()
	reply, _ := eng.run(input)
	stateData, saveErr := eng.st.SaveData()
	over := eng.st.Over()
	eng.mu.Unlock()

	if saveErr != nil {
		return dao.TranscriptEntry{}, serr.New("could not snapshot session", saveErr)
	}

	s.State = stateData
	s.Over = over
	if _, err := gs.db.Sessions().Update(ctx, s.ID, s); err != nil {
		return dao.TranscriptEntry{}, serr.WrapDB("could not persist session", err)
	}

	entry := dao.TranscriptEntry{
		SessionID: s.ID,
		Input:     input,
		Reply:     reply,
	}
	entry, err = gs.db.Transcripts().Append(ctx, entry)
	if err != nil {
		return dao.TranscriptEntry{}, serr.WrapDB("could not persist transcript", err)
	}

	return entry, nil
}

// Transcript returns the transcript of the given user's session, skipping
// entries at or before afterSeq (pass a negative number for the whole
// transcript).
func (gs *GumshoeServer) Transcript(ctx context.Context, sessionID, userID uuid.UUID, afterSeq int) ([]dao.TranscriptEntry, error) {
	if _, err := gs.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	entries, err := gs.db.Transcripts().GetForSession(ctx, sessionID, afterSeq)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return entries, nil
}

// engineFor returns the cached live engine for a session, reviving it from
// the persisted save state if the server has restarted since it last ran.
func (gs *GumshoeServer) engineFor(s dao.Session) (*sessionEngine, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if eng, ok := gs.engines[s.ID]; ok {
		return eng, nil
	}

	eng, err := gs.newEngine()
	if err != nil {
		return nil, err
	}
	if err := eng.st.RestoreData(s.State); err != nil {
		return nil, fmt.Errorf("restoring session state: %w", err)
	}

	gs.engines[s.ID] = eng
	return eng, nil
}

func (gs *GumshoeServer) newEngine() (*sessionEngine, error) {
	worldData, err := gwf.LoadResourceBundle(gs.worldFile)
	if err != nil {
		return nil, fmt.Errorf("loading world file: %w", err)
	}

	eng := &sessionEngine{}

	ioDev := game.IODevice{
		Width: sessionOutputWidth,
		Output: func(s string, a ...interface{}) error {
			fmt.Fprintf(&eng.buf, s, a...)
			return nil
		},
		Input: func(prompt string) (string, error) {
			// sessions are strictly command/reply; there is nobody to prompt
			return "", nil
		},
	}

	st, err := game.New(worldData.World, worldData.Start, worldData.Solution, ioDev)
	if err != nil {
		return nil, fmt.Errorf("initializing game engine: %w", err)
	}

	for _, w := range worldData.Words {
		st.Parser.AddWord(w.Text, w.Type, w.Canonical, w.EntityIDs)
	}
	for _, pat := range worldData.Patterns {
		st.Parser.AddPattern(pat)
	}

	eng.st = st
	return eng, nil
}

// run executes one line of input and returns the game's reply. Interpreter
// errors become part of the reply rather than an error; only the error half
// is non-nil for faults in the engine itself.
func (se *sessionEngine) run(input string) (string, error) {
	se.buf.Reset()

	res := se.st.Parse(input)
	if err := se.st.Advance(res); err != nil {
		return gserr.GameMessage(err), nil
	}

	reply := strings.TrimSpace(se.buf.String())
	se.buf.Reset()
	return reply, nil
}
