package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gumshoeworks/gumshoe/internal/version"
	"github.com/gumshoeworks/gumshoe/server/dao"
	"github.com/gumshoeworks/gumshoe/server/middle"
	"github.com/gumshoeworks/gumshoe/server/result"
	"github.com/gumshoeworks/gumshoe/server/serr"
	"github.com/gumshoeworks/gumshoe/server/token"
)

// POST /login: create a new login with token
func (gs *GumshoeServer) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := gs.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	// password is valid, generate token for user and return it.
	tok, err := token.Generate(gs.jwtSecret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:  tok,
		UserID: user.ID.String(),
	}
	return result.Created(resp, "user '"+user.Username+"' successfully logged in")
}

// POST /tokens: create a new token for self (auth required)
func (gs *GumshoeServer) epCreateToken(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	tok, err := token.Generate(gs.jwtSecret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:  tok,
		UserID: user.ID.String(),
	}
	return result.Created(resp, "user '"+user.Username+"' successfully created new token")
}

// DELETE /login/{id}: remove a login for some user (log out). Requires auth
// for access at all. Requires auth by user with role Admin to log out anybody
// but self.
func (gs *GumshoeServer) epDeleteLogin(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	id, res := urlUUID(req, "id")
	if res != nil {
		return *res
	}

	// is the user trying to delete someone else's login? they'd betta be the
	// admin if so!
	if id != user.ID && user.Role != dao.Admin {
		var otherUserStr string
		otherUser, err := gs.db.Users().GetByID(req.Context(), id)
		// if there was another user, find out now
		if err != nil {
			otherUserStr = id.String()
		} else {
			otherUserStr = "'" + otherUser.Username + "'"
		}

		return result.Forbidden("user '%s' (role %s) logout of user %s: forbidden", user.Username, user.Role, otherUserStr)
	}

	loggedOutUser, err := gs.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out user: " + err.Error())
	}

	var otherStr string
	if id != user.ID {
		otherStr = "user '" + loggedOutUser.Username + "'"
	} else {
		otherStr = "self"
	}

	return result.NoContent("user '%s' successfully logged out %s", user.Username, otherStr)
}

// POST /users: create a new user (admin auth required)
func (gs *GumshoeServer) epCreateUser(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", user.Username, user.Role)
	}

	var createUser UserModel
	err := parseJSON(req, &createUser)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createUser.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if createUser.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	role := dao.Unverified
	if createUser.Role != "" {
		role, err = dao.ParseRole(createUser.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	newUser, err := gs.CreateUser(req.Context(), createUser.Username, createUser.Password, createUser.Email, role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("User with that username already exists", "user '%s' already exists", createUser.Username)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := UserModel{
		ID:       newUser.ID.String(),
		Username: newUser.Username,
		Role:     newUser.Role.String(),
	}

	if newUser.Email != nil {
		resp.Email = newUser.Email.String()
	}

	return result.Created(resp, "user '%s' (%s) created", resp.Username, resp.ID)
}

// POST /sessions: start a new investigation for the logged-in user.
func (gs *GumshoeServer) epCreateSession(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	s, opening, err := gs.CreateSession(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError("could not create session: " + err.Error())
	}

	resp := SessionModel{
		ID:      s.ID.String(),
		Created: s.Created.Unix(),
		Over:    s.Over,
		Opening: opening,
	}

	return result.Created(resp, "user '%s' created session %s", user.Username, resp.ID)
}

// GET /sessions: list the logged-in user's sessions.
func (gs *GumshoeServer) epListSessions(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	sessions, err := gs.GetSessionsForUser(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError("could not list sessions: " + err.Error())
	}

	resp := make([]SessionModel, len(sessions))
	for i := range sessions {
		resp[i] = SessionModel{
			ID:      sessions[i].ID.String(),
			Created: sessions[i].Created.Unix(),
			Over:    sessions[i].Over,
		}
	}

	return result.OK(resp, "user '%s' listed %d session(s)", user.Username, len(resp))
}

// GET /sessions/{id}: get info on one of the logged-in user's sessions.
func (gs *GumshoeServer) epGetSession(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	id, res := urlUUID(req, "id")
	if res != nil {
		return *res
	}

	s, err := gs.GetSession(req.Context(), id, user.ID)
	if err != nil {
		return sessionErrResult(err)
	}

	resp := SessionModel{
		ID:      s.ID.String(),
		Created: s.Created.Unix(),
		Over:    s.Over,
	}

	return result.OK(resp, "user '%s' got session %s", user.Username, resp.ID)
}

// POST /sessions/{id}/commands: run a command in a session. The reply is the
// transcript entry the command produced.
func (gs *GumshoeServer) epSubmitCommand(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	id, res := urlUUID(req, "id")
	if res != nil {
		return *res
	}

	var cmd CommandRequest
	if err := parseJSON(req, &cmd); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if strings.TrimSpace(cmd.Input) == "" {
		return result.BadRequest("input: property is empty or missing from request", "empty input")
	}

	entry, err := gs.SubmitCommand(req.Context(), id, user.ID, cmd.Input)
	if err != nil {
		if errors.Is(err, serr.ErrSessionOver) {
			return result.Conflict("That case has already concluded", "session %s is over", id)
		}
		return sessionErrResult(err)
	}

	resp := TranscriptEntryModel{
		Seq:     entry.Seq,
		Input:   entry.Input,
		Reply:   entry.Reply,
		Created: entry.Created.Unix(),
	}

	return result.Created(resp, "user '%s' ran command in session %s", user.Username, id)
}

// GET /sessions/{id}/commands: fetch a session's transcript. The optional
// query parameter ?after=N skips entries at or before sequence number N.
func (gs *GumshoeServer) epGetTranscript(req *http.Request) result.Result {
	user, ok := middle.GetLoggedInUser(req)
	if !ok {
		return result.Unauthorized("", "no logged-in user in request context")
	}

	id, res := urlUUID(req, "id")
	if res != nil {
		return *res
	}

	afterSeq := -1
	if afterStr := req.URL.Query().Get("after"); afterStr != "" {
		var err error
		afterSeq, err = strconv.Atoi(afterStr)
		if err != nil {
			return result.BadRequest("after: must be an integer", "bad after param: %q", afterStr)
		}
	}

	entries, err := gs.Transcript(req.Context(), id, user.ID, afterSeq)
	if err != nil {
		return sessionErrResult(err)
	}

	resp := make([]TranscriptEntryModel, len(entries))
	for i := range entries {
		resp[i] = TranscriptEntryModel{
			Seq:     entries[i].Seq,
			Input:   entries[i].Input,
			Reply:   entries[i].Reply,
			Created: entries[i].Created.Unix(),
		}
	}

	return result.OK(resp, "user '%s' fetched %d transcript entries of session %s", user.Username, len(resp), id)
}

// GET /info: version info on the server and engine.
func (gs *GumshoeServer) epGetInfo(req *http.Request) result.Result {
	resp := InfoResponse{
		Version:       version.Current,
		ServerVersion: version.ServerCurrent,
	}
	return result.OK(resp, "info requested")
}

func sessionErrResult(err error) result.Result {
	if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	}
	if errors.Is(err, serr.ErrPermissions) {
		// deliberately a 404; don't leak that the session exists
		return result.NotFound("session belongs to another user")
	}
	return result.InternalServerError(err.Error())
}

func urlUUID(req *http.Request, name string) (uuid.UUID, *result.Result) {
	idStr := chi.URLParam(req, name)
	id, err := uuid.Parse(idStr)
	if err != nil {
		res := result.BadRequest(name+": must be a valid UUID", "bad %s param: %q", name, idStr)
		return uuid.UUID{}, &res
	}
	return id, nil
}

// parseJSON unmarshals a request body; v must be a pointer to a type.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return fmt.Errorf("malformed JSON in request")
	}

	return nil
}
