package server

// Request and response bodies for the REST API.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type UserModel struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type SessionModel struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	Over    bool   `json:"over"`

	// Opening is only set on session creation responses.
	Opening string `json:"opening,omitempty"`
}

type CommandRequest struct {
	Input string `json:"input"`
}

type TranscriptEntryModel struct {
	Seq     int    `json:"seq"`
	Input   string `json:"input"`
	Reply   string `json:"reply"`
	Created int64  `json:"created"`
}

type InfoResponse struct {
	Version       string `json:"version"`
	ServerVersion string `json:"server_version"`
}
