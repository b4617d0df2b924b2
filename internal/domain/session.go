package domain

type User struct {
	Email string `json:"email"`
	Role  string `json:"role"` // customer | admin
}

func (u User) IsAdmin() bool { return u.Role == "admin" }

// Session mirrors the token pair issued by the auth collaborator.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

func (s Session) Empty() bool { return s.AccessToken == "" }

type AuthEventType string

const (
	EventSignedIn       AuthEventType = "SIGNED_IN"
	EventSignedOut      AuthEventType = "SIGNED_OUT"
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	EventInitialSession AuthEventType = "INITIAL_SESSION"
)

// AuthEvent is what the auth service publishes on its event stream.
// SIGNED_OUT carries an empty session.
type AuthEvent struct {
	Type    AuthEventType
	Session Session
}
