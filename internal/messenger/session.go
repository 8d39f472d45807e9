package messenger

import "github.com/lalith-99/pocketchat/internal/models"

// Session identifies the user an operation runs as. A nil *Session is an
// anonymous caller.
type Session struct {
	UserID   string
	Username string
}

// NewSession returns the session for u, or nil if u is nil.
func NewSession(u *models.User) *Session {
	if u == nil {
		return nil
	}
	return &Session{UserID: u.ID, Username: u.Username}
}
