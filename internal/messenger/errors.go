package messenger

import "errors"

// Callers match these with errors.Is. Storage failures are returned
// wrapped and are none of these.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrDanglingReference  = errors.New("chat references a user that no longer exists")
	ErrChatNotFound       = errors.New("chat not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotParticipant     = errors.New("not a participant of this chat")
	ErrInvalidInput       = errors.New("invalid input")
)
