package messenger

import "github.com/lalith-99/pocketchat/internal/models"

// Event types published after a successful write.
const (
	EventMessageCreated = "message.created"
	EventReactionAdded  = "reaction.added"
)

// Event describes a change that chat participants may want pushed to them.
type Event struct {
	Type    string          `json:"type"`
	ChatID  string          `json:"chatId"`
	Message *models.Message `json:"message"`

	// Recipients are the chat's participants at the time of the event.
	Recipients []string `json:"-"`
}

// Publisher receives events. Publish must not block on slow consumers.
type Publisher interface {
	Publish(ev Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
