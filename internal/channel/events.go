package channel

import (
	"fmt"
	"strings"
	"time"

	"hrdesk/internal/session"
)

// Event is the wire payload pushed by the portal's notification emitter.
type Event struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	UserId    string    `json:"userId"`
	EmittedAt time.Time `json:"emittedAt"`
}

// Handler receives each decoded event; it runs on the connection's
// callback goroutine and must not block.
type Handler func(Event)

// Subject scopes delivery to a single recipient; the portal publishes to
// the same shape.
func Subject(role session.Role, userId string) string {
	return fmt.Sprintf("hrdesk.notifications.%s.%s", strings.ToLower(string(role)), userId)
}
