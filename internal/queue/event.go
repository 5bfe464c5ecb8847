// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// WebsiteUpdatedQueue is the durable queue carrying WebsiteUpdatedEvent.
const WebsiteUpdatedQueue = "website.updated"

// Sources of a content change.
const (
	SourceVoice  = "voice"
	SourceText   = "text"
	SourceManual = "manual"
)

// WebsiteUpdatedEvent is published after a user's website content changes.
// It carries enough for consumers to log or notify without querying the
// primary database.
type WebsiteUpdatedEvent struct {
	EventID   string   `json:"event_id"`
	UserID    uint64   `json:"user_id"`
	Username  string   `json:"username"`
	Source    string   `json:"source"`
	Fields    []string `json:"fields"`
	Value     string   `json:"value,omitempty"` // set when a single field changed
	UpdatedAt string   `json:"updated_at"`
}
