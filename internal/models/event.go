package models

// EventDislike is the payload type of a live-only unlike notification. The ledger never
// stores it.
const EventDislike = "dislike"

// EventPayload is the body of a live notification event. It is built per push and never stored.
type EventPayload struct {
	Type        string      `json:"type"`
	UserID      uint        `json:"userId"`
	UserDetails UserCompact `json:"userDetails"`
	PostID      string      `json:"postId,omitempty"`
	Message     string      `json:"message"`
}
