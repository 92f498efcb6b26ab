package realtime

import "time"

// Event names sent to the browser.
const (
	EventNotification = "notification"
	EventNewMessage   = "newMessage"
	EventOnlineUsers  = "getOnlineUsers"
)

// Envelope is the frame written to the socket for every event.
type Envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}
