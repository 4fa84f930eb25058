package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification job types processed by the worker pool.
const (
	JobSessionCreated    = "session_created"
	JobParticipantJoined = "participant_joined"
	JobSessionCancelled  = "session_cancelled"
	JobSessionReminder   = "session_reminder"
)

// NotificationJob is the payload pushed onto the redis queue. Recipient is
// the user the email/ws event is addressed to, not the acting user.
type NotificationJob struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	SessionID    uuid.UUID `json:"session_id"`
	SessionTitle string    `json:"session_title"`
	Recipient    uuid.UUID `json:"recipient"`
	ActorName    string    `json:"actor_name,omitempty"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

// WSMessage is the envelope pushed to websocket clients.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
