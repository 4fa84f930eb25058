package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Categories is the configurable category list surfaced to clients.
// Filtering treats category names case-sensitively; "all" is a client-side
// sentinel meaning no category constraint.
var Categories = []string{
	"Programming",
	"Mathematics",
	"Languages",
	"Data Science",
	"Literature",
	"Physics",
	"Art",
	"Music",
	"Business",
	"Other",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Session struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	ScheduledAt  time.Time   `json:"scheduled_at"`
	Mode         string      `json:"mode"` // "online" | "offline"
	Location     *string     `json:"location,omitempty"`
	HostID       uuid.UUID   `json:"host_id"`
	HostName     string      `json:"host_name"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (s *Session) HasParticipant(userID uuid.UUID) bool {
	for _, p := range s.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so repository reads never alias stored state.
func (s *Session) Clone() *Session {
	c := *s
	if s.Location != nil {
		loc := *s.Location
		c.Location = &loc
	}
	c.Participants = make([]uuid.UUID, len(s.Participants))
	copy(c.Participants, s.Participants)
	return &c
}

// SessionDraft is the raw create-form payload before validation. Date and
// time arrive as separate fields, the way the form collects them.
type SessionDraft struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"` // "2006-01-02"
	Hour        string `json:"hour"` // "0".."23"
	Minute      string `json:"minute"`
	Mode        string `json:"mode"` // defaults to "online"
	Location    string `json:"location"`
}

// SessionFilter is the browse-view filter spec. Zero values impose no
// constraint; filters compose as a logical AND.
type SessionFilter struct {
	Text     string
	Category string
	Date     *time.Time // calendar-day match, time-of-day ignored
}

// ScopeKind selects which slice of the catalog List returns.
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeHostedBy
	ScopeJoinedBy
)

type ListScope struct {
	Kind ScopeKind
	User uuid.UUID
}

func AllSessions() ListScope            { return ListScope{Kind: ScopeAll} }
func HostedBy(user uuid.UUID) ListScope { return ListScope{Kind: ScopeHostedBy, User: user} }
func JoinedBy(user uuid.UUID) ListScope { return ListScope{Kind: ScopeJoinedBy, User: user} }
