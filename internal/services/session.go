package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
)

const NotificationQueue = "queue:session-notifications"

// ValidateDraft checks a create-form draft and, on success, returns a
// Session ready for repository insertion (no id assigned yet). It is a pure
// function of its inputs: every failing rule is collected, none short-circuit.
func ValidateDraft(draft models.SessionDraft, now time.Time) (*models.Session, error) {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(draft.Title) == "" {
		fieldErrors["title"] = "Session title is required"
	}
	if !models.IsValidCategory(draft.Category) {
		fieldErrors["category"] = "Please select a category"
	}
	if strings.TrimSpace(draft.Description) == "" {
		fieldErrors["description"] = "Session description is required"
	}

	mode := draft.Mode
	if mode == "" {
		mode = models.ModeOnline
	}
	switch mode {
	case models.ModeOnline:
	case models.ModeOffline:
		if strings.TrimSpace(draft.Location) == "" {
			fieldErrors["location"] = "Location is required for offline sessions"
		}
	default:
		fieldErrors["mode"] = "Session mode must be online or offline"
	}

	scheduledAt, timeErrors := resolveSchedule(draft, now)
	for field, msg := range timeErrors {
		fieldErrors[field] = msg
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	s := &models.Session{
		Title:       strings.TrimSpace(draft.Title),
		Category:    draft.Category,
		Description: strings.TrimSpace(draft.Description),
		ScheduledAt: scheduledAt,
		Mode:        mode,
	}
	if mode == models.ModeOffline {
		loc := strings.TrimSpace(draft.Location)
		s.Location = &loc
	}
	return s, nil
}

func resolveSchedule(draft models.SessionDraft, now time.Time) (time.Time, map[string]string) {
	fieldErrors := make(map[string]string)

	if draft.Date == "" {
		fieldErrors["date"] = "Please select a date"
	}
	hour, hourErr := strconv.Atoi(draft.Hour)
	minute, minuteErr := strconv.Atoi(draft.Minute)
	if draft.Hour == "" || draft.Minute == "" || hourErr != nil || minuteErr != nil ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		fieldErrors["time"] = "Please select a time"
	}
	if len(fieldErrors) > 0 {
		return time.Time{}, fieldErrors
	}

	day, err := time.ParseInLocation("2006-01-02", draft.Date, now.Location())
	if err != nil {
		fieldErrors["date"] = "Please select a valid date"
		return time.Time{}, fieldErrors
	}

	scheduledAt := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	if scheduledAt.Before(now) {
		fieldErrors["scheduled_at"] = "Session must be scheduled in the future"
		return time.Time{}, fieldErrors
	}
	return scheduledAt, nil
}

// SessionService orchestrates the session lifecycle: validate, store,
// membership mutations, and notification fan-out through the redis queue.
type SessionService struct {
	repo  repository.SessionRepository
	queue *redis.Client // nil in demo mode; notifications are then skipped
}

func NewSessionService(repo repository.SessionRepository, queue *redis.Client) *SessionService {
	return &SessionService{repo: repo, queue: queue}
}

func (s *SessionService) Create(ctx context.Context, hostID uuid.UUID, hostName string, draft models.SessionDraft) (*models.Session, error) {
	session, err := ValidateDraft(draft, time.Now())
	if err != nil {
		return nil, err
	}

	session.HostID = hostID
	session.HostName = hostName

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, mapRepoError(err)
	}

	s.enqueue(ctx, models.NotificationJob{
		Type:         models.JobSessionCreated,
		SessionID:    session.ID,
		SessionTitle: session.Title,
		Recipient:    hostID,
		ScheduledAt:  session.ScheduledAt,
	})
	return session, nil
}

// Browse lists the full catalog and applies the filter spec downstream.
func (s *SessionService) Browse(ctx context.Context, filter models.SessionFilter) ([]models.Session, error) {
	sessions, err := s.repo.List(ctx, models.AllSessions())
	if err != nil {
		return nil, mapRepoError(err)
	}
	return FilterSessions(sessions, filter), nil
}

func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return session, nil
}

func (s *SessionService) Hosted(ctx context.Context, user uuid.UUID) ([]models.Session, error) {
	sessions, err := s.repo.List(ctx, models.HostedBy(user))
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sessions, nil
}

func (s *SessionService) Joined(ctx context.Context, user uuid.UUID) ([]models.Session, error) {
	sessions, err := s.repo.List(ctx, models.JoinedBy(user))
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sessions, nil
}

func (s *SessionService) Join(ctx context.Context, id, userID uuid.UUID, userName string) error {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}

	if err := s.repo.Join(ctx, id, userID); err != nil {
		return mapRepoError(err)
	}

	// Host gets notified about the new participant.
	s.enqueue(ctx, models.NotificationJob{
		Type:         models.JobParticipantJoined,
		SessionID:    session.ID,
		SessionTitle: session.Title,
		Recipient:    session.HostID,
		ActorName:    userName,
		ScheduledAt:  session.ScheduledAt,
	})
	return nil
}

func (s *SessionService) Leave(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Leave(ctx, id, userID); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// Cancel removes the whole session when actingUser is the host, and the
// membership only when actingUser is a participant. Host cancellation
// notifies every participant.
func (s *SessionService) Cancel(ctx context.Context, id, actingUser uuid.UUID) error {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}

	if err := s.repo.Remove(ctx, id, actingUser); err != nil {
		return mapRepoError(err)
	}

	if session.HostID == actingUser {
		for _, participant := range session.Participants {
			s.enqueue(ctx, models.NotificationJob{
				Type:         models.JobSessionCancelled,
				SessionID:    session.ID,
				SessionTitle: session.Title,
				Recipient:    participant,
				ActorName:    session.HostName,
				ScheduledAt:  session.ScheduledAt,
			})
		}
	}
	return nil
}

// enqueue is best effort: a full queue or missing redis never fails the
// lifecycle operation itself.
func (s *SessionService) enqueue(ctx context.Context, job models.NotificationJob) {
	if s.queue == nil {
		return
	}
	job.ID = uuid.New()
	job.EnqueuedAt = time.Now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := s.queue.RPush(ctx, NotificationQueue, data).Err(); err != nil {
		log.Printf("Failed to enqueue %s notification: %v", job.Type, err)
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return &NotFoundError{Message: "Session not found"}
	case errors.Is(err, repository.ErrForbidden):
		return &ForbiddenError{Message: "You cannot modify this session"}
	case errors.Is(err, repository.ErrHostCannotJoin):
		return &ConflictError{Message: "You are hosting this session"}
	case errors.Is(err, repository.ErrNotParticipant):
		return &ConflictError{Message: "You have not joined this session"}
	case errors.Is(err, repository.ErrStoreUnavailable):
		return &StorageError{Message: "Session store unavailable"}
	default:
		return err
	}
}
