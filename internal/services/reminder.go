package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
)

const (
	reminderWindow       = time.Hour
	reminderPollInterval = 5 * time.Minute
)

// ReminderScheduler periodically scans the catalog and enqueues reminder
// jobs for sessions starting within the next hour. A redis SETNX marker per
// session keeps reminders one-shot even across multiple instances.
type ReminderScheduler struct {
	repo     repository.SessionRepository
	redis    *redis.Client
	stopChan chan struct{}
}

func NewReminderScheduler(repo repository.SessionRepository, redisClient *redis.Client) *ReminderScheduler {
	return &ReminderScheduler{
		repo:     repo,
		redis:    redisClient,
		stopChan: make(chan struct{}),
	}
}

func (s *ReminderScheduler) Start() {
	if s.repo == nil || s.redis == nil {
		return
	}
	go s.loop()
	log.Printf("Reminder scheduler started")
}

func (s *ReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *ReminderScheduler) loop() {
	// Run on startup as well as by interval.
	s.run(context.Background(), time.Now())

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.run(context.Background(), time.Now())
		}
	}
}

func (s *ReminderScheduler) run(ctx context.Context, now time.Time) {
	sessions, err := s.repo.List(ctx, models.AllSessions())
	if err != nil {
		log.Printf("Reminder scan failed: %v", err)
		return
	}

	for _, session := range sessions {
		until := session.ScheduledAt.Sub(now)
		if until <= 0 || until > reminderWindow {
			continue
		}

		markerKey := "reminded:" + session.ID.String()
		sent, err := s.redis.SetNX(ctx, markerKey, "1", 2*reminderWindow).Result()
		if err != nil || !sent {
			continue
		}

		recipients := append([]uuid.UUID{session.HostID}, session.Participants...)
		for _, recipient := range recipients {
			s.enqueue(ctx, models.NotificationJob{
				ID:           uuid.New(),
				Type:         models.JobSessionReminder,
				SessionID:    session.ID,
				SessionTitle: session.Title,
				Recipient:    recipient,
				ScheduledAt:  session.ScheduledAt,
				EnqueuedAt:   now.UTC(),
			})
		}
	}
}

func (s *ReminderScheduler) enqueue(ctx context.Context, job models.NotificationJob) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := s.redis.RPush(ctx, NotificationQueue, data).Err(); err != nil {
		log.Printf("Failed to enqueue reminder for session %s: %v", job.SessionID, err)
	}
}
