package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/services"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/websocket"
)

// Pool drains the session notification queue: each job becomes an email to
// the recipient plus a pub/sub event picked up by the websocket hub.
type Pool struct {
	redis       *redis.Client
	email       *services.EmailService
	userRepo    repository.UserRepository
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, email *services.EmailService, userRepo repository.UserRepository, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		email:       email,
		userRepo:    userRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d notification workers", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, services.NotificationQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}
		if len(result) < 2 {
			continue
		}

		var job models.NotificationJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Job lock so a redelivered job isn't processed twice
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		if err := p.process(ctx, &job); err != nil {
			log.Printf("Worker %d: job %s (%s) failed: %v", id, job.ID, job.Type, err)
			continue
		}
		log.Printf("Worker %d: processed job %s (type: %s)", id, job.ID, job.Type)
	}
}

func (p *Pool) process(ctx context.Context, job *models.NotificationJob) error {
	recipient, err := p.userRepo.GetByID(ctx, job.Recipient)
	if err != nil {
		return fmt.Errorf("recipient lookup: %w", err)
	}

	switch job.Type {
	case models.JobSessionCreated:
		// No email for the host's own creation, just the live event below.
	case models.JobParticipantJoined:
		err = p.email.SendParticipantJoinedEmail(recipient.Email, job.ActorName, job.SessionTitle, job.ScheduledAt)
	case models.JobSessionCancelled:
		err = p.email.SendSessionCancelledEmail(recipient.Email, job.ActorName, job.SessionTitle)
	case models.JobSessionReminder:
		err = p.email.SendSessionReminderEmail(recipient.Email, job.SessionTitle, job.ScheduledAt)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	if err != nil {
		return err
	}

	p.publishEvent(ctx, job)
	return nil
}

func (p *Pool) publishEvent(ctx context.Context, job *models.NotificationJob) {
	msg := models.WSMessage{
		Type: job.Type,
		Payload: map[string]interface{}{
			"session_id":    job.SessionID,
			"session_title": job.SessionTitle,
			"actor_name":    job.ActorName,
			"scheduled_at":  job.ScheduledAt,
		},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := p.redis.Publish(ctx, websocket.EventChannel(job.Recipient), data).Err(); err != nil {
		log.Printf("Failed to publish %s event: %v", job.Type, err)
	}
}
