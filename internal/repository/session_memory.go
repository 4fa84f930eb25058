package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
)

// MemorySessionRepo keeps the catalog in process memory. It backs demo mode
// (no Postgres required) and the repository tests. A single mutex serializes
// mutations; reads hand out deep copies so callers can never reach into
// stored state.
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Session
	order    []uuid.UUID // insertion order for List
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[uuid.UUID]*models.Session),
	}
}

func (r *MemorySessionRepo) Create(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	if s.Participants == nil {
		s.Participants = []uuid.UUID{}
	}

	r.sessions[s.ID] = s.Clone()
	r.order = append(r.order, s.ID)
	return nil
}

func (r *MemorySessionRepo) Get(_ context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *MemorySessionRepo) List(_ context.Context, scope models.ListScope) ([]models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Session, 0, len(r.order))
	for _, id := range r.order {
		s := r.sessions[id]
		switch scope.Kind {
		case models.ScopeHostedBy:
			if s.HostID != scope.User {
				continue
			}
		case models.ScopeJoinedBy:
			if !s.HasParticipant(scope.User) {
				continue
			}
		}
		result = append(result, *s.Clone())
	}
	return result, nil
}

func (r *MemorySessionRepo) Join(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.HostID == userID {
		return ErrHostCannotJoin
	}
	if s.HasParticipant(userID) {
		return nil // idempotent
	}
	s.Participants = append(s.Participants, userID)
	return nil
}

func (r *MemorySessionRepo) Leave(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if !removeParticipant(s, userID) {
		return ErrNotParticipant
	}
	return nil
}

func (r *MemorySessionRepo) Remove(_ context.Context, id, actingUser uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	if s.HostID == actingUser {
		delete(r.sessions, id)
		for i, oid := range r.order {
			if oid == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		return nil
	}

	if !removeParticipant(s, actingUser) {
		return ErrForbidden
	}
	return nil
}

func removeParticipant(s *models.Session, userID uuid.UUID) bool {
	for i, p := range s.Participants {
		if p == userID {
			s.Participants = append(s.Participants[:i], s.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// Seed loads the demo catalog browsed on the dashboard in memory mode.
// Scheduled dates are relative to startup so the catalog is always upcoming.
func (r *MemorySessionRepo) Seed(now time.Time) {
	loc := func(s string) *string { return &s }
	day := 24 * time.Hour

	demos := []models.Session{
		{
			Title:       "Introduction to React Hooks",
			Category:    "Programming",
			Description: "Learn the basics of React Hooks and how to use them in your projects. We'll cover useState, useEffect, and custom hooks.",
			ScheduledAt: now.Add(2 * day),
			Mode:        models.ModeOnline,
			HostName:    "Jane Smith",
		},
		{
			Title:       "Advanced Calculus Problem Solving",
			Category:    "Mathematics",
			Description: "Practice solving complex calculus problems together. Bring your questions and we'll work through them as a group.",
			ScheduledAt: now.Add(4 * day),
			Mode:        models.ModeOnline,
			HostName:    "John Doe",
		},
		{
			Title:       "Spanish Conversation Practice",
			Category:    "Languages",
			Description: "Improve your Spanish speaking skills through conversation practice. All levels welcome!",
			ScheduledAt: now.Add(7 * day),
			Mode:        models.ModeOffline,
			Location:    loc("Central Library, Room 2B"),
			HostName:    "Maria Rodriguez",
		},
		{
			Title:       "Machine Learning Study Group",
			Category:    "Data Science",
			Description: "Weekly study group focusing on machine learning algorithms and implementations. This week: neural networks.",
			ScheduledAt: now.Add(8 * day),
			Mode:        models.ModeOnline,
			HostName:    "Alex Chen",
		},
		{
			Title:       "Literature Discussion: Modern Classics",
			Category:    "Literature",
			Description: "Join us to discuss modern literary classics. This session will focus on 'The Road' by Cormac McCarthy.",
			ScheduledAt: now.Add(10 * day),
			Mode:        models.ModeOnline,
			HostName:    "Emily Johnson",
		},
		{
			Title:       "Physics Problem Solving Workshop",
			Category:    "Physics",
			Description: "Collaborative workshop to solve challenging physics problems. Focus on mechanics and thermodynamics.",
			ScheduledAt: now.Add(12 * day),
			Mode:        models.ModeOffline,
			Location:    loc("Science Building, Lab 14"),
			HostName:    "David Wilson",
		},
	}

	ctx := context.Background()
	for i := range demos {
		demos[i].HostID = uuid.New()
		r.Create(ctx, &demos[i])
	}
}
