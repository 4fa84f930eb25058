package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
)

var testNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func validDraft() models.SessionDraft {
	return models.SessionDraft{
		Title:       "Intro to Go",
		Category:    "Programming",
		Description: "Goroutines, channels, and the standard library.",
		Date:        "2025-04-10",
		Hour:        "10",
		Minute:      "00",
		Mode:        models.ModeOnline,
	}
}

func TestValidateDraft_Valid(t *testing.T) {
	s, err := ValidateDraft(validDraft(), testNow)
	if err != nil {
		t.Fatalf("Expected valid draft, got %v", err)
	}

	if s.Title != "Intro to Go" {
		t.Errorf("Expected title 'Intro to Go', got %q", s.Title)
	}
	want := time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC)
	if !s.ScheduledAt.Equal(want) {
		t.Errorf("Expected scheduled_at %v, got %v", want, s.ScheduledAt)
	}
	if s.ID != uuid.Nil {
		t.Errorf("Validator must not assign an id, got %v", s.ID)
	}
}

func TestValidateDraft_CollectsAllErrors(t *testing.T) {
	_, err := ValidateDraft(models.SessionDraft{Mode: models.ModeOffline}, testNow)

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}

	for _, field := range []string{"title", "category", "description", "date", "time", "location"} {
		if _, present := verr.Fields[field]; !present {
			t.Errorf("Expected error for field %q, got %v", field, verr.Fields)
		}
	}
}

func TestValidateDraft_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SessionDraft)
		field  string
	}{
		{"missing title", func(d *models.SessionDraft) { d.Title = "" }, "title"},
		{"whitespace title", func(d *models.SessionDraft) { d.Title = "   " }, "title"},
		{"unknown category", func(d *models.SessionDraft) { d.Category = "Astrology" }, "category"},
		{"missing description", func(d *models.SessionDraft) { d.Description = "" }, "description"},
		{"missing date", func(d *models.SessionDraft) { d.Date = "" }, "date"},
		{"missing hour", func(d *models.SessionDraft) { d.Hour = "" }, "time"},
		{"missing minute", func(d *models.SessionDraft) { d.Minute = "" }, "time"},
		{"out of range hour", func(d *models.SessionDraft) { d.Hour = "24" }, "time"},
		{"unknown mode", func(d *models.SessionDraft) { d.Mode = "hologram" }, "mode"},
		{"offline without location", func(d *models.SessionDraft) { d.Mode = models.ModeOffline }, "location"},
		{"past schedule", func(d *models.SessionDraft) { d.Date = "2025-03-01" }, "scheduled_at"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			tc.mutate(&draft)

			s, err := ValidateDraft(draft, testNow)
			if s != nil {
				t.Fatal("Expected no session on validation failure")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if _, present := verr.Fields[tc.field]; !present {
				t.Errorf("Expected error for field %q, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestValidateDraft_ModeDefaultsToOnline(t *testing.T) {
	draft := validDraft()
	draft.Mode = ""

	s, err := ValidateDraft(draft, testNow)
	if err != nil {
		t.Fatalf("Expected valid draft, got %v", err)
	}
	if s.Mode != models.ModeOnline {
		t.Errorf("Expected mode %q, got %q", models.ModeOnline, s.Mode)
	}
	if s.Location != nil {
		t.Errorf("Online session must not carry a location, got %v", *s.Location)
	}
}

func TestValidateDraft_OfflineKeepsLocation(t *testing.T) {
	draft := validDraft()
	draft.Mode = models.ModeOffline
	draft.Location = " Central Library "

	s, err := ValidateDraft(draft, testNow)
	if err != nil {
		t.Fatalf("Expected valid draft, got %v", err)
	}
	if s.Location == nil || *s.Location != "Central Library" {
		t.Errorf("Expected trimmed location, got %v", s.Location)
	}
}

func newTestService() (*SessionService, *repository.MemorySessionRepo) {
	repo := repository.NewMemorySessionRepo()
	return NewSessionService(repo, nil), repo
}

func TestSessionService_CreateAndListHosted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	host := uuid.New()

	draft := validDraft()
	draft.Date = time.Now().Add(48 * time.Hour).Format("2006-01-02")

	created, err := svc.Create(ctx, host, "Jane Smith", draft)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("Expected an assigned id")
	}
	if created.HostName != "Jane Smith" {
		t.Errorf("Expected host name 'Jane Smith', got %q", created.HostName)
	}

	hosted, err := svc.Hosted(ctx, host)
	if err != nil {
		t.Fatalf("Hosted failed: %v", err)
	}
	if len(hosted) != 1 || hosted[0].ID != created.ID {
		t.Errorf("Expected hosted list to contain the new session, got %v", hosted)
	}
}

func TestSessionService_CreateRejectsInvalidDraft(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), uuid.New(), "Jane", models.SessionDraft{})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}

	all, _ := repo.List(context.Background(), models.AllSessions())
	if len(all) != 0 {
		t.Errorf("Invalid draft must not reach the repository, got %d sessions", len(all))
	}
}

func TestSessionService_JoinOwnSessionConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	host := uuid.New()

	draft := validDraft()
	draft.Date = time.Now().Add(48 * time.Hour).Format("2006-01-02")
	created, err := svc.Create(ctx, host, "Jane", draft)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = svc.Join(ctx, created.ID, host, "Jane")
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("Expected *ConflictError, got %T", err)
	}
}

func TestSessionService_CancelByStrangerForbidden(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	draft := validDraft()
	draft.Date = time.Now().Add(48 * time.Hour).Format("2006-01-02")
	created, err := svc.Create(ctx, uuid.New(), "Jane", draft)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = svc.Cancel(ctx, created.ID, uuid.New())
	if _, ok := err.(*ForbiddenError); !ok {
		t.Fatalf("Expected *ForbiddenError, got %T", err)
	}
}

func TestSessionService_UnknownSessionNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Join(context.Background(), uuid.New(), uuid.New(), "Sam")
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("Expected *NotFoundError, got %T", err)
	}
}
