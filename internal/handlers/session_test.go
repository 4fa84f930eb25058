package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/middleware"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/services"
)

func newTestHandler() (*SessionHandler, *repository.MemorySessionRepo) {
	repo := repository.NewMemorySessionRepo()
	return NewSessionHandler(services.NewSessionService(repo, nil)), repo
}

// authedRequest builds a request carrying the identity the jwt middleware
// would normally attach.
func authedRequest(method, target string, body []byte, userID uuid.UUID, name string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserNameKey, name)
	return req.WithContext(ctx)
}

// withURLParam attaches a chi route parameter so handlers under test can
// resolve {id} without a full router.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func seedSession(t *testing.T, repo *repository.MemorySessionRepo, host uuid.UUID) *models.Session {
	t.Helper()
	s := &models.Session{
		Title:       "Linear Algebra Review",
		Category:    "Mathematics",
		Description: "Eigenvalues and eigenvectors before the midterm.",
		ScheduledAt: time.Now().Add(72 * time.Hour).UTC(),
		Mode:        models.ModeOnline,
		HostID:      host,
		HostName:    "Maya Patel",
	}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return s
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp
}

// ─── Create Handler Tests ───

func TestCreateSession_Valid(t *testing.T) {
	h, repo := newTestHandler()
	host := uuid.New()

	body, _ := json.Marshal(models.SessionDraft{
		Title:       "Intro to Go",
		Category:    "Programming",
		Description: "Goroutines and channels from scratch.",
		Date:        time.Now().Add(48 * time.Hour).Format("2006-01-02"),
		Hour:        "10",
		Minute:      "30",
		Mode:        models.ModeOnline,
	})

	req := authedRequest(http.MethodPost, "/api/v1/sessions", body, host, "Jane Smith")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Session models.Session `json:"session"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Session.HostID != host || resp.Session.HostName != "Jane Smith" {
		t.Errorf("Expected caller as host, got %v / %q", resp.Session.HostID, resp.Session.HostName)
	}

	stored, err := repo.Get(context.Background(), resp.Session.ID)
	if err != nil {
		t.Fatalf("Created session not in store: %v", err)
	}
	if stored.Title != "Intro to Go" {
		t.Errorf("Expected stored title 'Intro to Go', got %q", stored.Title)
	}
}

func TestCreateSession_ValidationErrorsIncludeFields(t *testing.T) {
	h, _ := newTestHandler()

	body, _ := json.Marshal(models.SessionDraft{Mode: models.ModeOffline})
	req := authedRequest(http.MethodPost, "/api/v1/sessions", body, uuid.New(), "Jane")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}

	resp := decodeError(t, rr)
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %q", resp.Error.Code)
	}
	for _, field := range []string{"title", "category", "location"} {
		if _, ok := resp.Error.Fields[field]; !ok {
			t.Errorf("Expected field error for %q, got %v", field, resp.Error.Fields)
		}
	}
}

func TestCreateSession_InvalidBody(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(http.MethodPost, "/api/v1/sessions", []byte("{not json"), uuid.New(), "Jane")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}

// ─── Browse Handler Tests ───

func TestListSessions_FilterByQuery(t *testing.T) {
	h, repo := newTestHandler()
	repo.Seed(time.Now())

	req := authedRequest(http.MethodGet, "/api/v1/sessions?q=spanish", nil, uuid.New(), "Sam")
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Sessions []models.Session `json:"sessions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(resp.Sessions))
	}
	if resp.Sessions[0].Title != "Spanish Conversation Practice" {
		t.Errorf("Unexpected match: %q", resp.Sessions[0].Title)
	}
}

func TestListSessions_BadDate(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(http.MethodGet, "/api/v1/sessions?date=tomorrow", nil, uuid.New(), "Sam")
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}

// ─── Membership Handler Tests ───

func TestJoinSession_Success(t *testing.T) {
	h, repo := newTestHandler()
	created := seedSession(t, repo, uuid.New())
	member := uuid.New()

	req := authedRequest(http.MethodPost, "/api/v1/sessions/"+created.ID.String()+"/join", nil, member, "Sam Lee")
	req = withURLParam(req, "id", created.ID.String())
	rr := httptest.NewRecorder()
	h.Join(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	stored, _ := repo.Get(context.Background(), created.ID)
	if !stored.HasParticipant(member) {
		t.Error("Expected caller to be a participant")
	}
}

func TestJoinSession_OwnSessionConflicts(t *testing.T) {
	h, repo := newTestHandler()
	host := uuid.New()
	created := seedSession(t, repo, host)

	req := authedRequest(http.MethodPost, "/api/v1/sessions/"+created.ID.String()+"/join", nil, host, "Maya Patel")
	req = withURLParam(req, "id", created.ID.String())
	rr := httptest.NewRecorder()
	h.Join(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error.Code != "CONFLICT" {
		t.Errorf("Expected code CONFLICT, got %q", resp.Error.Code)
	}
}

func TestJoinSession_UnknownID(t *testing.T) {
	h, _ := newTestHandler()
	id := uuid.New()

	req := authedRequest(http.MethodPost, "/api/v1/sessions/"+id.String()+"/join", nil, uuid.New(), "Sam")
	req = withURLParam(req, "id", id.String())
	rr := httptest.NewRecorder()
	h.Join(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
}

func TestJoinSession_MalformedID(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(http.MethodPost, "/api/v1/sessions/not-a-uuid/join", nil, uuid.New(), "Sam")
	req = withURLParam(req, "id", "not-a-uuid")
	rr := httptest.NewRecorder()
	h.Join(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}

func TestLeaveSession_NotJoinedConflicts(t *testing.T) {
	h, repo := newTestHandler()
	created := seedSession(t, repo, uuid.New())

	req := authedRequest(http.MethodPost, "/api/v1/sessions/"+created.ID.String()+"/leave", nil, uuid.New(), "Sam")
	req = withURLParam(req, "id", created.ID.String())
	rr := httptest.NewRecorder()
	h.Leave(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}
}

func TestCancelSession_ByHostDeletes(t *testing.T) {
	h, repo := newTestHandler()
	host := uuid.New()
	created := seedSession(t, repo, host)

	req := authedRequest(http.MethodDelete, "/api/v1/sessions/"+created.ID.String(), nil, host, "Maya Patel")
	req = withURLParam(req, "id", created.ID.String())
	rr := httptest.NewRecorder()
	h.Cancel(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if _, err := repo.Get(context.Background(), created.ID); err == nil {
		t.Error("Expected session to be deleted")
	}
}

func TestCancelSession_ByStrangerForbidden(t *testing.T) {
	h, repo := newTestHandler()
	created := seedSession(t, repo, uuid.New())

	req := authedRequest(http.MethodDelete, "/api/v1/sessions/"+created.ID.String(), nil, uuid.New(), "Sam")
	req = withURLParam(req, "id", created.ID.String())
	rr := httptest.NewRecorder()
	h.Cancel(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", rr.Code)
	}
}

// ─── Dashboard Tab Tests ───

func TestHostedAndJoinedScopes(t *testing.T) {
	h, repo := newTestHandler()
	ctx := context.Background()
	alice := uuid.New()

	mine := seedSession(t, repo, alice)
	other := seedSession(t, repo, uuid.New())
	if err := repo.Join(ctx, other.ID, alice); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	assertSingle := func(t *testing.T, rr *httptest.ResponseRecorder, want uuid.UUID) {
		t.Helper()
		var resp struct {
			Sessions []models.Session `json:"sessions"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp.Sessions) != 1 || resp.Sessions[0].ID != want {
			t.Errorf("Expected only session %v, got %v", want, resp.Sessions)
		}
	}

	rr := httptest.NewRecorder()
	h.Hosted(rr, authedRequest(http.MethodGet, "/api/v1/sessions/hosted", nil, alice, "Alice"))
	assertSingle(t, rr, mine.ID)

	rr = httptest.NewRecorder()
	h.Joined(rr, authedRequest(http.MethodGet, "/api/v1/sessions/joined", nil, alice, "Alice"))
	assertSingle(t, rr, other.ID)
}

func TestCategories(t *testing.T) {
	h, _ := newTestHandler()

	rr := httptest.NewRecorder()
	h.Categories(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/categories", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Categories) != len(models.Categories) {
		t.Errorf("Expected %d categories, got %d", len(models.Categories), len(resp.Categories))
	}
}
