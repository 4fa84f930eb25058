package services

import (
	"context"
	"testing"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/middleware"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
)

func newTestAuthService() *AuthService {
	userRepo := repository.NewMemoryUserRepo()
	jwt := middleware.NewJWTAuth("test-secret")
	email := NewEmailService("", "", "", "", "", "http://localhost:3000")
	return NewAuthService(userRepo, nil, jwt, email)
}

func TestRegister_CollectsAllFieldErrors(t *testing.T) {
	svc := newTestAuthService()

	_, _, err := svc.Register(context.Background(), models.RegisterRequest{})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}

	for _, field := range []string{"name", "email", "password"} {
		if _, present := verr.Fields[field]; !present {
			t.Errorf("Expected error for field %q, got %v", field, verr.Fields)
		}
	}
}

func TestRegister_PasswordRules(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "abc1", true},
		{"no number", "abcdefgh", true},
		{"valid", "abcdefg1", false},
	}

	svc := newTestAuthService()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), models.RegisterRequest{
				Name:     "Test User",
				Email:    tc.name + "@example.com",
				Password: tc.password,
			})
			if tc.wantErr {
				verr, ok := err.(*ValidationError)
				if !ok {
					t.Fatalf("Expected *ValidationError, got %T", err)
				}
				if _, present := verr.Fields["password"]; !present {
					t.Errorf("Expected error for field password, got %v", verr.Fields)
				}
			} else if err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	req := models.RegisterRequest{Name: "Test User", Email: "dup@example.com", Password: "Pass1234"}
	if _, _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	_, _, err := svc.Register(ctx, req)
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("Expected *ConflictError, got %T", err)
	}
}

func TestRegisterAndLogin_DemoMode(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	// Without redis there is no verification loop, so accounts are usable
	// immediately.
	user, _, err := svc.Register(ctx, models.RegisterRequest{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Password: "Pass1234",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !user.IsVerified {
		t.Error("Expected account to be verified in demo mode")
	}

	tokens, err := svc.Login(ctx, models.LoginRequest{Email: "jane@example.com", Password: "Pass1234"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("Expected both tokens to be issued")
	}
	if tokens.ExpiresIn != 900 {
		t.Errorf("Expected expires_in 900, got %d", tokens.ExpiresIn)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, models.RegisterRequest{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Password: "Pass1234",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name  string
		login models.LoginRequest
	}{
		{"unknown email", models.LoginRequest{Email: "nobody@example.com", Password: "Pass1234"}},
		{"wrong password", models.LoginRequest{Email: "jane@example.com", Password: "Wrong1234"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.login)
			if _, ok := err.(*UnauthorizedError); !ok {
				t.Fatalf("Expected *UnauthorizedError, got %T", err)
			}
		})
	}
}
