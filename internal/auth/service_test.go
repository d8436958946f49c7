package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()
	clk := &clock{t: time.UnixMilli(1_700_000_000_000)}
	s := NewService(NewMemoryRepository(), WithClock(clk.now), WithHashCost(bcrypt.MinCost))
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return s, clk
}

// TestLoginDemoUser checks the seeded credentials log in with the mock
// token format.
func TestLoginDemoUser(t *testing.T) {
	s, _ := newTestService(t)
	login, err := s.Login(context.Background(), "  kminchelle ", "0lelplR")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != 15 || login.Token != "mock_jwt_15_1700000000000" {
		t.Errorf("login = %+v", login)
	}
	if login.User.PasswordHash != "" {
		t.Error("password hash leaked into login")
	}
}

// TestLoginRejects checks wrong passwords and unknown users.
func TestLoginRejects(t *testing.T) {
	s, _ := newTestService(t)
	tests := []struct{ user, pass string }{
		{"kminchelle", "wrong"},
		{"nobody", "0lelplR"},
		{"emilys", " emilyspass"},
	}
	for _, tt := range tests {
		if _, err := s.Login(context.Background(), tt.user, tt.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) = %v", tt.user, tt.pass, err)
		}
	}
}

// TestRegister checks uniqueness, id assignment and auto-login.
func TestRegister(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, Registration{Username: "emilys", Email: "new@example.com", Password: "x"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username: %v", err)
	}
	if _, err := s.Register(ctx, Registration{Username: "newbie", Email: "emily@example.com", Password: "x"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: %v", err)
	}
	if _, err := s.Register(ctx, Registration{Username: "newbie"}); !errors.Is(err, ErrMissingFields) {
		t.Errorf("missing fields: %v", err)
	}

	login, err := s.Register(ctx, Registration{Username: "newbie", Email: "newbie@example.com", Password: "secret", FirstName: "New"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if login.User.ID != 16 || login.User.Image != "https://robohash.org/newbie.png" || login.User.Gender != "other" {
		t.Errorf("user = %+v", login.User)
	}
	if !strings.HasPrefix(login.Token, "mock_jwt_16_") {
		t.Errorf("token = %q", login.Token)
	}
	if _, err := s.Login(ctx, "newbie", "secret"); err != nil {
		t.Errorf("login after register: %v", err)
	}
}

// TestValidateExpiry checks tokens expire after the TTL and are purged.
func TestValidateExpiry(t *testing.T) {
	s, clk := newTestService(t)
	login, _ := s.Login(context.Background(), "emilys", "emilyspass")

	clk.t = clk.t.Add(DefaultTokenTTL)
	if id, err := s.Validate(login.Token); err != nil || id != 1 {
		t.Fatalf("Validate at TTL = %d, %v", id, err)
	}
	clk.t = clk.t.Add(time.Millisecond)
	if _, err := s.Validate(login.Token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate past TTL = %v", err)
	}
	if _, err := s.Validate(login.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token not forgotten: %v", err)
	}
}

// TestValidateRejectsForeignTokens checks malformed and unissued tokens.
func TestValidateRejectsForeignTokens(t *testing.T) {
	s, _ := newTestService(t)
	for _, tok := range []string{"", "jwt", "mock_jwt_1", "mock_jwt_x_1", "mock_jwt_1_123"} {
		if _, err := s.Validate(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q) = %v", tok, err)
		}
	}
}

// TestPurgeExpired checks only stale tokens are dropped.
func TestPurgeExpired(t *testing.T) {
	s, clk := newTestService(t)
	old, _ := s.Login(context.Background(), "emilys", "emilyspass")
	clk.t = clk.t.Add(DefaultTokenTTL)
	fresh, _ := s.Login(context.Background(), "kminchelle", "0lelplR")
	clk.t = clk.t.Add(time.Hour)

	if n := s.PurgeExpired(); n != 1 {
		t.Errorf("purged %d, want 1", n)
	}
	if _, err := s.Validate(old.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("old token: %v", err)
	}
	if _, err := s.Validate(fresh.Token); err != nil {
		t.Errorf("fresh token: %v", err)
	}
}
