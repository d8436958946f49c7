// Package auth implements the mock account service: seeded demo users,
// registration with uniqueness checks and time-limited mock tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/claude/fitlife/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingFields      = errors.New("username, email and password are required")
)

// DefaultTokenTTL is the maximum token age.
const DefaultTokenTTL = 7 * 24 * time.Hour

const tokenPrefix = "mock_jwt_"

// Registration is the input to Register.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type seedUser struct {
	user     models.User
	password string
}

var seedUsers = []seedUser{
	{
		user: models.User{
			ID: 15, Username: "kminchelle", Email: "kminchelle@qq.com",
			FirstName: "Jeanne", LastName: "Halvorson", Gender: "female",
			Image: "https://robohash.org/autquiaut.png",
		},
		password: "0lelplR",
	},
	{
		user: models.User{
			ID: 1, Username: "emilys", Email: "emily@example.com",
			FirstName: "Emily", LastName: "Johnson", Gender: "female",
			Image: "https://robohash.org/emily.png",
		},
		password: "emilyspass",
	},
}

// Option configures a Service.
type Option func(*Service)

// WithTokenTTL sets the maximum token age.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithClock sets the clock used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHashCost sets the bcrypt cost for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// Service authenticates users against a Repository and tracks the tokens
// it issued.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
	cost int
	log  *slog.Logger

	mu     sync.Mutex
	tokens map[string]int
}

// NewService returns a Service over repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tokens: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts the demo users that are not present yet.
func (s *Service) Seed(ctx context.Context) error {
	for _, su := range seedUsers {
		existing, err := s.repo.FindByUsername(ctx, su.user.Username)
		if err != nil {
			return fmt.Errorf("looking up %s: %w", su.user.Username, err)
		}
		if existing != nil {
			continue
		}
		u := su.user
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), s.cost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		u.PasswordHash = string(hash)
		if _, err := s.repo.Insert(ctx, u); err != nil {
			return fmt.Errorf("seeding %s: %w", u.Username, err)
		}
		s.log.Info("seeded demo user", "username", u.Username, "id", u.ID)
	}
	return nil
}

// Login checks credentials and issues a token. The username is trimmed; the
// password is compared as given.
func (s *Service) Login(ctx context.Context, username, password string) (models.Login, error) {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return models.Login{}, fmt.Errorf("looking up user: %w", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.Login{}, ErrInvalidCredentials
	}
	return s.issue(*u), nil
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, r Registration) (models.Login, error) {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return models.Login{}, ErrMissingFields
	}

	existing, err := s.repo.FindByUsername(ctx, r.Username)
	if err != nil {
		return models.Login{}, fmt.Errorf("looking up username: %w", err)
	}
	if existing != nil {
		return models.Login{}, ErrUsernameTaken
	}
	existing, err = s.repo.FindByEmail(ctx, r.Email)
	if err != nil {
		return models.Login{}, fmt.Errorf("looking up email: %w", err)
	}
	if existing != nil {
		return models.Login{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.cost)
	if err != nil {
		return models.Login{}, fmt.Errorf("hashing password: %w", err)
	}
	u, err := s.repo.Insert(ctx, models.User{
		Username:     r.Username,
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Gender:       "other",
		Image:        fmt.Sprintf("https://robohash.org/%s.png", r.Username),
		PasswordHash: string(hash),
	})
	if err != nil {
		return models.Login{}, fmt.Errorf("inserting user: %w", err)
	}
	s.log.Info("user registered", "username", u.Username, "id", u.ID)
	return s.issue(u), nil
}

func (s *Service) issue(u models.User) models.Login {
	now := s.now()
	token := fmt.Sprintf("%s%d_%d", tokenPrefix, u.ID, now.UnixMilli())

	s.mu.Lock()
	s.tokens[token] = u.ID
	s.mu.Unlock()

	u.PasswordHash = ""
	return models.Login{User: u, Token: token, LoginTimestamp: now}
}

// Validate returns the user id of a token issued by this service that is
// not older than the token TTL. Expired tokens are forgotten.
func (s *Service) Validate(token string) (int, error) {
	userID, issued, err := parseToken(token)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.tokens[token]; !ok || id != userID {
		return 0, ErrInvalidToken
	}
	if s.now().Sub(issued) > s.ttl {
		delete(s.tokens, token)
		return 0, ErrTokenExpired
	}
	return userID, nil
}

// PurgeExpired forgets tokens older than the TTL.
func (s *Service) PurgeExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for token := range s.tokens {
		if _, issued, err := parseToken(token); err != nil || now.Sub(issued) > s.ttl {
			delete(s.tokens, token)
			n++
		}
	}
	return n
}

func parseToken(token string) (int, time.Time, error) {
	rest, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return 0, time.Time{}, ErrInvalidToken
	}
	idPart, tsPart, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, time.Time{}, ErrInvalidToken
	}
	id, err := strconv.Atoi(idPart)
	if err != nil {
		return 0, time.Time{}, ErrInvalidToken
	}
	ms, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return 0, time.Time{}, ErrInvalidToken
	}
	return id, time.UnixMilli(ms), nil
}
