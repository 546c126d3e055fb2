package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
	"hotel-backoffice/utils"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	store  repository.Store
	opts   Options
	secret string
	ttl    time.Duration
}

func NewAuthService(store repository.Store, secret string, ttl time.Duration, opts Options) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{store: store, opts: opts.normalize(), secret: secret, ttl: ttl}
}

type Session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Staff     *models.Staff `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username and password required")
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	staff, err := s.store.GetStaffByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr("login", "staff", err)
	}
	if !utils.VerifyPassword(staff.Password, password) {
		log.Printf("⚠️ failed login for %s", username)
		return nil, ErrInvalidCredentials
	}
	token, exp, err := utils.SignSession(s.secret, staff.ID, staff.Username, staff.Role, s.ttl, s.opts.Now())
	if err != nil {
		return nil, &TransientError{Op: "sign session", Err: err}
	}
	return &Session{Token: token, ExpiresAt: exp, Staff: staff}, nil
}

// Verify turns a session token back into claims.
func (s *AuthService) Verify(raw string) (*utils.SessionClaims, error) {
	return utils.ParseSession(s.secret, raw)
}

func (s *AuthService) Me(ctx context.Context, staffID uint) (*models.Staff, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	staff, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return nil, storeErr("load staff", "staff", err)
	}
	return staff, nil
}
