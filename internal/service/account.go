// Package service holds the application services the dashboard is built
// from: account lifecycle, movie retrieval, and title suggestions.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kgrange/marquee/internal/api"
	"github.com/kgrange/marquee/internal/session"
)

// AccountService handles registration, login, and logout against the
// backend, keeping the session store in sync with the outcome.
type AccountService struct {
	client *api.Client
	store  *session.Store
	logger *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(client *api.Client, store *session.Store, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Login authenticates against the backend and establishes the returned
// session so subsequent requests carry the token.
func (s *AccountService) Login(ctx context.Context, username, password string) (session.Session, error) {
	sess, err := s.client.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, err
	}

	if err := s.store.Establish(sess.Token, sess.Username); err != nil {
		return session.Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("logged in", "username", sess.Username)
	return sess, nil
}

// Register creates a new account and returns the backend's confirmation
// message. The caller logs in separately; registration does not return a
// token.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (string, error) {
	msg, err := s.client.Register(ctx, username, email, password)
	if err != nil {
		return "", err
	}
	s.logger.Info("registered account", "username", username)
	return msg, nil
}

// Logout discards the current session. Safe to call when not logged in.
func (s *AccountService) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Current returns the persisted session, if any.
func (s *AccountService) Current() (session.Session, bool) {
	return s.store.Load()
}
