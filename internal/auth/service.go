package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/httpclient"
)

// Caller is the part of httpclient.Client the service needs.
type Caller interface {
	Call(ctx context.Context, req httpclient.Request) httpclient.Envelope
}

// Service talks to the TriviaGo auth API and remembers successful logins.
type Service struct {
	api      Caller
	baseURL  string
	sessions *SessionStore
	logger   zerolog.Logger
}

// NewService creates an auth service rooted at root/version, for example
// http://localhost:8000 and api/v1.
func NewService(api Caller, root, version string, sessions *SessionStore, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		baseURL:  strings.TrimRight(root, "/") + "/" + strings.Trim(version, "/"),
		sessions: sessions,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates an account. The user logs in separately afterwards.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	env := s.api.Call(ctx, httpclient.Request{
		URL:    s.baseURL + "/auth/register",
		Method: http.MethodPost,
		Body:   req,
	})
	if err := env.Err(); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.logger.Info().Str("email", req.Email).Msg("user registered")
	return nil
}

// Login authenticates and stores the returned identity.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Identity, error) {
	if err := req.validate(); err != nil {
		return Identity{}, err
	}
	env := s.api.Call(ctx, httpclient.Request{
		URL:    s.baseURL + "/auth/login",
		Method: http.MethodPost,
		Body:   req,
	})
	var resp loginResponse
	if err := env.Decode(&resp); err != nil {
		return Identity{}, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return Identity{}, fmt.Errorf("login: response has no token")
	}

	id := Identity{Token: resp.Token, DisplayName: resp.Name, Email: resp.Email}
	if err := s.sessions.Set(ctx, id); err != nil {
		return Identity{}, fmt.Errorf("login: %w", err)
	}
	s.logger.Info().Str("email", id.Email).Msg("user logged in")
	return id, nil
}

// Logout forgets the stored identity.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// Current returns the stored identity, if any.
func (s *Service) Current(ctx context.Context) (Identity, bool, error) {
	return s.sessions.Get(ctx)
}
