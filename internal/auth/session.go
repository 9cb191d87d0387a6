package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/auth/jwt"
	"github.com/gokatarajesh/triviago/internal/storage"
)

// Storage keys for the remembered identity.
const (
	KeyToken = "access_token"
	KeyUser  = "user"
	KeyEmail = "userEmail"
)

// SessionTTL is how long a login is remembered.
const SessionTTL = 24 * time.Hour

// SessionStore remembers the logged-in identity between runs.
//
// Values are base64 encoded so they survive any store, not to hide them: this
// is a display cache and must not be treated as protected storage.
type SessionStore struct {
	store  storage.Store
	now    func() time.Time
	logger zerolog.Logger
}

func NewSessionStore(store storage.Store, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "auth_session").Logger(),
	}
}

// Set stores id for SessionTTL, or until the token's exp claim if that comes
// first.
func (s *SessionStore) Set(ctx context.Context, id Identity) error {
	if id.Token == "" {
		return ErrMissingFields
	}
	ttl := SessionTTL
	if exp, ok := jwt.Expiry(id.Token); ok {
		until := exp.Sub(s.now())
		if until <= 0 {
			return ErrExpiredToken
		}
		if until < ttl {
			ttl = until
		}
	}

	name, err := encodeJSON(id.DisplayName)
	if err != nil {
		return fmt.Errorf("encode name: %w", err)
	}
	email, err := encodeJSON(id.Email)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	values := []struct{ key, value string }{
		{KeyToken, base64.StdEncoding.EncodeToString([]byte(id.Token))},
		{KeyUser, name},
		{KeyEmail, email},
	}
	for _, v := range values {
		if err := s.store.Set(ctx, v.key, v.value, ttl); err != nil {
			return fmt.Errorf("store %s: %w", v.key, err)
		}
	}
	return nil
}

// Get returns the remembered identity. ok is false when nobody is logged in.
func (s *SessionStore) Get(ctx context.Context) (Identity, bool, error) {
	token, ok, err := s.read(ctx, KeyToken, false)
	if err != nil || !ok {
		return Identity{}, false, err
	}
	id := Identity{Token: token}
	if id.DisplayName, _, err = s.read(ctx, KeyUser, true); err != nil {
		return Identity{}, false, err
	}
	if id.Email, _, err = s.read(ctx, KeyEmail, true); err != nil {
		return Identity{}, false, err
	}
	return id, true, nil
}

// Token returns the bearer token for authenticated API calls.
func (s *SessionStore) Token(ctx context.Context) (string, bool) {
	token, ok, err := s.read(ctx, KeyToken, false)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read token")
		return "", false
	}
	return token, ok && token != ""
}

// Email returns the logged-in user's email.
func (s *SessionStore) Email(ctx context.Context) (string, bool) {
	email, ok, err := s.read(ctx, KeyEmail, true)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read email")
		return "", false
	}
	return email, ok && email != ""
}

// Clear forgets the identity.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyToken, KeyUser, KeyEmail); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// read decodes one key. Undecodable values count as absent.
func (s *SessionStore) read(ctx context.Context, key string, isJSON bool) (string, bool, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		s.logger.Warn().Str("key", key).Msg("discarding undecodable value")
		return "", false, nil
	}
	if !isJSON {
		return string(decoded), true, nil
	}
	var value string
	if err := json.Unmarshal(decoded, &value); err != nil {
		s.logger.Warn().Str("key", key).Msg("discarding undecodable value")
		return "", false, nil
	}
	return value, true, nil
}

func encodeJSON(v string) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
