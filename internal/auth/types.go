package auth

import "errors"

// ErrMissingFields is returned before any network call when a required
// register or login field is empty.
var ErrMissingFields = errors.New("auth: please fill all fields")

// ErrExpiredToken is returned by SessionStore.Set when the token's exp claim
// is already in the past.
var ErrExpiredToken = errors.New("auth: token already expired")

// Identity is the logged-in user as the client remembers it.
type Identity struct {
	Token       string
	DisplayName string
	Email       string
}

// RegisterRequest for email/password registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) validate() error {
	if r.Email == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
