package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/triviago/internal/httpclient"
	"github.com/gokatarajesh/triviago/internal/storage"
)

type mockCaller struct {
	mock.Mock
}

func (m *mockCaller) Call(ctx context.Context, req httpclient.Request) httpclient.Envelope {
	return m.Called(ctx, req).Get(0).(httpclient.Envelope)
}

func newTestService(api Caller) (*Service, *SessionStore) {
	sessions := NewSessionStore(storage.NewMemory(), zerolog.Nop())
	return NewService(api, "http://api.test/", "api/v1", sessions, zerolog.Nop()), sessions
}

func TestRegisterValidatesBeforeCalling(t *testing.T) {
	api := new(mockCaller)
	svc, _ := newTestService(api)

	err := svc.Register(context.Background(), RegisterRequest{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrMissingFields)
	api.AssertNotCalled(t, "Call", mock.Anything, mock.Anything)
}

func TestRegisterPostsToAuthAPI(t *testing.T) {
	api := new(mockCaller)
	svc, _ := newTestService(api)

	req := RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "pw"}
	api.On("Call", mock.Anything, mock.MatchedBy(func(r httpclient.Request) bool {
		return r.URL == "http://api.test/api/v1/auth/register" && r.Method == "POST" && r.Body == req
	})).Return(httpclient.Envelope{Data: json.RawMessage(`{}`)})

	require.NoError(t, svc.Register(context.Background(), req))
	api.AssertExpectations(t)
}

func TestRegisterSurfacesRemoteMessage(t *testing.T) {
	api := new(mockCaller)
	svc, _ := newTestService(api)

	api.On("Call", mock.Anything, mock.Anything).
		Return(httpclient.Envelope{Error: true, Status: 409, Message: "email already registered"})

	err := svc.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, httpclient.IsRemote(err))
	assert.Contains(t, err.Error(), "email already registered")
}

func TestLoginStoresIdentity(t *testing.T) {
	api := new(mockCaller)
	svc, sessions := newTestService(api)

	api.On("Call", mock.Anything, mock.MatchedBy(func(r httpclient.Request) bool {
		return r.URL == "http://api.test/api/v1/auth/login"
	})).Return(httpclient.Envelope{Data: json.RawMessage(`{"token":"tok","name":"Ann","email":"a@x.com"}`)})

	id, err := svc.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", id.DisplayName)

	stored, ok, err := sessions.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, stored)

	require.NoError(t, svc.Logout(context.Background()))
	_, ok, _ = svc.Current(context.Background())
	assert.False(t, ok)
}

func TestLoginFailureLeavesStoreEmpty(t *testing.T) {
	api := new(mockCaller)
	svc, sessions := newTestService(api)

	api.On("Call", mock.Anything, mock.Anything).
		Return(httpclient.Envelope{Error: true, Status: 401, Message: "invalid credentials"})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "bad"})
	require.Error(t, err)

	_, ok := sessions.Token(context.Background())
	assert.False(t, ok)
}

func TestLoginRejectsMissingToken(t *testing.T) {
	api := new(mockCaller)
	svc, _ := newTestService(api)

	api.On("Call", mock.Anything, mock.Anything).
		Return(httpclient.Envelope{Data: json.RawMessage(`{"name":"Ann"}`)})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "pw"})
	assert.Error(t, err)
}
