package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/triviago/internal/app"
	"github.com/gokatarajesh/triviago/internal/config"
	"github.com/gokatarajesh/triviago/internal/quiz"
	"github.com/gokatarajesh/triviago/internal/storage"
	httperrors "github.com/gokatarajesh/triviago/pkg/http/errors"
)

// Category ids served by the fake OpenTDB.
const (
	categoryGeneral = 9
	categoryEmpty   = 10
)

const takenEmail = "taken@example.com"

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pw" {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "invalid credentials")
			return
		}
		name := "Ann"
		if req.Email != "ann@example.com" {
			name = "Bob"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-" + name, "name": name, "email": req.Email})
	})
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Name, Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email == takenEmail {
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeAlreadyExists, "email already registered")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"registered"}`))
	})
	mux.HandleFunc("GET /api_category.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"},{"id":10,"name":"Books"}]}`))
	})
	mux.HandleFunc("GET /api.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category") == strconv.Itoa(categoryEmpty) {
			_, _ = w.Write([]byte(`{"response_code":1,"results":[]}`))
			return
		}
		amount, _ := strconv.Atoi(r.URL.Query().Get("amount"))
		results := make([]map[string]any, amount)
		for i := range results {
			results[i] = map[string]any{
				"category":          "General Knowledge",
				"type":              "multiple",
				"difficulty":        r.URL.Query().Get("difficulty"),
				"question":          fmt.Sprintf("Question %d &amp; more?", i+1),
				"correct_answer":    fmt.Sprintf("right-%d", i),
				"incorrect_answers": []string{"wrong-a", "wrong-b", "wrong-c"},
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response_code": 0, "results": results})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t   *testing.T
	app *app.Application
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := newBackend(t)
	cfg := &config.App{
		Name:     "triviago",
		Env:      "test",
		LogLevel: "disabled",
		API: config.API{
			AuthRoot:    srv.URL,
			AuthVersion: "api/v1",
			OpenTDBRoot: srv.URL,
			HTTPTimeout: 5 * time.Second,
		},
		Storage: config.Storage{Backend: config.StorageMemory},
		Quiz:    config.Quiz{DefaultAmount: 2, DefaultDifficulty: "medium"},
	}
	a, err := app.New(context.Background(), cfg, io.Discard)
	require.NoError(t, err)
	return &harness{t: t, app: a}
}

// run executes one CLI invocation against the shared application.
func (h *harness) run(in io.Reader, clk quiz.Clock, args ...string) (string, error) {
	h.t.Helper()
	if in == nil {
		in = bytes.NewReader(nil)
	}
	if clk == nil {
		clk = idleClock{}
	}
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), Options{
		In:    in,
		Out:   &out,
		Err:   &errOut,
		Build: func(context.Context) (*app.Application, error) { return h.app, nil },
		Clock: clk,
	}, args)
	return out.String(), err
}

func (h *harness) login(email string) {
	h.t.Helper()
	_, err := h.run(nil, nil, "login", "--email", email, "--password", "pw")
	require.NoError(h.t, err)
}

func (h *harness) snapshot() *quiz.Snapshot {
	h.t.Helper()
	raw, err := h.app.Store.Get(context.Background(), quiz.SnapshotKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	require.NoError(h.t, err)
	var snap quiz.Snapshot
	require.NoError(h.t, json.Unmarshal([]byte(raw), &snap))
	return &snap
}

// idleClock never ticks.
type idleClock struct{}

func (idleClock) NewTicker(time.Duration) quiz.Ticker { return idleTicker{} }

type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop()               {}

// burstClock delivers n ticks immediately.
type burstClock struct{ n int }

func (b burstClock) NewTicker(time.Duration) quiz.Ticker {
	ch := make(chan time.Time, b.n)
	for range b.n {
		ch <- time.Time{}
	}
	return burstTicker{ch: ch}
}

type burstTicker struct{ ch chan time.Time }

func (t burstTicker) C() <-chan time.Time { return t.ch }
func (burstTicker) Stop()                 {}
