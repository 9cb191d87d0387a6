package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/triviago/internal/question"
	"github.com/gokatarajesh/triviago/internal/storage"
)

type fakeIdentity struct {
	token string
	email string
}

func (f *fakeIdentity) Token(context.Context) (string, bool) { return f.token, f.token != "" }
func (f *fakeIdentity) Email(context.Context) (string, bool) { return f.email, f.email != "" }

type manualTicker struct {
	ch      chan time.Time
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped = true }

type manualClock struct {
	tickers []*manualTicker
}

func (c *manualClock) NewTicker(time.Duration) Ticker {
	t := &manualTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func rawSet(n int, difficulty string) []question.RawQuestion {
	out := make([]question.RawQuestion, n)
	for i := range out {
		out[i] = question.RawQuestion{
			Category:         "General Knowledge",
			Type:             question.TypeMultiple,
			Difficulty:       difficulty,
			Question:         fmt.Sprintf("Question %d?", i),
			CorrectAnswer:    fmt.Sprintf("right-%d", i),
			IncorrectAnswers: []string{fmt.Sprintf("wrong-%d-a", i), fmt.Sprintf("wrong-%d-b", i), fmt.Sprintf("wrong-%d-c", i)},
		}
	}
	return out
}

type fixture struct {
	store    *storage.Memory
	identity *fakeIdentity
	engine   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    storage.NewMemory(),
		identity: &fakeIdentity{token: "tok", email: "a@x.com"},
	}
	f.engine = NewEngine(Options{
		Store:    f.store,
		Identity: f.identity,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	}, zerolog.Nop())
	return f
}

func (f *fixture) start(t *testing.T, n int, difficulty string) *Session {
	t.Helper()
	s, err := f.engine.Initialize(context.Background(), rawSet(n, difficulty))
	require.NoError(t, err)
	return s
}

func wrongOption(q Question) string {
	for _, o := range q.Options {
		if o != q.Answer {
			return o
		}
	}
	return ""
}
