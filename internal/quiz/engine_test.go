package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/triviago/internal/question"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchQuestions(ctx context.Context, req question.FetchRequest) ([]question.RawQuestion, error) {
	args := m.Called(ctx, req)
	raw, _ := args.Get(0).([]question.RawQuestion)
	return raw, args.Error(1)
}

func TestStartValidatesConfigBeforeFetching(t *testing.T) {
	f := newFixture(t)
	src := new(mockSource)

	cases := []Config{
		{CategoryID: 0, Difficulty: question.DifficultyEasy, Amount: 5},
		{CategoryID: 9, Difficulty: "", Amount: 5},
		{CategoryID: 9, Difficulty: question.DifficultyEasy, Amount: 0},
		{CategoryID: 9, Difficulty: question.DifficultyEasy, Amount: 51},
	}
	for _, cfg := range cases {
		_, err := f.engine.Start(context.Background(), src, cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", cfg)
	}
	src.AssertNotCalled(t, "FetchQuestions", mock.Anything, mock.Anything)
}

func TestStartFetchesAndInitializes(t *testing.T) {
	f := newFixture(t)
	src := new(mockSource)
	src.On("FetchQuestions", mock.Anything, question.FetchRequest{Amount: 3, CategoryID: 9, Difficulty: question.DifficultyHard}).
		Return(rawSet(3, question.DifficultyHard), nil)

	s, err := f.engine.Start(context.Background(), src, Config{CategoryID: 9, Difficulty: question.DifficultyHard, Amount: 3})
	require.NoError(t, err)
	assert.Equal(t, 45, s.TimeLeft())
	assert.NotEmpty(t, s.ID())
	src.AssertExpectations(t)
}

func TestStartSurfacesFetchError(t *testing.T) {
	f := newFixture(t)
	src := new(mockSource)
	boom := errors.New("remote down")
	src.On("FetchQuestions", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := f.engine.Start(context.Background(), src, Config{CategoryID: 9, Difficulty: question.DifficultyEasy, Amount: 3})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.store.Keys())
}

func TestStartWithEmptyResultRedirects(t *testing.T) {
	f := newFixture(t)
	src := new(mockSource)
	src.On("FetchQuestions", mock.Anything, mock.Anything).Return([]question.RawQuestion{}, nil)

	_, err := f.engine.Start(context.Background(), src, Config{CategoryID: 9, Difficulty: question.DifficultyEasy, Amount: 3})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestInitializeRejectsMalformedSet(t *testing.T) {
	f := newFixture(t)
	raw := rawSet(2, question.DifficultyEasy)
	raw[1].IncorrectAnswers = nil

	_, err := f.engine.Initialize(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidQuestion)
	assert.Empty(t, f.store.Keys())
}

func TestInitializeMergesFreshSetWithCheckpoint(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.engine.states.StoreSnapshot(ctx, Snapshot{
		SessionID:       "kept",
		Questions:       sampleQuestions(2),
		CurrentQuestion: 1,
		Score:           1,
		TimeLeft:        intPtr(33),
	}))

	s, err := f.engine.Initialize(ctx, rawSet(4, question.DifficultyEasy))
	require.NoError(t, err)
	assert.Equal(t, "kept", s.ID())
	assert.Equal(t, 4, s.Total())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, 1, s.Score())
	assert.Equal(t, 33, s.TimeLeft())
	assert.Equal(t, "Question 1?", s.Current().Question)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "in_progress", StateInProgress.String())
	assert.Equal(t, "finalized", StateFinalized.String())
}
