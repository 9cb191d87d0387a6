package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/triviago/internal/quiz"
)

func TestClock(t *testing.T) {
	assert.Equal(t, "0:00", clock(0))
	assert.Equal(t, "0:09", clock(9))
	assert.Equal(t, "1:15", clock(75))
	assert.Equal(t, "16:40", clock(1000))
	assert.Equal(t, "0:00", clock(-4))
}

func TestRenderResultText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, formatText, quiz.Result{
		TotalQuestions: 5, TotalCorrect: 3, TotalIncorrect: 1, TotalAnswered: 4, Score: 3, TimeLeft: 42,
	}))
	assert.Equal(t, "Quiz complete!\n"+
		"Score:      3/5\n"+
		"Correct:    3\n"+
		"Incorrect:  1\n"+
		"Answered:   4\n"+
		"Time left:  0:42\n", buf.String())
}

func TestRenderResultJSONUsesCamelCase(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, formatJSON, quiz.Result{TotalQuestions: 2, Score: 1}))
	assert.Contains(t, buf.String(), `"totalQuestions": 2`)
	assert.Contains(t, buf.String(), `"score": 1`)
}
