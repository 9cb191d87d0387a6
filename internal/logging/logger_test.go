package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "triviago", "production", "error")

	logger.Warn().Msg("dropped")
	assert.Empty(t, buf.String())

	logger.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "app=triviago")
}

func TestNewFallsBackToWarnOnBadLevel(t *testing.T) {
	logger := New(&bytes.Buffer{}, "triviago", "development", "loud")
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := IntoContext(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")

	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
