package helpers

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("provided handler with group", func(t *testing.T) {
		var buf bytes.Buffer
		h := slog.NewTextHandler(&buf, nil)
		gotHandler, logger := SetupLogger(h, "plan", "Compiler")
		require.Equal(t, h, gotHandler)

		logger.Info("built", "instructions", 4)
		assert.Contains(t, buf.String(), "Compiler.instructions=4")
	})

	t.Run("provided handler without group", func(t *testing.T) {
		var buf bytes.Buffer
		_, logger := SetupLogger(slog.NewTextHandler(&buf, nil), "plan", "")
		logger.Info("built", "instructions", 4)
		assert.Contains(t, buf.String(), " instructions=4")
	})

	t.Run("nil handler falls back", func(t *testing.T) {
		h, logger := SetupLogger(nil, "interpreter", "")
		require.NotNil(t, h)
		require.NotNil(t, logger)
	})
}
