package testutil

import (
	"testing"

	"github.com/GustavoCaso/bookcatalog/internal/logger"
)

// TestLogger creates a logger that doesn't output anything.
func TestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	return logger.New(logger.Config{
		Level:  logger.LevelDebug,
		Format: logger.FormatText,
		Output: "discard",
	})
}
