package testutil

import (
	"github.com/naver-ai-trip/backend-trip-sub000/internal/logging"
)

// NullLogger returns a logger that discards all output
func NullLogger() *logging.Logger {
	return logging.NewDiscard()
}
