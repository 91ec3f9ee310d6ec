package moderation

import (
	"context"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
)

// MockDetector is a simple mock implementation for tests.
type MockDetector struct {
	Verdict *models.ModerationVerdict
	Err     error
	Calls   int
}

// Detect returns the configured verdict/error and counts invocations.
func (m *MockDetector) Detect(ctx context.Context, src Source) (*models.ModerationVerdict, error) {
	_ = ctx
	_ = src
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Verdict != nil {
		return m.Verdict, nil
	}
	verdict := models.NewModerationVerdict(map[string]float64{
		models.CategoryNormal: 1,
	}, "")
	return &verdict, nil
}
