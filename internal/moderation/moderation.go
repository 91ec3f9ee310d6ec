package moderation

import (
	"context"
	"fmt"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
)

// Source describes one image to moderate. URL must be vendor-reachable for
// detectors that fetch by URL (Green-Eye); Bytes serves detectors that take
// the payload inline (Rekognition).
type Source struct {
	Name  string
	URL   string
	Bytes []byte
}

// Detector is the low-level provider abstraction that produces a verdict
// for one image.
type Detector interface {
	Detect(ctx context.Context, src Source) (*models.ModerationVerdict, error)
}

// Policy turns a verdict into a flag decision. Thresholds are strict
// lower bounds: a confidence exactly at the threshold does not flag.
type Policy struct {
	adultThreshold    float64
	violenceThreshold float64
}

// NewPolicy creates a policy with the given thresholds. Non-positive
// values fall back to 0.7.
func NewPolicy(adultThreshold, violenceThreshold float64) *Policy {
	if adultThreshold <= 0 {
		adultThreshold = 0.7
	}
	if violenceThreshold <= 0 {
		violenceThreshold = 0.7
	}
	return &Policy{
		adultThreshold:    adultThreshold,
		violenceThreshold: violenceThreshold,
	}
}

// Evaluate reports whether the verdict flags the content and why.
func (p *Policy) Evaluate(verdict models.ModerationVerdict) (bool, string) {
	adult := verdict.Score(models.CategoryAdult)
	violence := verdict.Score(models.CategoryViolence)

	switch {
	case adult > p.adultThreshold && violence > p.violenceThreshold:
		return true, fmt.Sprintf("adult confidence %.2f and violence confidence %.2f over threshold", adult, violence)
	case adult > p.adultThreshold:
		return true, fmt.Sprintf("adult confidence %.2f over threshold %.2f", adult, p.adultThreshold)
	case violence > p.violenceThreshold:
		return true, fmt.Sprintf("violence confidence %.2f over threshold %.2f", violence, p.violenceThreshold)
	}
	return false, ""
}
