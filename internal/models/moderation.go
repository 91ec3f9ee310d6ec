package models

// Moderation category names shared across detectors. Detectors may report
// additional categories; these are the ones the threshold policy inspects.
const (
	CategoryNormal   = "normal"
	CategoryAdult    = "adult"
	CategoryViolence = "violence"
)

// ModerationVerdict is a normalized moderation result. CategoryScores are
// confidences in [0,1]. Safe holds iff the normal score is strictly greater
// than every other category score.
type ModerationVerdict struct {
	Safe           bool               `json:"safe"`
	CategoryScores map[string]float64 `json:"categoryScores"`
	Reason         string             `json:"reason,omitempty"`
}

// NewModerationVerdict builds a verdict from category scores, deriving Safe
// from the normal-vs-rest comparison.
func NewModerationVerdict(scores map[string]float64, reason string) ModerationVerdict {
	normal := scores[CategoryNormal]
	safe := true
	for name, score := range scores {
		if name == CategoryNormal {
			continue
		}
		if score >= normal {
			safe = false
			break
		}
	}
	return ModerationVerdict{
		Safe:           safe,
		CategoryScores: scores,
		Reason:         reason,
	}
}

// Score returns the confidence for a category, zero when absent.
func (v ModerationVerdict) Score(category string) float64 {
	return v.CategoryScores[category]
}

// OwnerKind identifies which entity type a moderated image belongs to.
type OwnerKind string

const (
	OwnerReview          OwnerKind = "review"
	OwnerComment         OwnerKind = "comment"
	OwnerCheckpointImage OwnerKind = "checkpoint_image"
)

// ParseOwnerKind maps a string to an OwnerKind, failing closed on unknown
// values.
func ParseOwnerKind(s string) (OwnerKind, bool) {
	switch OwnerKind(s) {
	case OwnerReview, OwnerComment, OwnerCheckpointImage:
		return OwnerKind(s), true
	}
	return "", false
}
