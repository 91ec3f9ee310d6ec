package models

import "testing"

func TestNewModerationVerdictSafe(t *testing.T) {
	tests := []struct {
		name     string
		scores   map[string]float64
		wantSafe bool
	}{
		{
			"normal dominant",
			map[string]float64{CategoryNormal: 0.97, CategoryAdult: 0.02, CategoryViolence: 0.01},
			true,
		},
		{
			"adult dominant",
			map[string]float64{CategoryNormal: 0.05, CategoryAdult: 0.9, CategoryViolence: 0.05},
			false,
		},
		{
			"tie with normal is not safe",
			map[string]float64{CategoryNormal: 0.5, CategoryAdult: 0.5},
			false,
		},
		{
			"vendor-specific category counts too",
			map[string]float64{CategoryNormal: 0.4, "sexy": 0.6},
			false,
		},
		{
			"normal only",
			map[string]float64{CategoryNormal: 1},
			true,
		},
		{
			"missing normal score",
			map[string]float64{CategoryAdult: 0.1},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := NewModerationVerdict(tt.scores, "")
			if verdict.Safe != tt.wantSafe {
				t.Errorf("Safe = %v, want %v for %v", verdict.Safe, tt.wantSafe, tt.scores)
			}
		})
	}
}

func TestVerdictScore(t *testing.T) {
	verdict := NewModerationVerdict(map[string]float64{CategoryNormal: 0.9, CategoryAdult: 0.1}, "")
	if got := verdict.Score(CategoryAdult); got != 0.1 {
		t.Errorf("Score(adult) = %v, want 0.1", got)
	}
	if got := verdict.Score(CategoryViolence); got != 0 {
		t.Errorf("Score(violence) = %v, want 0 for absent category", got)
	}
}

func TestParseOwnerKind(t *testing.T) {
	valid := []string{"review", "comment", "checkpoint_image"}
	for _, s := range valid {
		if _, ok := ParseOwnerKind(s); !ok {
			t.Errorf("ParseOwnerKind(%q) should succeed", s)
		}
	}
	for _, s := range []string{"", "Review", "post", "checkpoint"} {
		if _, ok := ParseOwnerKind(s); ok {
			t.Errorf("ParseOwnerKind(%q) should fail closed", s)
		}
	}
}
