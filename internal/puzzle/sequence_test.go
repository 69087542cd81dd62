package puzzle

import (
	"reflect"
	"testing"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

func TestGenerateSequencePuzzle_Deterministic(t *testing.T) {
	dates := []string{"2024-01-01", "2024-06-15", "2025-12-31"}
	for _, date := range dates {
		for _, tier := range models.Tiers {
			first, err := GenerateSequencePuzzle(date, tier)
			if err != nil {
				t.Fatalf("GenerateSequencePuzzle(%s, %s) failed: %v", date, tier, err)
			}
			second, _ := GenerateSequencePuzzle(date, tier)
			if !reflect.DeepEqual(first, second) {
				t.Errorf("generation not deterministic for (%s, %s)", date, tier)
			}
		}
	}
}

func TestGenerateSequencePuzzle_FamilyPerTier(t *testing.T) {
	allowed := map[models.Difficulty]map[string]bool{
		models.DifficultyEasy:   {"arithmetic": true, "geometric": true},
		models.DifficultyMedium: {"squares": true, "fibonacci": true},
		models.DifficultyHard:   {"alternating": true, "polynomial": true},
	}

	for _, tier := range models.Tiers {
		for _, date := range sampleDates(50) {
			p, err := GenerateSequencePuzzle(date, tier)
			if err != nil {
				t.Fatalf("GenerateSequencePuzzle(%s, %s) failed: %v", date, tier, err)
			}
			if !allowed[tier][p.PatternKey] {
				t.Errorf("tier %s produced pattern %q", tier, p.PatternKey)
			}
			if len(p.Sequence) != 5 {
				t.Errorf("(%s, %s): got %d terms, want 5", date, tier, len(p.Sequence))
			}
			if p.Hint == "" {
				t.Errorf("(%s, %s): missing hint text", date, tier)
			}
		}
	}
}

func TestGenerateSequencePuzzle_AnswerFollowsRule(t *testing.T) {
	for _, tier := range models.Tiers {
		for _, date := range sampleDates(100) {
			p, err := GenerateSequencePuzzle(date, tier)
			if err != nil {
				t.Fatalf("GenerateSequencePuzzle(%s, %s) failed: %v", date, tier, err)
			}
			s := p.Sequence
			switch p.PatternKey {
			case "arithmetic":
				step := s[1] - s[0]
				if p.Answer != s[4]+step {
					t.Errorf("%s arithmetic: answer %d, want %d", date, p.Answer, s[4]+step)
				}
			case "geometric":
				ratio := s[1] / s[0]
				if p.Answer != s[4]*ratio {
					t.Errorf("%s geometric: answer %d, want %d", date, p.Answer, s[4]*ratio)
				}
			case "fibonacci":
				if p.Answer != s[3]+s[4] {
					t.Errorf("%s fibonacci: answer %d, want %d", date, p.Answer, s[3]+s[4])
				}
			case "squares":
				// Terms are (n)^2 .. (n+4)^2; the answer extends the run.
				diff := s[1] - s[0] // 2n+1
				n := (diff - 1) / 2
				want := (n + 5) * (n + 5)
				if p.Answer != want {
					t.Errorf("%s squares: answer %d, want %d", date, p.Answer, want)
				}
			case "alternating":
				if (s[4] > 0) == (p.Answer > 0) {
					t.Errorf("%s alternating: answer %d does not flip sign after %d", date, p.Answer, s[4])
				}
			case "polynomial":
				// Second differences of a quadratic are constant.
				d1, d2 := s[1]-s[0], s[2]-s[1]
				c2 := d2 - d1
				next := s[4] + (s[4] - s[3]) + c2
				if p.Answer != next {
					t.Errorf("%s polynomial: answer %d, want %d", date, p.Answer, next)
				}
			}
		}
	}
}

func TestGenerateSequencePuzzle_InvalidInputs(t *testing.T) {
	if _, err := GenerateSequencePuzzle("not-a-date", models.DifficultyEasy); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, err := GenerateSequencePuzzle("2024-01-01", "brutal"); err == nil {
		t.Error("expected error for invalid difficulty")
	}
}
