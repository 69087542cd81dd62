package seed

import "testing"

func TestHashInt_Deterministic(t *testing.T) {
	first := HashInt("2024-01-15arith_base")
	second := HashInt("2024-01-15arith_base")
	if first != second {
		t.Errorf("HashInt not deterministic: %d != %d", first, second)
	}
}

func TestHashInt_KeySensitive(t *testing.T) {
	if HashInt("2024-01-15arith_base") == HashInt("2024-01-15arith_step") {
		t.Error("different salts should derive different values")
	}
	if HashInt("2024-01-15seqpattern") == HashInt("2024-01-16seqpattern") {
		t.Error("different dates should derive different values")
	}
}

func TestHashInt_KnownVector(t *testing.T) {
	// SHA-256("") = e3b0c44298fc1c14..., first 8 hex chars as uint32.
	if got := HashInt(""); got != 0xe3b0c442 {
		t.Errorf("HashInt(\"\") = %#x, want 0xe3b0c442", got)
	}
}

func TestRangeInt_Bounds(t *testing.T) {
	keys := []string{"a", "b", "c", "2024-03-01blank7", "2025-12-31geo_ratio"}
	for _, key := range keys {
		for _, bounds := range [][2]int{{1, 10}, {0, 0}, {5, 30}, {-3, 3}} {
			got := RangeInt(key, bounds[0], bounds[1])
			if got < bounds[0] || got > bounds[1] {
				t.Errorf("RangeInt(%q, %d, %d) = %d, out of range", key, bounds[0], bounds[1], got)
			}
		}
	}
}
