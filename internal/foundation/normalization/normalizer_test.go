package normalization

import (
	"testing"
)

type testLevel string

const (
	levelLow  testLevel = "low"
	levelHigh testLevel = "high"
)

func newTestNormalizer() *Normalizer[testLevel] {
	return NewNormalizer("level", map[string]testLevel{
		"low":  levelLow,
		"high": levelHigh,
	}, levelLow)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		input    string
		expected testLevel
	}{
		{"exact match", "high", levelHigh},
		{"case insensitive", "HIGH", levelHigh},
		{"with spaces", "  high  ", levelHigh},
		{"empty input", "", levelLow},
		{"invalid input", "medium", levelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newTestNormalizer()

	if v, err := n.NormalizeWithError(" High "); err != nil || v != levelHigh {
		t.Errorf("expected high without error, got %v, %v", v, err)
	}
	if v, err := n.NormalizeWithError(""); err != nil || v != levelLow {
		t.Errorf("expected default for empty input, got %v, %v", v, err)
	}
	if _, err := n.NormalizeWithError("medium"); err == nil {
		t.Error("expected error for unknown value")
	}
}

func TestNormalizer_ValidKeysSorted(t *testing.T) {
	keys := newTestNormalizer().ValidKeys()
	if len(keys) != 2 || keys[0] != "high" || keys[1] != "low" {
		t.Errorf("unexpected keys: %v", keys)
	}
}
