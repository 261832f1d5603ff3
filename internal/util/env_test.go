package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
		{"", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("SALESPIPE_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("SALESPIPE_TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("SALESPIPE_TEST_DUR", "45s")
	if got := ParseDurationEnv("SALESPIPE_TEST_DUR", time.Minute); got != 45*time.Second {
		t.Errorf("ParseDurationEnv = %v, want 45s", got)
	}
	t.Setenv("SALESPIPE_TEST_DUR", "not-a-duration")
	if got := ParseDurationEnv("SALESPIPE_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("ParseDurationEnv invalid = %v, want default", got)
	}
	t.Setenv("SALESPIPE_TEST_DUR", "")
	if got := ParseDurationEnv("SALESPIPE_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("ParseDurationEnv empty = %v, want default", got)
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("SALESPIPE_TEST_INT", "42")
	if got := ParseIntEnv("SALESPIPE_TEST_INT", 7); got != 42 {
		t.Errorf("ParseIntEnv = %d, want 42", got)
	}
	t.Setenv("SALESPIPE_TEST_INT", "nope")
	if got := ParseIntEnv("SALESPIPE_TEST_INT", 7); got != 7 {
		t.Errorf("ParseIntEnv invalid = %d, want default", got)
	}
}
