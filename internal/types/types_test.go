package types

import "testing"

func TestClampProgress(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{150, 100},
	}
	for _, tc := range cases {
		if got := ClampProgress(tc.in); got != tc.want {
			t.Errorf("ClampProgress(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseYearlyStatus(t *testing.T) {
	for _, valid := range []string{"active", "paused", "completed", "archived"} {
		if _, err := ParseYearlyStatus(valid); err != nil {
			t.Errorf("ParseYearlyStatus(%q) returned error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Active", "done", "open"} {
		if _, err := ParseYearlyStatus(invalid); err == nil {
			t.Errorf("ParseYearlyStatus(%q) should have been rejected", invalid)
		}
	}
}

func TestParseMonthlyStatus(t *testing.T) {
	if _, err := ParseMonthlyStatus("carried_forward"); err != nil {
		t.Fatalf("carried_forward should be valid: %v", err)
	}
	if _, err := ParseMonthlyStatus("carried-forward"); err == nil {
		t.Fatal("hyphenated variant should be rejected, not coerced")
	}
}

func TestParseStepStatusAndPriority(t *testing.T) {
	if _, err := ParseStepStatus("in_progress"); err != nil {
		t.Fatalf("in_progress should be valid: %v", err)
	}
	if _, err := ParseStepStatus("inprogress"); err == nil {
		t.Fatal("unknown step status should be rejected")
	}
	if _, err := ParseStepPriority("medium"); err != nil {
		t.Fatalf("medium should be valid: %v", err)
	}
	if _, err := ParseStepPriority("urgent"); err == nil {
		t.Fatal("unknown priority should be rejected")
	}
}
