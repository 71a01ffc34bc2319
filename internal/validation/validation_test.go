package validation

import (
	"errors"
	"testing"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"plain", "Run a marathon", "Run a marathon", false},
		{"trims", "  Run a marathon  ", "Run a marathon", false},
		{"empty", "", "", true},
		{"whitespace only", "   \t\n", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Required("title", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Required(%q) err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Required(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRequiredErrorNamesField(t *testing.T) {
	_, err := Required("title", " ")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "title" {
		t.Fatalf("Field = %q, want title", verr.Field)
	}
}

func TestCredential(t *testing.T) {
	if err := Credential("abcde"); err == nil {
		t.Fatal("5 characters should be rejected")
	}
	if err := Credential("abcdef"); err != nil {
		t.Fatalf("6 characters should pass: %v", err)
	}
}

func TestEmail(t *testing.T) {
	if _, err := Email("sam@example.com"); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}
	for _, bad := range []string{"", "sam", "@example.com", "sam@"} {
		if _, err := Email(bad); err == nil {
			t.Fatalf("Email(%q) should fail", bad)
		}
	}
}
