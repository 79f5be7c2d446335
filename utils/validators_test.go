package utils

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"secret1", true},
		{"123456", true},
		{"short", false},
		{"1a", false},
		{"nodigitshere", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := ValidatePassword(tc.password); got != tc.valid {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tc.password, got, tc.valid)
		}
	}
}
