package errors

import (
	"strings"
	"testing"
)

func TestValidateRepertoireID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"london-system", false},
		{"rep_1.v2", false},
		{"7c9e6679-7425-40de-944b-e07fc1f90ae7", false},
		{"", true},
		{"../etc/passwd", true},
		{"a/b", true},
		{"a\\b", true},
		{"-leading-dash", true},
		{"has space", true},
		{"tab\there", true},
		{strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		err := ValidateRepertoireID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRepertoireID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateRepertoireID(%q) code = %v, want %v", tt.id, GetCode(err), ErrCodeInvalidInput)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"repertoire.toml", false},
		{"/home/user/reps/london.json", false},
		{"", true},
		{"bad\x00path", true},
		{strings.Repeat("a", 4097), true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
