package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidatePersonID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "anna", false},
		{"numeric", "1024", false},
		{"with dash", "anna-1", false},
		{"unicode", "Ærø", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", MaxIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidatePersonID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateGridSize(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero means default", 0, false},
		{"positive", 20, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGridSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGridSize(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAttraction(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"half", 0.5, false},
		{"one", 1, false},
		{"below", -0.1, true},
		{"above", 1.1, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttraction(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttraction(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOptions) {
				t.Errorf("ValidateAttraction(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidOptions)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "family.json", false},
		{"absolute", "/data/family.json", false},
		{"nested", "data/tree/family.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"rediss", "rediss://cache:6380", []string{"redis", "rediss"}, false},
		{"mongodb", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"mongodb srv", "mongodb+srv://cluster.example.net", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost", []string{"redis"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
