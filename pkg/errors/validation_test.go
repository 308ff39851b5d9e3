package errors

import (
	"strings"
	"testing"
)

func TestValidateFileKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid 22-char key", "AbC123dEf456GhI789jKl0", false},
		{"valid longer key", strings.Repeat("a", 40), false},
		{"empty", "", true},
		{"too short", "abc123", true},
		{"path traversal", "../../../../etc/passwd", true},
		{"query injection", "abc?ids=0:1&depth=99xxxx", true},
		{"slash", "abcdefghijk/lmnopqrstu", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRef) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidRef)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"canonical", "0:1", false},
		{"large ids", "1234:56789", false},
		{"instance sub-node", "I123:456;789:10", false},
		{"empty", "", true},
		{"dash form", "0-1", true},
		{"bare number", "42", true},
		{"letters", "a:b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple dir", "out", false},
		{"nested", "artifacts/design", false},
		{"absolute", "/tmp/framespec-out", false},
		{"empty", "", true},
		{"traversal", "../secrets", true},
		{"null byte", "out\x00", true},
		{"too long", strings.Repeat("a/", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://example.com/image.png"); err != nil {
		t.Errorf("https URL should validate: %v", err)
	}
	if err := ValidateURL("ftp://example.com"); err == nil {
		t.Error("ftp scheme should be rejected")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("empty URL should be rejected")
	}
}
