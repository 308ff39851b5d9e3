package pipeline

import (
	"testing"

	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

func TestValidateArtifact(t *testing.T) {
	tests := []struct {
		artifact string
		wantErr  bool
	}{
		{"spec", false},
		{"tokens", false},
		{"content", false},
		{"plan", false},
		{"tree", false},
		{"invalid", true},
		{"SPEC", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateArtifact(tt.artifact)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateArtifact(%q) error = %v, wantErr %v", tt.artifact, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidMode) {
			t.Errorf("ValidateArtifact(%q) code = %s, want %s", tt.artifact, errors.GetCode(err), errors.ErrCodeInvalidMode)
		}
	}
}

func TestValidateArtifacts(t *testing.T) {
	if err := ValidateArtifacts([]string{"spec", "tokens"}); err != nil {
		t.Errorf("Valid artifacts should pass: %v", err)
	}

	if err := ValidateArtifacts([]string{"spec", "invalid"}); err == nil {
		t.Error("Invalid artifact should fail")
	}

	// Empty slice is valid
	if err := ValidateArtifacts(nil); err != nil {
		t.Errorf("Empty artifacts should pass: %v", err)
	}
}

func TestAllArtifactsAreValid(t *testing.T) {
	if err := ValidateArtifacts(AllArtifacts); err != nil {
		t.Errorf("AllArtifacts should validate: %v", err)
	}
	for _, a := range AllArtifacts {
		if a == ArtifactTree {
			t.Error("AllArtifacts should not include the tree debug artifact")
		}
	}
}

func TestOptionsValidateForFetch(t *testing.T) {
	// Missing ref
	opts := Options{}
	if err := opts.ValidateForFetch(); err == nil {
		t.Error("Missing ref should fail")
	} else if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}

	// Ref without API client
	opts = Options{Ref: "abcDEF1234567890abcDEF"}
	if err := opts.ValidateForFetch(); err == nil {
		t.Error("Ref without API client should fail")
	}

	// Preloaded file needs neither ref nor client
	opts = Options{File: &figma.FileResponse{Name: "Saved"}}
	if err := opts.ValidateForFetch(); err != nil {
		t.Errorf("Preloaded file should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Logger default not applied")
	}
}

func TestOptionsRenderDefaults(t *testing.T) {
	opts := Options{File: &figma.FileResponse{Name: "Saved"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if len(opts.Artifacts) != 1 || opts.Artifacts[0] != ArtifactSpec {
		t.Errorf("Artifacts default = %v, want [%s]", opts.Artifacts, ArtifactSpec)
	}
	if opts.TokenFormat != "css" {
		t.Errorf("TokenFormat default = %q, want css", opts.TokenFormat)
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	opts := Options{Artifacts: []string{"spec", "bogus"}}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("Unknown artifact should fail")
	} else if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidMode)
	}

	opts = Options{Artifacts: []string{"tokens"}, TokenFormat: "yaml"}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("Unknown token format should fail")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{File: &figma.FileResponse{Name: "Saved"}}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalArtifacts := len(opts.Artifacts)
	originalFormat := opts.TokenFormat

	// Second call should be a no-op
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if len(opts.Artifacts) != originalArtifacts {
		t.Error("Artifacts changed on second call")
	}
	if opts.TokenFormat != originalFormat {
		t.Error("TokenFormat changed on second call")
	}
}

func TestThresholdsOrDefault(t *testing.T) {
	opts := Options{}
	got := opts.ThresholdsOrDefault()
	if got.IconMaxSize != 48 || got.SequenceMinRun != 3 {
		t.Errorf("default thresholds not applied: %+v", got)
	}

	custom := got
	custom.IconMaxSize = 64
	opts.Thresholds = &custom
	if opts.ThresholdsOrDefault().IconMaxSize != 64 {
		t.Error("custom thresholds ignored")
	}
}
