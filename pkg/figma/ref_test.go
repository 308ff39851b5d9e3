package figma

import (
	"testing"

	"github.com/matzehuels/framespec/pkg/errors"
)

const testKey = "AbCdEfGhIjKlMnOpQrStUv" // 22 chars, the standard key length

func TestParseRefBareKey(t *testing.T) {
	ref, err := ParseRef(testKey)
	if err != nil {
		t.Fatalf("ParseRef error: %v", err)
	}
	if ref.FileKey != testKey {
		t.Errorf("FileKey = %q, want %q", ref.FileKey, testKey)
	}
	if len(ref.NodeIDs) != 0 {
		t.Errorf("NodeIDs = %v, want none", ref.NodeIDs)
	}
}

func TestParseRefURLForms(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantIDs []string
	}{
		{
			name: "file URL",
			raw:  "https://www.figma.com/file/" + testKey + "/Landing-Page",
		},
		{
			name: "design URL",
			raw:  "https://figma.com/design/" + testKey + "/Landing-Page",
		},
		{
			name: "proto URL",
			raw:  "https://www.figma.com/proto/" + testKey + "/Flow",
		},
		{
			name: "board URL",
			raw:  "https://www.figma.com/board/" + testKey + "/Moodboard",
		},
		{
			name:    "dash node id normalized",
			raw:     "https://www.figma.com/design/" + testKey + "/Page?node-id=54-23",
			wantIDs: []string{"54:23"},
		},
		{
			name:    "colon node id preserved",
			raw:     "https://www.figma.com/design/" + testKey + "/Page?node-id=0%3A1",
			wantIDs: []string{"0:1"},
		},
		{
			name:    "multiple node ids",
			raw:     "https://www.figma.com/design/" + testKey + "/Page?node-id=1-2,3-4",
			wantIDs: []string{"1:2", "3:4"},
		},
		{
			name: "key without name segment",
			raw:  "https://www.figma.com/file/" + testKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRef(tt.raw)
			if err != nil {
				t.Fatalf("ParseRef(%q) error: %v", tt.raw, err)
			}
			if ref.FileKey != testKey {
				t.Errorf("FileKey = %q, want %q", ref.FileKey, testKey)
			}
			if len(ref.NodeIDs) != len(tt.wantIDs) {
				t.Fatalf("NodeIDs = %v, want %v", ref.NodeIDs, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if ref.NodeIDs[i] != id {
					t.Errorf("NodeIDs[%d] = %q, want %q", i, ref.NodeIDs[i], id)
				}
			}
		})
	}
}

func TestParseRefRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"short key", "abc123"},
		{"key with slash", "abc/def/ghi"},
		{"wrong host", "https://evil.example.com/file/" + testKey + "/x"},
		{"lookalike host", "https://figma.com.evil.example/file/" + testKey + "/x"},
		{"unknown path", "https://www.figma.com/community/" + testKey},
		{"malformed node id", "https://www.figma.com/file/" + testKey + "/x?node-id=not-a-node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRef(tt.raw)
			if err == nil {
				t.Fatalf("ParseRef(%q) should fail", tt.raw)
			}
			if !errors.Is(err, errors.ErrCodeInvalidRef) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidRef)
			}
		})
	}
}

func TestNormalizeNodeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"54-23", "54:23"},
		{"0:1", "0:1"},
		{" 12-34 ", "12:34"},
		{"I123:456;789:10", "I123:456;789:10"},
	}
	for _, tt := range tests {
		got, err := NormalizeNodeID(tt.in)
		if err != nil {
			t.Errorf("NormalizeNodeID(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeNodeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := NormalizeNodeID("banana"); err == nil {
		t.Error("NormalizeNodeID should reject non-numeric ids")
	}
}

func TestRefString(t *testing.T) {
	r := &Ref{FileKey: testKey}
	if r.String() != testKey {
		t.Errorf("String() = %q", r.String())
	}
	r.NodeIDs = []string{"1:2", "3:4"}
	if r.String() != testKey+"#1:2,3:4" {
		t.Errorf("String() = %q", r.String())
	}
}
