package core

import (
	"errors"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "plain text", text: "Uniforms reduce bullying.", wantErr: nil},
		{name: "leading whitespace kept", text: "  padded  ", wantErr: nil},
		{name: "empty", text: "", wantErr: ErrEmptyText},
		{name: "whitespace only", text: " \t\n ", wantErr: ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateText() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateText() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ValidateText() error = %v, should wrap ErrValidation", err)
			}
		})
	}
}

func TestValidateTopicKey(t *testing.T) {
	if err := ValidateTopicKey("A1B2C3D4E5F6"); err != nil {
		t.Errorf("ValidateTopicKey() unexpected error = %v", err)
	}
	err := ValidateTopicKey(" ")
	if !errors.Is(err, ErrEmptyTopicKey) || !errors.Is(err, ErrValidation) {
		t.Errorf("ValidateTopicKey() error = %v, want ErrEmptyTopicKey", err)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil {
			t.Fatalf("ParseCategory(%q) error = %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %q", c, got)
		}
	}

	_, err := ParseCategory("claim")
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ParseCategory() should be case sensitive, got err = %v", err)
	}
}

func TestCategoriesOrder(t *testing.T) {
	got := Categories()
	want := []Category{Claim, Counterclaim, Rebuttal, Evidence}
	if len(got) != len(want) {
		t.Fatalf("Categories() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// mutating the copy must not affect the package order
	got[0] = Evidence
	if Categories()[0] != Claim {
		t.Error("Categories() returned shared backing array")
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound(KindTopic, "ABCDEF123456")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("NotFound() = %v, should wrap ErrNotFound", err)
	}
}
