package chat

import (
	"errors"
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short stays verbatim", "hello", "hello"},
		{"exactly thirty", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"thirty one is cut", strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"accents count once", strings.Repeat("é", 31), strings.Repeat("é", 30) + "..."},
		{"emoji are not split", strings.Repeat("🌽", 32), strings.Repeat("🌽", 30) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.in); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateQuestion(t *testing.T) {
	if err := ValidateQuestion("How much lime?"); err != nil {
		t.Errorf("ValidateQuestion() = %v, want nil", err)
	}
	for _, in := range []string{"", " ", "\t\n"} {
		if err := ValidateQuestion(in); !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("ValidateQuestion(%q) = %v, want ErrEmptyQuestion", in, err)
		}
	}
}
