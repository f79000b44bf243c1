package chat

import (
	"errors"
	"strings"

	"github.com/rivo/uniseg"
)

// TitleLimit is the number of characters kept when deriving a title.
const TitleLimit = 30

// ErrEmptyQuestion is returned for questions that are blank after trimming.
var ErrEmptyQuestion = errors.New("question must not be empty")

// ValidateQuestion checks the composer value before submission.
func ValidateQuestion(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

// DeriveTitle returns text cut to TitleLimit characters with "..." appended
// when it was longer. Characters are grapheme clusters, so accents and emoji
// are never split.
func DeriveTitle(text string) string {
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		if n == TitleLimit {
			start, _ := g.Positions()
			return text[:start] + "..."
		}
		n++
	}
	return text
}
