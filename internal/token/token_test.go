package token

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNonEmpty(t *testing.T) {
	for name, p := range map[string]Profile{
		"session":   Session,
		"url":       URL,
		"extension": Extension,
	} {
		t.Run(name, func(t *testing.T) {
			tok := Generate(p)
			require.NotEmpty(t, tok)
			assert.True(t, unicode.IsUpper(rune(tok[0])), "token should start capitalized: %q", tok)
		})
	}
}

func TestGenerateSessionLongerThanExtension(t *testing.T) {
	// Four large-list words always outgrow a single small-list word.
	for i := 0; i < 50; i++ {
		assert.Greater(t, len(Generate(Session)), len(Generate(Extension)))
	}
}

func TestGenerateWordCounts(t *testing.T) {
	// Capitalization marks word boundaries, so the word count is the
	// count of upper-case runes.
	cases := []struct {
		profile Profile
		words   int
	}{
		{Session, 4},
		{URL, 3},
		{Extension, 1},
	}
	for _, tc := range cases {
		tok := Generate(tc.profile)
		upper := 0
		for _, r := range tok {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		assert.Equal(t, tc.words, upper, "token %q", tok)
	}
}

func TestExtendGrowsAndPreservesPrefix(t *testing.T) {
	for _, base := range []string{"ab", "CoachSixty", ""} {
		for i := 0; i < 20; i++ {
			out := Extend(base)
			require.Greater(t, len(out), len(base))
			assert.True(t, strings.HasPrefix(out, base))
		}
	}
}

func TestGenerateIsFresh(t *testing.T) {
	// Not a strict guarantee, but 62^n-scale spaces should never repeat
	// in a handful of draws.
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		tok := Generate(URL)
		assert.False(t, seen[tok], "duplicate token %q", tok)
		seen[tok] = true
	}
}
