// Package token produces human-memorable short tokens from EFF
// wordlists. Tokens are a fixed number of words, each capitalized,
// concatenated with no separator ("CoachSixtyVivid").
package token

import (
	"strings"

	"github.com/sethvargo/go-diceware/diceware"
)

// Profile selects the word count and wordlist for a generated token.
type Profile int

const (
	// Session tokens function as bearer credentials: more words, drawn
	// from the large list.
	Session Profile = iota
	// URL tokens are meant to be shared: fewer, shorter words.
	URL
	// Extension is a single word, used only to lengthen a token that
	// collided.
	Extension
)

// wordCount returns how many words the profile draws.
func (p Profile) wordCount() int {
	switch p {
	case Session:
		return 4
	case URL:
		return 3
	default:
		return 1
	}
}

func (p Profile) wordList() diceware.WordList {
	if p == Session {
		return diceware.WordListEffLarge()
	}
	return diceware.WordListEffSmall()
}

// Generate returns a fresh token for the given profile. An unavailable
// randomness source leaves the process unable to do anything useful, so
// Generate panics on it rather than returning an error.
func Generate(p Profile) string {
	words, err := diceware.GenerateWithWordList(p.wordCount(), p.wordList())
	if err != nil {
		panic("token: randomness source unavailable: " + err.Error())
	}

	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// Extend appends one Extension-profile word to existing. The result is
// always strictly longer than the input and starts with it.
func Extend(existing string) string {
	return existing + Generate(Extension)
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
