// Package branchname converts free-text titles into Git branch name tokens.
package branchname

import (
	"strings"
	"unicode"
)

const (
	hyphenRuneConstant     = '-'
	underscoreRuneConstant = '_'
	hyphenStringConstant   = "-"
)

// Normalize maps arbitrary text to a kebab-case branch token: lowercase, keep
// only word characters, whitespace, and hyphens, collapse whitespace and
// underscore runs into single hyphens, collapse repeated hyphens, and trim
// leading and trailing hyphens.
//
// The transform is total and idempotent; input without any usable characters
// yields an empty string.
func Normalize(title string) string {
	lowered := strings.ToLower(title)

	var tokenBuilder strings.Builder
	previousWasSeparator := false
	for _, currentRune := range lowered {
		switch {
		case unicode.IsLetter(currentRune) || unicode.IsDigit(currentRune):
			tokenBuilder.WriteRune(currentRune)
			previousWasSeparator = false
		case currentRune == hyphenRuneConstant,
			currentRune == underscoreRuneConstant,
			unicode.IsSpace(currentRune):
			if !previousWasSeparator {
				tokenBuilder.WriteRune(hyphenRuneConstant)
			}
			previousWasSeparator = true
		default:
			// Characters outside the word/whitespace/hyphen set vanish entirely.
		}
	}

	return strings.Trim(tokenBuilder.String(), hyphenStringConstant)
}
