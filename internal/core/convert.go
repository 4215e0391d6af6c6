package core

// convert.go holds the narrow token parsers used on transcription cells.
//
// They never fail: a token either converts or becomes the missing marker.
// The transcription is asked to write "?" for illegible cells, but any
// token that is not purely decimal digits is treated the same way, so a
// misread "8." or "l4" is never guessed into a number.

import (
	"strconv"
	"unicode"

	"golang.org/x/text/width"
)

// ParseScore converts a cell token to a Score.
// Full-width digits are folded to ASCII first; the result must then consist
// only of the digits 0-9. No range check is applied.
func ParseScore(token string) Score {
	token = width.Fold.String(token)
	if token == "" {
		return Missing
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return Missing
		}
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		// Only reachable on overflow.
		return Missing
	}
	return Present(n)
}

// IsPlayerName reports whether a leading row token looks like a name,
// meaning it contains at least one letter. Purely numeric nicknames are
// misclassified; that is accepted.
func IsPlayerName(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
