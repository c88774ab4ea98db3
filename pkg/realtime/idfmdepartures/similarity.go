package idfmdepartures

import (
	"github.com/idfmboard/idfmboard/pkg/util"
)

// MatchThreshold is the similarity at and above which a destination label is considered to name a stop
const MatchThreshold = 0.60

// CompareTwoStrings is the Sørensen–Dice coefficient over the character bigrams of both strings, ignoring
// whitespace. It is 1 for identical strings and 0 when either is shorter than two characters.
func CompareTwoStrings(first string, second string) float64 {
	a := []rune(util.RemoveWhitespace(first))
	b := []rune(util.RemoveWhitespace(second))

	if string(a) == string(b) {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := map[string]int{}
	for i := 0; i < len(a)-1; i++ {
		bigrams[string(a[i:i+2])]++
	}

	intersection := 0
	for i := 0; i < len(b)-1; i++ {
		bigram := string(b[i : i+2])
		if bigrams[bigram] > 0 {
			bigrams[bigram]--
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(a)+len(b)-2)
}

// NormaliseName strips diacritics so "Évry" and "Evry" compare equal
func NormaliseName(name string) string {
	return util.StripDiacritics(name)
}

// DestinationMatches reports whether destination is similar enough to one of the stop names
func DestinationMatches(destination string, stopNames []string) bool {
	normalised := NormaliseName(destination)

	for _, name := range stopNames {
		if CompareTwoStrings(NormaliseName(name), normalised) >= MatchThreshold {
			return true
		}
	}

	return false
}
