// Package responses holds the Indonesian reply corpora and the keyword
// predicates that route a chat message to one of them. Every corpus pick
// takes an explicit *rand.Rand so callers control randomness.
package responses

import (
	"math/rand"
	"strings"

	"github.com/sdnsembar01/aska/internal/textnorm"
)

func pick(rng *rand.Rand, corpus []string) string {
	if len(corpus) == 0 {
		return ""
	}
	return corpus[rng.Intn(len(corpus))]
}

func containsAny(lowered string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(lowered, needle) {
			return true
		}
	}
	return false
}

func tokenSet(lowered string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range textnorm.Tokenize(lowered) {
		set[token] = true
	}
	return set
}

func anyToken(tokens map[string]bool, keywords []string) bool {
	for _, keyword := range keywords {
		if tokens[keyword] {
			return true
		}
	}
	return false
}
