package tbashell

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// minimum Jaro-Winkler similarity for a "did you mean" suggestion
const suggestThreshold = 0.85

// Splits a command line into tokens on runs of whitespace.
func splitCommandLine(line string) []string {
	return strings.Fields(line)
}

// Finds the model name closest to an unknown one, or "" if none is close.
func suggestModel(name string) string {
	if name == "" {
		return ""
	}

	best := ""
	bestScore := 0.0
	for _, candidate := range modelNames {
		score := matchr.JaroWinkler(strings.ToLower(name), candidate, false)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if bestScore < suggestThreshold {
		return ""
	}
	return best
}
