// Package approx implements approximate matching between strings.
//
// The matching is based on the Levenshtein distance and works either between
// two strings or between one string and a collection of candidates. The
// bag-of-words score ignores word order and tolerates incomplete titles.
package approx

import (
	"errors"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// ErrNoCandidates is returned by BestMatch when the candidate set is empty.
var ErrNoCandidates = errors.New("approx: empty candidate set")

// AcceptanceThreshold is the per-character cutoff below which an approximate
// match is trusted. The comparison is strict: a score exactly at the
// threshold is rejected.
const AcceptanceThreshold = 0.1

// Distance returns the Levenshtein distance between two strings with
// insertion cost 1, deletion cost 1 and substitution cost 2. The higher
// substitution cost makes the distance prefer an insert/delete pair over a
// substitution for near-miss tokens.
func Distance(a, b string) int {
	return levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

// Score measures how well text1 is covered by text2 using a bag-of-words
// model. Both texts are lower-cased and split on whitespace; for every word
// of text1 the minimum Distance to any word of text2 is taken, and the score
// is the sum of those minima. The score is asymmetric: callers normalize by
// the length of a fixed reference string, so the argument order matters.
func Score(text1, text2 string) int {
	words1 := strings.Fields(strings.ToLower(text1))
	words2 := strings.Fields(strings.ToLower(text2))

	score := 0
	for _, w1 := range words1 {
		best := -1
		for _, w2 := range words2 {
			d := Distance(w1, w2)
			if best < 0 || d < best {
				best = d
			}
		}
		if best > 0 {
			score += best
		}
	}
	return score
}

// BestMatch returns the candidate with the lowest Score(query, candidate).
// Ties are broken by the first candidate encountered. It does not apply any
// acceptance threshold; callers decide whether the best match is good enough.
func BestMatch(query string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	best := candidates[0]
	bestScore := Score(query, best)
	for _, c := range candidates[1:] {
		if s := Score(query, c); s < bestScore {
			best = c
			bestScore = s
		}
	}
	return best, nil
}

// Acceptable reports whether candidate is a trustworthy approximate match for
// query, normalizing the score by the candidate's length in runes. The
// threshold is strict: Score/len == AcceptanceThreshold is rejected.
func Acceptable(query, candidate string) bool {
	return Normalized(Score(query, candidate), candidate) < AcceptanceThreshold
}

// Normalized divides a score by the rune length of the reference string the
// caller chose to normalize against.
func Normalized(score int, reference string) float64 {
	n := len([]rune(reference))
	if n == 0 {
		return AcceptanceThreshold
	}
	return float64(score) / float64(n)
}
