package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Scorer rates the similarity of two names on a scale from 0 (nothing in
// common) to 100 (identical after normalization). Higher means more similar.
// A name that normalizes to nothing never matches, not even itself.
type Scorer interface {
	Ratio(a, b string) int
}

// Scoring mode names accepted by ScorerByName.
const (
	ModeTokenSort = "token-sort"
	ModeTokenSet  = "token-set"
)

// ErrUnknownScorer is returned when a scoring mode name is not recognized.
var ErrUnknownScorer = errors.New("unknown scoring mode")

// ScorerByName returns the scorer for a mode name: "token-sort" for the
// word-counting scorer or "token-set" for the subset-tolerant one.
func ScorerByName(mode string) (Scorer, error) {
	switch mode {
	case ModeTokenSort:
		return TokenSortScorer{}, nil
	case ModeTokenSet:
		return TokenSetScorer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScorer, mode)
	}
}

// TokenSortScorer compares names by sorting their normalized tokens and
// scoring the joined results, so word order never matters but every extra or
// missing word lowers the score. The stricter choice for track titles, where
// "Song" and "Song (Live)" should stay distinct.
type TokenSortScorer struct{}

// Ratio implements Scorer.
func (TokenSortScorer) Ratio(a, b string) int {
	return levenshteinRatio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetScorer compares the tokens both names share against each side's
// leftovers and keeps the best score, so a name whose words all appear in the
// other scores 100. The forgiving choice for album titles, where editions pile
// on extra words ("Deluxe", "Remastered").
type TokenSetScorer struct{}

// Ratio implements Scorer.
func (TokenSetScorer) Ratio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)

	// A side with no tokens left after normalization matches nothing
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared = append(shared, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range setB {
		if _, ok := setA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := levenshteinRatio(sect, combinedA)
	if r := levenshteinRatio(sect, combinedB); r > best {
		best = r
	}
	if r := levenshteinRatio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

// levenshteinRatio converts the Levenshtein distance between two strings into
// a similarity ratio from 0 to 100. An empty string scores 0 against
// everything, another empty string included.
func levenshteinRatio(a, b string) int {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return int(math.Round((1.0 - float64(distance)/float64(maxLen)) * 100.0))
}

func sortedTokenString(s string) string {
	tokens := Tokens(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range Tokens(s) {
		set[token] = struct{}{}
	}
	return set
}
