package matching

import (
	"errors"
	"testing"
)

func TestTokenSortScorerIgnoresWordOrder(t *testing.T) {
	scorer := TokenSortScorer{}

	score := scorer.Ratio("Greatest Hits", "Hits: Greatest")
	if score != 100 {
		t.Errorf("Expected reordered words to score 100, got %d", score)
	}
}

func TestTokenSortScorerIdenticalNames(t *testing.T) {
	scorer := TokenSortScorer{}

	names := []string{
		"Bohemian Rhapsody",
		"bohemian rhapsody",
		"Bohemian Rhapsody!",
	}
	for _, name := range names {
		if score := scorer.Ratio("Bohemian Rhapsody", name); score != 100 {
			t.Errorf("Expected '%s' to self-match at 100, got %d", name, score)
		}
	}
}

func TestTokenSortScorerPenalizesExtraWords(t *testing.T) {
	scorer := TokenSortScorer{}

	// The extra word keeps the score high but below a near-exact threshold
	score := scorer.Ratio("Greatest Hits", "Greatest Hits (Remastered)")
	if score >= 100 {
		t.Errorf("Expected extra words to score below 100, got %d", score)
	}
	if score <= 0 {
		t.Errorf("Expected overlapping names to score above 0, got %d", score)
	}
}

func TestTokenSetScorerSubsetScoresPerfect(t *testing.T) {
	scorer := TokenSetScorer{}

	// Every word of the first name appears in the second, so the set-based
	// scorer treats them as the same title
	score := scorer.Ratio("Greatest Hits", "Greatest Hits (Remastered)")
	if score != 100 {
		t.Errorf("Expected subset of words to score 100, got %d", score)
	}

	// The stricter token-sort scorer disagrees on the same pair
	if sortScore := (TokenSortScorer{}).Ratio("Greatest Hits", "Greatest Hits (Remastered)"); sortScore == 100 {
		t.Error("Expected token-sort to score the same pair below 100")
	}
}

func TestTokenSetScorerDistinctNamesScoreLow(t *testing.T) {
	scorer := TokenSetScorer{}

	score := scorer.Ratio("Abbey Road", "Let It Be")
	if score >= 50 {
		t.Errorf("Expected distinct titles to score below 50, got %d", score)
	}
}

func TestScorersHandleEmptyNames(t *testing.T) {
	// An empty name matches nothing, another empty name included
	if score := (TokenSortScorer{}).Ratio("", ""); score != 0 {
		t.Errorf("Expected token-sort on two empty names to be 0, got %d", score)
	}
	if score := (TokenSetScorer{}).Ratio("", ""); score != 0 {
		t.Errorf("Expected token-set on two empty names to be 0, got %d", score)
	}
	if score := (TokenSortScorer{}).Ratio("", "Something"); score != 0 {
		t.Errorf("Expected empty vs non-empty to be 0, got %d", score)
	}
	if score := (TokenSetScorer{}).Ratio("", "Something"); score != 0 {
		t.Errorf("Expected token-set empty vs non-empty to be 0, got %d", score)
	}
}

func TestScorersNamesOutsideLatinScriptScoreZero(t *testing.T) {
	// Names that normalization reduces to nothing must not match each
	// other, themselves, or any real name
	if score := (TokenSortScorer{}).Ratio("憂鬱", "別の曲"); score != 0 {
		t.Errorf("Expected distinct non-Latin names to score 0, got %d", score)
	}
	if score := (TokenSortScorer{}).Ratio("憂鬱", "憂鬱"); score != 0 {
		t.Errorf("Expected a non-Latin name not to match even itself, got %d", score)
	}
	if score := (TokenSetScorer{}).Ratio("★", "Fix You"); score != 0 {
		t.Errorf("Expected a punctuation-only name to score 0 against a real one, got %d", score)
	}
	if score := (TokenSetScorer{}).Ratio("★", "☆"); score != 0 {
		t.Errorf("Expected two punctuation-only names to score 0, got %d", score)
	}
}

func TestLevenshteinRatio(t *testing.T) {
	testCases := []struct {
		a        string
		b        string
		expected int
	}{
		{"greatest hits", "greatest hits", 100},
		{"", "", 0},
		{"abcd", "", 0},
		// 11 edits over 24 runes
		{"greatest hits", "greatest hits remastered", 54},
	}

	for _, tc := range testCases {
		result := levenshteinRatio(tc.a, tc.b)
		if result != tc.expected {
			t.Errorf("Expected ratio of '%s' vs '%s' to be %d, got %d", tc.a, tc.b, tc.expected, result)
		}
	}
}

func TestScorerByName(t *testing.T) {
	scorer, err := ScorerByName(ModeTokenSort)
	if err != nil {
		t.Fatalf("Expected no error for %s, got %v", ModeTokenSort, err)
	}
	if _, ok := scorer.(TokenSortScorer); !ok {
		t.Errorf("Expected a TokenSortScorer for %s, got %T", ModeTokenSort, scorer)
	}

	scorer, err = ScorerByName(ModeTokenSet)
	if err != nil {
		t.Fatalf("Expected no error for %s, got %v", ModeTokenSet, err)
	}
	if _, ok := scorer.(TokenSetScorer); !ok {
		t.Errorf("Expected a TokenSetScorer for %s, got %T", ModeTokenSet, scorer)
	}
}

func TestScorerByNameUnknownMode(t *testing.T) {
	_, err := ScorerByName("soundex")
	if err == nil {
		t.Fatal("Expected error for unknown scoring mode, got nil")
	}
	if !errors.Is(err, ErrUnknownScorer) {
		t.Errorf("Expected ErrUnknownScorer, got %v", err)
	}
}
