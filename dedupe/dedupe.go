package dedupe

import (
	"sort"

	"github.com/aaronsewall/spotify-popularity-playlist/matching"
)

// DefaultThreshold is the score two names must exceed to count as the same
// logical item. At 99 only near-exact name collisions collapse.
const DefaultThreshold = 99

// Record is a catalog entity (album or track) as the engine sees it: an
// opaque unique identifier, a display name used only for similarity
// comparison, and a popularity score where higher means more popular.
// Identifiers must be unique within one input batch.
type Record struct {
	ID         string
	Name       string
	Popularity int
}

// ByName collapses records whose names score strictly above threshold into a
// single representative and returns the survivors sorted by popularity
// descending, ties keeping their input order. Within a cluster of
// near-duplicates the first record in input order wins, regardless of
// popularity, so callers wanting the most popular representative must sort by
// popularity before deduplicating. When nothing is dropped the input comes
// back as-is, in its original order, empty input included.
//
// A record whose name normalizes to nothing (pure punctuation, a script
// outside a-z0-9) scores 0 against every record, itself included, so it never
// joins a cluster and is always kept.
//
// Thresholds outside [0, 100] are accepted but degenerate rather than
// clamped: at 100 or above even self-matches fail the strict comparison and
// every record is kept; below 0 every comparison survives and everything
// after the first record collapses into one cluster.
func ByName(records []Record, threshold int, scorer matching.Scorer) []Record {
	byID := make(map[string]Record, len(records))
	names := make(map[string]string, len(records))
	for _, record := range records {
		byID[record.ID] = record
		names[record.ID] = record.Name
	}

	var keptIDs []string
	keptSet := make(map[string]bool, len(records))
	for _, record := range records {
		matches := matching.Extract(record.Name, names, scorer)

		var survivors []matching.Match
		for _, match := range matches {
			if match.Score > threshold {
				survivors = append(survivors, match)
			}
		}

		// A lone survivor is the record's own self-match, meaning no real
		// duplicate exists. Otherwise the record is kept only when none of
		// its near-duplicates has already been chosen as a representative;
		// a record that matched nothing at all, not even itself, is kept
		// the same way.
		if len(survivors) == 1 || !anyAlreadyKept(survivors, keptSet) {
			keptIDs = append(keptIDs, record.ID)
			keptSet[record.ID] = true
		}
	}

	// Nothing was dropped; hand back the caller's list untouched, original
	// order included
	if len(keptIDs) == len(records) {
		return records
	}

	kept := make([]Record, 0, len(keptIDs))
	for _, id := range keptIDs {
		kept = append(kept, byID[id])
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Popularity > kept[j].Popularity
	})
	return kept
}

// anyAlreadyKept reports whether any surviving match points at an identifier
// already selected as a representative
func anyAlreadyKept(survivors []matching.Match, keptSet map[string]bool) bool {
	for _, match := range survivors {
		if keptSet[match.ID] {
			return true
		}
	}
	return false
}
