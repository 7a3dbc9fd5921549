package matching

// Match is the scored comparison of a query name against one candidate.
type Match struct {
	Name  string
	Score int
	ID    string
}

// Extract scores the query name against every candidate in the id-to-name
// mapping and returns one Match per candidate. The result carries no
// particular order; callers filter or sort as needed. A candidate whose name
// equals the query scores 100, provided the name survives normalization.
func Extract(query string, candidates map[string]string, scorer Scorer) []Match {
	matches := make([]Match, 0, len(candidates))
	for id, name := range candidates {
		matches = append(matches, Match{
			Name:  name,
			Score: scorer.Ratio(query, name),
			ID:    id,
		})
	}
	return matches
}
