package league

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPriority lists the leagues shown first, in order: Brasileirão
// Série A, Champions League, Premier League, La Liga, Serie A, Bundesliga,
// Ligue 1, Brasileirão Série B, Libertadores, Sudamericana.
var DefaultPriority = []int64{71, 2, 39, 140, 135, 78, 61, 72, 13, 14}

// Order puts the leagues named in priority first, in priority order, then
// the rest by country and name under Portuguese collation. Priority ids
// missing from leagues leave no gap. The input is not modified.
func Order(leagues []Summary, priority []int64) []Summary {
	rank := make(map[int64]int, len(priority))
	for i, id := range priority {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}

	first := make([]Summary, 0, len(priority))
	rest := make([]Summary, 0, len(leagues))
	for _, l := range leagues {
		if _, ok := rank[l.ID]; ok {
			first = append(first, l)
			continue
		}
		rest = append(rest, l)
	}

	slices.SortStableFunc(first, func(a, b Summary) int {
		return rank[a.ID] - rank[b.ID]
	})

	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	slices.SortStableFunc(rest, func(a, b Summary) int {
		if c := col.CompareString(a.Country, b.Country); c != 0 {
			return c
		}
		return col.CompareString(a.Name, b.Name)
	})

	return append(first, rest...)
}
