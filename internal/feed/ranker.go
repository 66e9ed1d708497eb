package feed

import (
	"sort"

	"github.com/seligo-ai/seligo/internal/catalog"
)

// Swipe policy constants. An undo must exactly cancel the decision it
// reverses: PassDelta+UndoPassDelta == 0 and LikeDelta+UndoLikeDelta == 0.
const (
	PassDelta     = -1
	LikeDelta     = 2
	UndoPassDelta = 1
	UndoLikeDelta = -2
)

// Rank orders items sponsored-first, then by descending score, keeping
// input order for ties. The input slice is not modified.
func Rank(items []catalog.Product, score func(catalog.Product) int) []catalog.Product {
	ranked := append([]catalog.Product(nil), items...)
	scores := make([]int, len(ranked))
	for i, it := range ranked {
		scores[i] = score(it)
	}
	idx := make([]int, len(ranked))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if ranked[ia].Sponsored != ranked[ib].Sponsored {
			return ranked[ia].Sponsored
		}
		return scores[ia] > scores[ib]
	})
	out := make([]catalog.Product, len(ranked))
	for i, j := range idx {
		out[i] = ranked[j]
	}
	return out
}
