package feed

import (
	"reflect"
	"testing"

	"github.com/seligo-ai/seligo/internal/catalog"
)

func ids(items []catalog.Product) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestRankSponsoredFirstThenScore(t *testing.T) {
	items := []catalog.Product{
		{ID: "low", Tags: []string{"bold"}},
		{ID: "high", Tags: []string{"cozy"}},
		{ID: "ad", Sponsored: true, Tags: []string{"bold"}},
	}
	scores := map[string]int{"cozy": 4, "bold": -2}
	score := func(p catalog.Product) int {
		total := 0
		for _, tag := range p.Tags {
			total += scores[tag]
		}
		return total
	}

	ranked := Rank(items, score)

	if got := ids(ranked); !reflect.DeepEqual(got, []string{"ad", "high", "low"}) {
		t.Errorf("ranked order = %v", got)
	}
}

func TestRankStableOnTies(t *testing.T) {
	items := []catalog.Product{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	ranked := Rank(items, func(catalog.Product) int { return 0 })

	if got := ids(ranked); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("tied items should keep input order, got %v", got)
	}
}

func TestRankDoesNotModifyInput(t *testing.T) {
	items := []catalog.Product{
		{ID: "a", Tags: []string{"bold"}},
		{ID: "b", Tags: []string{"cozy"}},
	}
	score := func(p catalog.Product) int {
		if p.HasTag("cozy") {
			return 5
		}
		return 0
	}

	Rank(items, score)

	if got := ids(items); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("input slice was reordered: %v", got)
	}
}

func TestUndoDeltasCancelExactly(t *testing.T) {
	if PassDelta+UndoPassDelta != 0 {
		t.Errorf("pass deltas do not cancel: %d + %d", PassDelta, UndoPassDelta)
	}
	if LikeDelta+UndoLikeDelta != 0 {
		t.Errorf("like deltas do not cancel: %d + %d", LikeDelta, UndoLikeDelta)
	}
}
