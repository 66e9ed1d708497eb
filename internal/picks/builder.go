package picks

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/seligo-ai/seligo/internal/catalog"
	"github.com/seligo-ai/seligo/internal/scan"
)

// Pick is one scan-surfaced product with its ranked score and up to
// three human-readable rationale strings.
type Pick struct {
	Product   catalog.Product `json:"product"`
	Score     int             `json:"score"`
	Rationale []string        `json:"rationale"`
}

// Tuning holds the pick-scoring bonuses. Treat as configuration.
type Tuning struct {
	SponsoredBonus int
	CategoryBonus  int
	TagBonus       int
	MaxPicks       int
	FallbackPicks  int
}

func DefaultTuning() Tuning {
	return Tuning{
		SponsoredBonus: 6,
		CategoryBonus:  3,
		TagBonus:       2,
		MaxPicks:       8,
		FallbackPicks:  4,
	}
}

// missingObjectRules give targeted bonuses when the scan found a gap a
// candidate directly fills.
type missingObjectRule struct {
	object    string
	category  string
	bonus     int
	rationale string
}

var missingObjectRules = []missingObjectRule{
	{object: "rug", category: "rugs", bonus: 5, rationale: "No rug detected. A rug would ground the space."},
	{object: "lamp", category: "lighting", bonus: 5, rationale: "No lamp detected. Warm lighting would soften the room."},
	{object: "potted plant", category: "plants", bonus: 4, rationale: "No plants detected. Greenery would liven the space."},
}

// Builder scores a candidate pool against a room analysis.
type Builder struct {
	tuning Tuning
}

func NewBuilder(tuning Tuning) *Builder {
	if tuning.MaxPicks == 0 {
		tuning = DefaultTuning()
	}
	return &Builder{tuning: tuning}
}

// Build scores every not-already-saved candidate and returns the top
// picks, each with rationale strings for the signals that fired. When
// nothing scores above the baseline the first few pool items are
// returned in original order so the user always sees some result.
func (b *Builder) Build(
	pool []catalog.Product,
	analysis *scan.Analysis,
	ledgerScore func(catalog.Product) int,
	isSaved func(id string) bool,
) []Pick {
	recommendedCats := make(map[string]struct{}, len(analysis.RecommendedCategories))
	for _, c := range analysis.RecommendedCategories {
		recommendedCats[c] = struct{}{}
	}
	tagSet := analysis.TagSet()

	type scored struct {
		pick  Pick
		order int
	}
	var candidates []scored

	for i, item := range pool {
		if isSaved != nil && isSaved(item.ID) {
			continue
		}

		score := ledgerScore(item)
		var rationale []string

		if item.Sponsored {
			score += b.tuning.SponsoredBonus
			rationale = append(rationale, "Featured pick from our catalog partners.")
		}

		for _, rule := range missingObjectRules {
			if item.Category == rule.category && !analysis.HasObject(rule.object) {
				score += rule.bonus
				rationale = append(rationale, rule.rationale)
			}
		}

		if _, ok := recommendedCats[item.Category]; ok {
			score += b.tuning.CategoryBonus
			rationale = append(rationale, fmt.Sprintf("Matches the recommended %s category for your room.", item.Category))
		}

		var matchedTags []string
		for _, t := range item.Tags {
			if _, ok := tagSet[t]; ok {
				score += b.tuning.TagBonus
				matchedTags = append(matchedTags, t)
			}
		}
		if len(matchedTags) > 0 {
			rationale = append(rationale, fmt.Sprintf("Fits your %s style signals.", strings.Join(matchedTags, ", ")))
		}

		if len(rationale) == 0 {
			rationale = append(rationale, genericRationale(item))
		}
		if len(rationale) > 3 {
			rationale = rationale[:3]
		}

		candidates = append(candidates, scored{
			pick:  Pick{Product: item, Score: score, Rationale: rationale},
			order: i,
		})
	}

	anyAboveBaseline := false
	for _, c := range candidates {
		if c.pick.Score > 0 {
			anyAboveBaseline = true
			break
		}
	}

	if !anyAboveBaseline {
		// Empty or fully-filtered signal set: show the head of the pool
		// rather than nothing.
		n := b.tuning.FallbackPicks
		if n > len(candidates) {
			n = len(candidates)
		}
		fallback := make([]Pick, 0, n)
		for _, c := range candidates[:n] {
			p := c.pick
			p.Rationale = []string{genericRationale(p.Product)}
			fallback = append(fallback, p)
		}
		log.Printf("[PICKS] no candidate above baseline, falling back to %d pool items", len(fallback))
		return fallback
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].pick.Score > candidates[j].pick.Score
	})
	if len(candidates) > b.tuning.MaxPicks {
		candidates = candidates[:b.tuning.MaxPicks]
	}

	out := make([]Pick, len(candidates))
	for i, c := range candidates {
		out[i] = c.pick
	}
	log.Printf("[PICKS] built %d picks (top score %d)", len(out), out[0].Score)
	return out
}

func genericRationale(item catalog.Product) string {
	if len(item.Tags) > 0 {
		return fmt.Sprintf("A %s pick that fits the %s look.", item.Category, item.Tags[0])
	}
	return fmt.Sprintf("A solid %s pick to get the room started.", item.Category)
}
