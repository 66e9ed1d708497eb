package profile

import (
	"math"
	"sort"
)

// Ledger is the running signed tag-affinity total. Scores are created
// lazily on first adjustment and never decay; an unknown tag reads as 0.
type Ledger struct {
	scores map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{scores: make(map[string]int)}
}

// Adjust adds delta to the score of every tag in tags.
func (l *Ledger) Adjust(tags []string, delta int) {
	for _, t := range tags {
		l.scores[t] += delta
	}
}

// Score sums the current scores of the given tags.
func (l *Ledger) Score(tags []string) int {
	s := 0
	for _, t := range tags {
		s += l.scores[t]
	}
	return s
}

// MatchPercent converts a tag-score sum into the user-facing match value:
// clamp(75 + 3*score, 60, 99). Cosmetic only; never used for ordering.
func MatchPercent(score int) int {
	pct := 75 + score*3
	return int(math.Round(math.Max(60, math.Min(99, float64(pct)))))
}

// TagScore returns the raw score for a single tag.
func (l *Ledger) TagScore(tag string) int {
	return l.scores[tag]
}

// TopTags returns up to n tags with the strongest scores of the given
// sign (+1 positive, -1 negative), strongest first. Ties break
// lexicographically so output is deterministic.
func (l *Ledger) TopTags(sign int, n int) []string {
	type entry struct {
		tag   string
		score int
	}
	entries := make([]entry, 0, len(l.scores))
	for t, s := range l.scores {
		if (sign > 0 && s > 0) || (sign < 0 && s < 0) {
			entries = append(entries, entry{t, s})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.score != b.score {
			if sign > 0 {
				return a.score > b.score
			}
			return a.score < b.score
		}
		return a.tag < b.tag
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	tags := make([]string, len(entries))
	for i, e := range entries {
		tags[i] = e.tag
	}
	return tags
}

// AnyPositive reports whether any tag has a positive score.
func (l *Ledger) AnyPositive() bool {
	for _, s := range l.scores {
		if s > 0 {
			return true
		}
	}
	return false
}

func (l *Ledger) snapshot() map[string]int {
	out := make(map[string]int, len(l.scores))
	for t, s := range l.scores {
		out[t] = s
	}
	return out
}

func (l *Ledger) restore(scores map[string]int) {
	l.scores = make(map[string]int, len(scores))
	for t, s := range scores {
		l.scores[t] = s
	}
}

func (l *Ledger) reset() {
	l.scores = make(map[string]int)
}
