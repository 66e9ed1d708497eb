package scan

// Analysis is the structured result of one room scan. It is consumed
// immediately (ledger adjustments, pick building) and never persisted.
type Analysis struct {
	RoomType              string        `json:"roomType,omitempty"`
	Palette               []string      `json:"palette"`
	Objects               []string      `json:"objects"`
	ClassifierLabels      []string      `json:"classifierLabels,omitempty"`
	VibeTags              []string      `json:"vibeTags"`
	RecommendedCategories []string      `json:"recommendedCategories"`
	RecommendedTags       []string      `json:"recommendedTags"`
	AvoidTags             []string      `json:"avoidTags"`
	Summary               string        `json:"oneSentenceSummary"`
	ProductIdeas          []ProductIdea `json:"productIdeas,omitempty"`
}

// ProductIdea is a model-free suggestion derived from scan signals.
type ProductIdea struct {
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	SearchKeywords []string `json:"searchKeywords"`
	Why            string   `json:"why"`
}

// HasObject reports whether the given object label was detected.
func (a *Analysis) HasObject(label string) bool {
	for _, o := range a.Objects {
		if o == label {
			return true
		}
	}
	return false
}

// TagSet returns the union of recommended and vibe tags.
func (a *Analysis) TagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(a.RecommendedTags)+len(a.VibeTags))
	for _, t := range a.RecommendedTags {
		set[t] = struct{}{}
	}
	for _, t := range a.VibeTags {
		set[t] = struct{}{}
	}
	return set
}
