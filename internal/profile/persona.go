package profile

// Tag classification sets. Vibe tags feed the persona, room and interest
// tags feed the profile summary views.
var (
	vibeTags = map[string]struct{}{
		"cozy": {}, "neutral": {}, "modern": {}, "minimal": {},
		"bold": {}, "warm": {}, "cool": {},
	}

	roomTags = map[string]struct{}{
		"entryway": {}, "living_room": {}, "bedroom": {}, "kitchen": {},
	}

	interestTags = map[string]struct{}{
		"rugs": {}, "lighting": {}, "wall_art": {}, "seating": {},
		"tables": {}, "bedding": {}, "storage": {}, "mirrors": {},
		"plants": {}, "kitchen_decor": {},
	}
)

func IsVibeTag(t string) bool {
	_, ok := vibeTags[t]
	return ok
}

func IsRoomTag(t string) bool {
	_, ok := roomTags[t]
	return ok
}

func IsInterestTag(t string) bool {
	_, ok := interestTags[t]
	return ok
}

// Persona is the lightweight taste summary derived from the ledger.
type Persona struct {
	DetectedVibe       string   `json:"detectedVibe"`
	StyleKeywords      []string `json:"styleKeywords"`
	DislikedFeatures   []string `json:"dislikedFeatures"`
	DominantCategories []string `json:"dominantCategories"`
	PriceSensitivity   string   `json:"priceSensitivity"`
}

// vibeNames maps the single strongest vibe tag to a display name,
// checked in priority order.
var vibeNames = []struct {
	tag  string
	name string
}{
	{"minimal", "Minimalist"},
	{"cozy", "Cozy Homebody"},
	{"modern", "Modern Curator"},
	{"neutral", "Neutral Aesthetic"},
	{"bold", "Bold Curator"},
	{"warm", "Warm & Inviting"},
	{"cool", "Cool & Clean"},
}

// Persona derives the current persona from the ledger. It is recomputed
// on demand rather than stored, so it can never drift from the scores.
func (p *Profile) Persona() Persona {
	p.mu.RLock()
	defer p.mu.RUnlock()

	topVibes := p.topSignedTagsLocked(1, 3, IsVibeTag)
	has := func(tag string) bool {
		for _, t := range topVibes {
			if t == tag {
				return true
			}
		}
		return false
	}

	vibe := ""
	for _, vn := range vibeNames {
		if has(vn.tag) {
			vibe = vn.name
			break
		}
	}
	if vibe == "" {
		if p.ledger.AnyPositive() {
			vibe = "Style Developing"
		} else {
			vibe = "New Explorer"
		}
	}

	return Persona{
		DetectedVibe:       vibe,
		StyleKeywords:      p.topSignedTagsLocked(1, 6, IsVibeTag),
		DislikedFeatures:   p.topSignedTagsLocked(-1, 6, IsVibeTag),
		DominantCategories: p.topSignedTagsLocked(1, 5, IsInterestTag),
		PriceSensitivity:   "mid-range",
	}
}

// TopRooms returns the user's strongest positively-scored room tags.
func (p *Profile) TopRooms(n int) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.topSignedTagsLocked(1, n, IsRoomTag)
}

func (p *Profile) topSignedTagsLocked(sign, n int, keep func(string) bool) []string {
	all := p.ledger.TopTags(sign, len(p.ledger.scores))
	out := make([]string, 0, n)
	for _, t := range all {
		if keep(t) {
			out = append(out, t)
			if len(out) == n {
				break
			}
		}
	}
	return out
}
