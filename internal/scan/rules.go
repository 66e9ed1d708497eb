package scan

import (
	"strconv"
	"strings"
)

// The heuristics below are ordered (predicate, effect) tables rather than
// conditional chains so each rule can be tested in isolation and the sets
// can evolve as data.

// roomSignatures map detected objects to a room type, first match wins.
// Absence of a stronger signal yields no room type rather than a guess.
type roomSignature struct {
	anyOf    []string
	roomType string
}

var roomSignatures = []roomSignature{
	{anyOf: []string{"bed"}, roomType: "bedroom"},
	{anyOf: []string{"couch", "sofa"}, roomType: "living room"},
	{anyOf: []string{"dining table"}, roomType: "dining"},
	{anyOf: []string{"toilet", "sink"}, roomType: "bathroom"},
}

func inferRoomType(objects []string) string {
	for _, sig := range roomSignatures {
		if anyPresent(objects, sig.anyOf) {
			return sig.roomType
		}
	}
	return ""
}

// objectRules derive categories and tags from the presence (or absence,
// for whenAbsent rules) of detected objects.
type objectRule struct {
	anyOf      []string
	whenAbsent bool
	categories []string
	tags       []string
}

var objectRules = []objectRule{
	{anyOf: []string{"bed"}, categories: []string{"bedding"}, tags: []string{"cozy", "textured", "throw-pillows"}},
	{anyOf: []string{"couch", "sofa", "chair"}, categories: []string{"seating"}},
	{anyOf: []string{"dining table", "table"}, categories: []string{"tables"}},
	{anyOf: []string{"potted plant"}, categories: []string{"plants"}},
	{anyOf: []string{"lamp"}, categories: []string{"lighting"}, tags: []string{"warm-lighting"}},
	{anyOf: []string{"rug"}, whenAbsent: true, tags: []string{"add-rug"}},
	{anyOf: []string{"potted plant"}, whenAbsent: true, tags: []string{"add-plants"}},
	{anyOf: []string{"wall"}, whenAbsent: true, tags: []string{"wall-art"}},
}

func applyObjectRules(objects []string) (categories, tags []string) {
	for _, rule := range objectRules {
		fired := anyPresent(objects, rule.anyOf)
		if rule.whenAbsent {
			fired = !fired
		}
		if fired {
			categories = append(categories, rule.categories...)
			tags = append(tags, rule.tags...)
		}
	}
	return categories, tags
}

// textRules match keywords in the free-text description.
type textRule struct {
	keywords   []string
	categories []string
	tags       []string
}

var textRules = []textRule{
	{keywords: []string{"storage"}, categories: []string{"storage"}},
	{keywords: []string{"mirror"}, categories: []string{"mirrors"}},
	{keywords: []string{"art"}, categories: []string{"wall_art"}},
	{keywords: []string{"cozy"}, tags: []string{"cozy"}},
	{keywords: []string{"fun", "cool"}, tags: []string{"statement-piece", "led-lights"}},
}

func applyTextRules(lowerText string) (categories, tags []string) {
	if lowerText == "" {
		return nil, nil
	}
	for _, rule := range textRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowerText, kw) {
				categories = append(categories, rule.categories...)
				tags = append(tags, rule.tags...)
				break
			}
		}
	}
	return categories, tags
}

// avoidRules derive tags-to-avoid purely from explicit negative phrases.
type avoidRule struct {
	phrases []string
	avoid   string
}

var avoidRules = []avoidRule{
	{phrases: []string{"no clutter", "declutter"}, avoid: "cluttered"},
	{phrases: []string{"no black"}, avoid: "black-heavy"},
}

func avoidTagsFromText(lowerText string) []string {
	var out []string
	for _, rule := range avoidRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lowerText, phrase) {
				out = append(out, rule.avoid)
				break
			}
		}
	}
	return out
}

// paletteRules map coarse channel prefixes of the palette to vibes.
type paletteRule struct {
	prefixes []string
	vibe     string
}

var paletteRules = []paletteRule{
	{prefixes: []string{"#00", "#20", "#40"}, vibe: "cool"},
	{prefixes: []string{"#c0", "#e0"}, vibe: "bright"},
	{prefixes: []string{"#80", "#a0"}, vibe: "neutral"},
}

func vibesFromPalette(palette []string) []string {
	if len(palette) == 0 {
		return nil
	}
	joined := strings.ToLower(strings.Join(palette, " "))

	var vibes []string
	for _, rule := range paletteRules {
		for _, prefix := range rule.prefixes {
			if strings.Contains(joined, prefix) {
				vibes = append(vibes, rule.vibe)
				break
			}
		}
	}
	if isTealDominant(palette) {
		vibes = append(vibes, "teal", "modern")
	}
	return dedupStrings(vibes)
}

// isTealDominant reports whether any palette color leans green/blue over
// red strongly enough to read as teal.
func isTealDominant(palette []string) bool {
	for _, hex := range palette {
		r, g, b, ok := parseHex(hex)
		if !ok {
			continue
		}
		if g > r && b > r && g > 80 && b > 80 {
			return true
		}
	}
	return false
}

func parseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseInt(hex[1:3], 16, 32)
	gv, err2 := strconv.ParseInt(hex[3:5], 16, 32)
	bv, err3 := strconv.ParseInt(hex[5:7], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return int(rv), int(gv), int(bv), true
}

// buildProductIdeas turns scan signals into up to five concrete
// suggestions, each with a why-string for display.
func buildProductIdeas(objects, palette, categories, tags []string, roomType string) []ProductIdea {
	var ideas []ProductIdea

	if !anyPresent(objects, []string{"lamp"}) {
		kw := "room lighting"
		if roomType != "" {
			kw = roomType + " lighting"
		}
		ideas = append(ideas, ProductIdea{
			Title:          "Warm bedside lamp",
			Category:       "lighting",
			SearchKeywords: []string{"warm bedside lamp", "ambient table lamp", kw},
			Why:            "Adds softer evening light and improves comfort.",
		})
	}
	if !anyPresent(objects, []string{"rug"}) {
		ideas = append(ideas, ProductIdea{
			Title:          "Neutral area rug",
			Category:       "rugs",
			SearchKeywords: []string{"neutral area rug", "soft textured rug", "modern rug"},
			Why:            "Grounds the space and adds warmth underfoot.",
		})
	}
	if isTealDominant(palette) {
		ideas = append(ideas, ProductIdea{
			Title:          "Warm wood accents",
			Category:       "decor",
			SearchKeywords: []string{"warm wood decor", "walnut accent pieces", "wood tray decor"},
			Why:            "Balances cool teal tones with natural warmth.",
		})
	}
	if containsString(categories, "storage") {
		ideas = append(ideas, ProductIdea{
			Title:          "Slim storage organizer",
			Category:       "storage",
			SearchKeywords: []string{"small space organizer", "decorative storage bins", "entryway storage"},
			Why:            "Keeps clutter down without sacrificing style.",
		})
	}
	if containsString(tags, "statement-piece") {
		ideas = append(ideas, ProductIdea{
			Title:          "Statement accent piece",
			Category:       "wall_art",
			SearchKeywords: []string{"statement wall art", "bold decor accent", "modern gallery piece"},
			Why:            "Introduces personality and a focal point.",
		})
	}

	if len(ideas) > 5 {
		ideas = ideas[:5]
	}
	return ideas
}

func anyPresent(objects, wanted []string) bool {
	for _, w := range wanted {
		for _, o := range objects {
			if o == w {
				return true
			}
		}
	}
	return false
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

func dedupStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
