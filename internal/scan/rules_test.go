package scan

import (
	"reflect"
	"testing"
)

func TestInferRoomType(t *testing.T) {
	tests := []struct {
		name     string
		objects  []string
		expected string
	}{
		{"bed wins", []string{"lamp", "bed"}, "bedroom"},
		{"bed beats couch", []string{"couch", "bed"}, "bedroom"},
		{"sofa reads as living room", []string{"sofa"}, "living room"},
		{"couch reads as living room", []string{"couch"}, "living room"},
		{"dining table", []string{"dining table", "chair"}, "dining"},
		{"sink reads as bathroom", []string{"sink"}, "bathroom"},
		{"no signal yields no guess", []string{"chair", "lamp"}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferRoomType(tt.objects); got != tt.expected {
				t.Errorf("inferRoomType(%v) = %q, expected %q", tt.objects, got, tt.expected)
			}
		})
	}
}

func TestApplyObjectRules(t *testing.T) {
	cats, tags := applyObjectRules([]string{"bed", "lamp", "rug", "potted plant"})

	wantCats := []string{"bedding", "plants", "lighting"}
	if !reflect.DeepEqual(cats, wantCats) {
		t.Errorf("categories = %v, expected %v", cats, wantCats)
	}

	// rug and plant present, so neither absence tag fires; no wall is ever
	// detected, so wall-art always does.
	wantTags := []string{"cozy", "textured", "throw-pillows", "warm-lighting", "wall-art"}
	if !reflect.DeepEqual(tags, wantTags) {
		t.Errorf("tags = %v, expected %v", tags, wantTags)
	}
}

func TestApplyObjectRulesAbsence(t *testing.T) {
	_, tags := applyObjectRules([]string{"couch"})

	for _, want := range []string{"add-rug", "add-plants", "wall-art"} {
		if !containsString(tags, want) {
			t.Errorf("expected absence tag %q in %v", want, tags)
		}
	}
}

func TestApplyTextRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		cats []string
		tags []string
	}{
		{"empty text fires nothing", "", nil, nil},
		{"storage keyword", "i need more storage", []string{"storage"}, nil},
		{"cozy keyword", "something cozy please", nil, []string{"cozy"}},
		{"fun and cool fire once", "fun and cool vibes", nil, []string{"statement-piece", "led-lights"}},
		{"mirror and art", "a mirror and wall art", []string{"mirrors", "wall_art"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats, tags := applyTextRules(tt.text)
			if !reflect.DeepEqual(cats, tt.cats) {
				t.Errorf("categories = %v, expected %v", cats, tt.cats)
			}
			if !reflect.DeepEqual(tags, tt.tags) {
				t.Errorf("tags = %v, expected %v", tags, tt.tags)
			}
		})
	}
}

func TestAvoidTagsFromText(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"please no clutter", []string{"cluttered"}},
		{"help me declutter", []string{"cluttered"}},
		{"no black furniture", []string{"black-heavy"}},
		{"no clutter and no black", []string{"cluttered", "black-heavy"}},
		{"i love clutter", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := avoidTagsFromText(tt.text); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("avoidTagsFromText(%q) = %v, expected %v", tt.text, got, tt.expected)
		}
	}
}

func TestVibesFromPalette(t *testing.T) {
	tests := []struct {
		name     string
		palette  []string
		expected []string
	}{
		{"empty palette", nil, nil},
		{"dark tones read cool", []string{"#202020"}, []string{"cool"}},
		{"light tones read bright", []string{"#e0e0e0"}, []string{"bright"}},
		{"mid tones read neutral", []string{"#808080"}, []string{"neutral"}},
		{"teal adds teal and modern", []string{"#008080"}, []string{"cool", "teal", "modern"}},
		{"mixed palette dedups", []string{"#202020", "#404040", "#e0e0e0"}, []string{"cool", "bright"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vibesFromPalette(tt.palette); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("vibes = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsTealDominant(t *testing.T) {
	tests := []struct {
		hex      string
		expected bool
	}{
		{"#008080", true},
		{"#206080", true},
		{"#804040", false}, // red dominant
		{"#002020", false}, // green/blue too weak
		{"#ffffff", false}, // no channel dominates
		{"bogus", false},
	}

	for _, tt := range tests {
		if got := isTealDominant([]string{tt.hex}); got != tt.expected {
			t.Errorf("isTealDominant(%q) = %v", tt.hex, got)
		}
	}
}

func TestBuildProductIdeas(t *testing.T) {
	t.Run("missing lamp and rug", func(t *testing.T) {
		ideas := buildProductIdeas([]string{"bed"}, nil, nil, nil, "bedroom")
		if len(ideas) != 2 {
			t.Fatalf("expected 2 ideas, got %d", len(ideas))
		}
		if ideas[0].Category != "lighting" || ideas[1].Category != "rugs" {
			t.Errorf("idea categories = %s, %s", ideas[0].Category, ideas[1].Category)
		}
		if !containsString(ideas[0].SearchKeywords, "bedroom lighting") {
			t.Errorf("lamp idea should scope keywords to the room: %v", ideas[0].SearchKeywords)
		}
	})

	t.Run("everything fires and caps at five", func(t *testing.T) {
		ideas := buildProductIdeas(nil, []string{"#008080"}, []string{"storage"}, []string{"statement-piece"}, "")
		if len(ideas) != 5 {
			t.Fatalf("expected 5 ideas, got %d", len(ideas))
		}
	})

	t.Run("present objects suppress ideas", func(t *testing.T) {
		ideas := buildProductIdeas([]string{"lamp", "rug"}, nil, nil, nil, "")
		if len(ideas) != 0 {
			t.Errorf("expected no ideas, got %v", ideas)
		}
	})
}

func TestDedupStrings(t *testing.T) {
	got := dedupStrings([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("dedup = %v", got)
	}
}
