package profile

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/seligo-ai/seligo/internal/catalog"
)

type memoryStore struct {
	snap    *Snapshot
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryStore) Load() (*Snapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.snap, nil
}

func (m *memoryStore) Save(s *Snapshot) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = s
	return nil
}

func TestProfileAdjustPersists(t *testing.T) {
	store := &memoryStore{}
	p := New(store)

	p.Adjust(catalog.Product{ID: "p1", Tags: []string{"cozy", "rug"}}, 2)

	if store.saves != 1 {
		t.Fatalf("expected 1 save, got %d", store.saves)
	}
	if store.snap.TagScores["cozy"] != 2 || store.snap.TagScores["rug"] != 2 {
		t.Errorf("snapshot scores not persisted: %v", store.snap.TagScores)
	}
}

func TestProfilePersistFailureKeepsMemoryState(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	p := New(store)

	p.Adjust(catalog.Product{Tags: []string{"modern"}}, 2)

	if got := p.TagScore("modern"); got != 2 {
		t.Errorf("in-memory score lost on persist failure: got %d", got)
	}
}

func TestProfileLoadRoundTrip(t *testing.T) {
	store := &memoryStore{}
	p := New(store)
	p.Adjust(catalog.Product{Tags: []string{"cozy"}}, 2)
	p.Mark("p1")
	p.Mark("p2")
	p.BlockTag("floral")
	p.SetInterests([]string{"rugs", "lighting"})

	loaded, err := Load(store)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := loaded.TagScore("cozy"); got != 2 {
		t.Errorf("expected cozy score 2 after reload, got %d", got)
	}
	if !loaded.Seen("p1") || !loaded.Seen("p2") {
		t.Error("swiped IDs lost on reload")
	}
	if !loaded.IsBlocked(catalog.Product{Tags: []string{"floral"}}) {
		t.Error("blocked tag lost on reload")
	}
	if got := loaded.Interests(); !reflect.DeepEqual(got, []string{"rugs", "lighting"}) {
		t.Errorf("interests lost on reload: %v", got)
	}
}

func TestProfileLoadError(t *testing.T) {
	store := &memoryStore{loadErr: errors.New("corrupt")}
	if _, err := Load(store); err == nil {
		t.Fatal("expected load error to propagate")
	}
}

func TestDedupMarkUnmark(t *testing.T) {
	p := New(nil)

	p.Mark("p1")
	if !p.Seen("p1") {
		t.Error("p1 should be seen after Mark")
	}
	if p.Seen("p2") {
		t.Error("p2 should not be seen")
	}

	p.Unmark("p1")
	if p.Seen("p1") {
		t.Error("p1 should not be seen after Unmark")
	}
	if p.SwipedCount() != 0 {
		t.Errorf("expected empty dedup set, got %d", p.SwipedCount())
	}
}

func TestProfileBlockedTags(t *testing.T) {
	p := New(nil)
	p.BlockTag("floral")
	p.BlockTag("ornate")

	if !p.IsBlocked(catalog.Product{Tags: []string{"cozy", "floral"}}) {
		t.Error("product with a blocked tag should be blocked")
	}
	if p.IsBlocked(catalog.Product{Tags: []string{"cozy"}}) {
		t.Error("product without blocked tags should pass")
	}

	p.UnblockTag("floral")
	if p.IsBlocked(catalog.Product{Tags: []string{"floral"}}) {
		t.Error("unblocked tag should no longer block")
	}

	got := p.BlockedTags()
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"ornate"}) {
		t.Errorf("blocked tags = %v", got)
	}
}

func TestProfileMergeInterests(t *testing.T) {
	p := New(nil)
	p.SetInterests([]string{"rugs"})
	p.MergeInterests([]string{"rugs", "lighting", "plants"})

	if got := p.Interests(); !reflect.DeepEqual(got, []string{"rugs", "lighting", "plants"}) {
		t.Errorf("merged interests = %v", got)
	}
}

func TestProfileReset(t *testing.T) {
	p := New(nil)
	p.Adjust(catalog.Product{Tags: []string{"cozy"}}, 2)
	p.Mark("p1")
	p.BlockTag("floral")
	p.SetInterests([]string{"rugs"})

	p.Reset()

	if p.TagScore("cozy") != 0 {
		t.Error("ledger not cleared")
	}
	if p.Seen("p1") {
		t.Error("dedup set not cleared")
	}
	if len(p.BlockedTags()) != 0 {
		t.Error("blocked tags not cleared")
	}
	if len(p.Interests()) != 0 {
		t.Error("interests not cleared")
	}
}

func TestPersona(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(p *Profile)
		expected string
	}{
		{
			name:     "no signal",
			setup:    func(p *Profile) {},
			expected: "New Explorer",
		},
		{
			name: "positive signal without vibe tags",
			setup: func(p *Profile) {
				p.AdjustTags([]string{"rug"}, 2)
			},
			expected: "Style Developing",
		},
		{
			name: "cozy dominant",
			setup: func(p *Profile) {
				p.AdjustTags([]string{"cozy"}, 4)
				p.AdjustTags([]string{"modern"}, 2)
			},
			expected: "Cozy Homebody",
		},
		{
			name: "minimal wins priority over cozy in top vibes",
			setup: func(p *Profile) {
				p.AdjustTags([]string{"cozy"}, 4)
				p.AdjustTags([]string{"minimal"}, 2)
			},
			expected: "Minimalist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(nil)
			tt.setup(p)
			if got := p.Persona().DetectedVibe; got != tt.expected {
				t.Errorf("detected vibe = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestPersonaKeywordsAndRooms(t *testing.T) {
	p := New(nil)
	p.AdjustTags([]string{"cozy", "warm"}, 3)
	p.AdjustTags([]string{"bold"}, -2)
	p.AdjustTags([]string{"bedroom"}, 2)
	p.AdjustTags([]string{"living_room"}, 1)
	p.AdjustTags([]string{"rug"}, 5)

	persona := p.Persona()
	if !reflect.DeepEqual(persona.StyleKeywords, []string{"cozy", "warm"}) {
		t.Errorf("style keywords = %v", persona.StyleKeywords)
	}
	if !reflect.DeepEqual(persona.DislikedFeatures, []string{"bold"}) {
		t.Errorf("disliked features = %v", persona.DislikedFeatures)
	}
	if got := p.TopRooms(4); !reflect.DeepEqual(got, []string{"bedroom", "living_room"}) {
		t.Errorf("top rooms = %v", got)
	}
}
