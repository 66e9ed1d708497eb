package profile

import (
	"errors"
	"log"
	"sync"

	"github.com/seligo-ai/seligo/internal/catalog"
)

// ErrPersist wraps profile write failures. Writes are non-fatal: in-memory
// state stays authoritative for the session and the failure is logged.
var ErrPersist = errors.New("profile persist failed")

// Snapshot is the serialized profile shape handed to a Store.
type Snapshot struct {
	TagScores   map[string]int `json:"tagScores"`
	SwipedIDs   []string       `json:"swipedIds"`
	BlockedTags []string       `json:"blockedTags"`
	Interests   []string       `json:"interests"`
}

// Store persists profile snapshots to durable local storage.
type Store interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

// Profile aggregates the taste ledger, the dedup set, the blocked-tag set
// and the interest list for one user. It is safe for concurrent use:
// background refills and feed reads share it with the swipe path, so
// every access goes through the profile's own RWMutex.
type Profile struct {
	mu        sync.RWMutex
	ledger    *Ledger
	swiped    *DedupSet
	blocked   map[string]struct{}
	interests []string
	store     Store
}

// New returns an empty profile backed by store. A nil store keeps the
// profile memory-only (used by tests).
func New(store Store) *Profile {
	return &Profile{
		ledger:  NewLedger(),
		swiped:  NewDedupSet(),
		blocked: make(map[string]struct{}),
		store:   store,
	}
}

// Load hydrates the profile from the store, if a snapshot exists.
func Load(store Store) (*Profile, error) {
	p := New(store)
	if store == nil {
		return p, nil
	}
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	if snap != nil {
		p.ledger.restore(snap.TagScores)
		p.swiped.restore(snap.SwipedIDs)
		p.blocked = make(map[string]struct{}, len(snap.BlockedTags))
		for _, t := range snap.BlockedTags {
			p.blocked[t] = struct{}{}
		}
		p.interests = append([]string(nil), snap.Interests...)
	}
	return p, nil
}

// Adjust adds delta to the score of every tag on the product, then
// persists the whole profile. Persist failure is logged and swallowed.
func (p *Profile) Adjust(product catalog.Product, delta int) {
	p.mu.Lock()
	p.ledger.Adjust(product.Tags, delta)
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// AdjustTags applies a bulk tag adjustment (used when a completed room
// analysis is applied to the profile).
func (p *Profile) AdjustTags(tags []string, delta int) {
	p.mu.Lock()
	p.ledger.Adjust(tags, delta)
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// Score sums the ledger scores of the product's tags.
func (p *Profile) Score(product catalog.Product) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Score(product.Tags)
}

// MatchPercent is the user-facing confidence value for a product.
func (p *Profile) MatchPercent(product catalog.Product) int {
	return MatchPercent(p.Score(product))
}

// TagScore returns the raw ledger score for a single tag.
func (p *Profile) TagScore(tag string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.TagScore(tag)
}

// TopTags returns up to n tags with the strongest scores of the given
// sign, strongest first.
func (p *Profile) TopTags(sign, n int) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.TopTags(sign, n)
}

// Mark records a decided product ID and persists.
func (p *Profile) Mark(id string) {
	p.mu.Lock()
	p.swiped.Mark(id)
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// Unmark removes a product ID from the dedup set (undo path) and persists.
func (p *Profile) Unmark(id string) {
	p.mu.Lock()
	p.swiped.Unmark(id)
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// Seen reports whether the product ID was already decided on.
func (p *Profile) Seen(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.swiped.Seen(id)
}

// SwipedCount is the number of decided product IDs.
func (p *Profile) SwipedCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.swiped.Len()
}

// BlockTag suppresses a tag from future candidate pools.
func (p *Profile) BlockTag(tag string) {
	p.mu.Lock()
	p.blocked[tag] = struct{}{}
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// UnblockTag lifts a tag suppression.
func (p *Profile) UnblockTag(tag string) {
	p.mu.Lock()
	delete(p.blocked, tag)
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// IsBlocked reports whether any of the product's tags is blocked.
func (p *Profile) IsBlocked(product catalog.Product) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, t := range product.Tags {
		if _, ok := p.blocked[t]; ok {
			return true
		}
	}
	return false
}

// BlockedTags returns the blocked set as a slice (unordered).
func (p *Profile) BlockedTags() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.blockedLocked()
}

func (p *Profile) blockedLocked() []string {
	out := make([]string, 0, len(p.blocked))
	for t := range p.blocked {
		out = append(out, t)
	}
	return out
}

// Interests returns the current interest tags.
func (p *Profile) Interests() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.interests...)
}

// SetInterests replaces the interest tags and persists.
func (p *Profile) SetInterests(tags []string) {
	p.mu.Lock()
	p.interests = append([]string(nil), tags...)
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// MergeInterests adds any missing tags to the interest list and persists.
func (p *Profile) MergeInterests(tags []string) {
	p.mu.Lock()
	have := make(map[string]struct{}, len(p.interests))
	for _, t := range p.interests {
		have[t] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := have[t]; !ok {
			p.interests = append(p.interests, t)
			have[t] = struct{}{}
		}
	}
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// Reset clears the full profile: ledger, dedup set, blocked tags and
// interests.
func (p *Profile) Reset() {
	p.mu.Lock()
	p.ledger.reset()
	p.swiped.reset()
	p.blocked = make(map[string]struct{})
	p.interests = nil
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.persist(snap)
}

// Snapshot returns a copy of the current profile state.
func (p *Profile) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Profile) snapshotLocked() *Snapshot {
	return &Snapshot{
		TagScores:   p.ledger.snapshot(),
		SwipedIDs:   p.swiped.snapshot(),
		BlockedTags: p.blockedLocked(),
		Interests:   append([]string(nil), p.interests...),
	}
}

// persist runs outside the profile lock: the snapshot is already a
// private copy and the store write may hit disk.
func (p *Profile) persist(snap *Snapshot) {
	if p.store == nil {
		return
	}
	if err := p.store.Save(snap); err != nil {
		log.Printf("[PROFILE] persist failed (in-memory state kept): %v", err)
	}
}
