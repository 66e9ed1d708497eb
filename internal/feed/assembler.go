package feed

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/seligo-ai/seligo/internal/catalog"
	"github.com/seligo-ai/seligo/internal/profile"
)

// Tuning holds the feed constants. They are configuration, not law.
type Tuning struct {
	InitialPageSize int
	RefillPageSize  int
	RefillThreshold int
	MaxLoadItems    int
	MaxLoadAttempts int
}

func DefaultTuning() Tuning {
	return Tuning{
		InitialPageSize: 30,
		RefillPageSize:  20,
		RefillThreshold: 5,
		MaxLoadItems:    150,
		MaxLoadAttempts: 10,
	}
}

// Assembler maintains the candidate pool: an ordered, deduplicated queue
// of products awaiting a decision, plus the catalog continuation cursor.
type Assembler struct {
	catalog catalog.Catalog
	profile *profile.Profile
	tuning  Tuning

	mu        sync.Mutex
	pool      []catalog.Product
	poolIDs   map[string]struct{}
	cursor    string
	hasMore   bool
	readPos   int
	refilling bool
	gen       int
}

func NewAssembler(cat catalog.Catalog, prof *profile.Profile, tuning Tuning) *Assembler {
	return &Assembler{
		catalog: cat,
		profile: prof,
		tuning:  tuning,
		poolIDs: make(map[string]struct{}),
		hasMore: true,
	}
}

// LoadInitial clears the pool and cursor, then fetches pages until the
// catalog runs out or a safety cap is hit, filters each page through the
// dedup and blocked-tag sets, and ranks the accumulated result once.
// A fetch error leaves the prior pool and cursor untouched.
func (a *Assembler) LoadInitial(ctx context.Context, interests []string) error {
	var (
		items    []catalog.Product
		ids      = make(map[string]struct{})
		cursor   = ""
		hasMore  = true
		attempts = 0
	)

	for hasMore && attempts < a.tuning.MaxLoadAttempts && len(items) < a.tuning.MaxLoadItems {
		page, err := a.catalog.FetchPage(ctx, interests, a.tuning.InitialPageSize, cursor)
		if err != nil {
			return fmt.Errorf("initial load: %w", err)
		}
		attempts++
		items = a.filterInto(items, ids, page.Items)
		cursor = page.Cursor
		hasMore = page.HasMore
	}

	ranked := Rank(items, a.profile.Score)

	a.mu.Lock()
	a.pool = ranked
	a.poolIDs = ids
	a.cursor = cursor
	a.hasMore = hasMore
	a.readPos = 0
	a.gen++
	a.mu.Unlock()

	log.Printf("[FEED] initial load: %d candidates in %d pages (hasMore=%v)", len(ranked), attempts, hasMore)
	return nil
}

// Refill fetches one more page, filters it, ranks it and appends it to
// the tail of the pool without disturbing already-displayed order. At
// most one refill runs at a time; a request arriving while one is in
// flight is dropped. Refill is a no-op once the catalog is exhausted.
// A page fetched against a cursor that LoadInitial has since reset is
// discarded rather than appended to the fresh pool.
func (a *Assembler) Refill(ctx context.Context, interests []string) error {
	a.mu.Lock()
	if a.refilling || !a.hasMore {
		a.mu.Unlock()
		return nil
	}
	a.refilling = true
	cursor := a.cursor
	gen := a.gen
	a.mu.Unlock()

	page, err := a.catalog.FetchPage(ctx, interests, a.tuning.RefillPageSize, cursor)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.refilling = false
	if err != nil {
		return fmt.Errorf("refill: %w", err)
	}
	if gen != a.gen {
		log.Printf("[FEED] refill: dropping stale page (pool reloaded mid-fetch)")
		return nil
	}

	fresh := a.filterInto(nil, a.poolIDs, page.Items)
	ranked := Rank(fresh, a.profile.Score)
	a.pool = append(a.pool, ranked...)
	a.cursor = page.Cursor
	a.hasMore = page.HasMore

	log.Printf("[FEED] refill: +%d candidates (hasMore=%v)", len(ranked), page.HasMore)
	return nil
}

// MaybeRefill runs a refill when the number of undecided candidates has
// dropped to the threshold. Returns whether a refill was attempted.
func (a *Assembler) MaybeRefill(ctx context.Context, interests []string) (bool, error) {
	a.mu.Lock()
	needed := !a.refilling && a.hasMore && len(a.pool)-a.readPos <= a.tuning.RefillThreshold
	a.mu.Unlock()
	if !needed {
		return false, nil
	}
	return true, a.Refill(ctx, interests)
}

// filterInto appends the page items that pass the dedup set, the blocked
// tag set and the in-pool uniqueness check, updating ids as it goes.
func (a *Assembler) filterInto(dst []catalog.Product, ids map[string]struct{}, page []catalog.Product) []catalog.Product {
	for _, it := range page {
		if _, dup := ids[it.ID]; dup {
			continue
		}
		if a.profile.Seen(it.ID) || a.profile.IsBlocked(it) {
			continue
		}
		ids[it.ID] = struct{}{}
		dst = append(dst, it)
	}
	return dst
}

// Current returns the product at the read position, if any.
func (a *Assembler) Current() (catalog.Product, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.readPos >= len(a.pool) {
		return catalog.Product{}, false
	}
	return a.pool[a.readPos], true
}

// Advance moves the read position forward by one.
func (a *Assembler) Advance() {
	a.mu.Lock()
	a.readPos++
	a.mu.Unlock()
}

// Rewind moves the read position back by one, floored at zero.
func (a *Assembler) Rewind() {
	a.mu.Lock()
	if a.readPos > 0 {
		a.readPos--
	}
	a.mu.Unlock()
}

// Remaining is the count of undecided candidates left in the pool.
func (a *Assembler) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pool) - a.readPos
}

// Pool returns a copy of the current pool and the read position.
func (a *Assembler) Pool() ([]catalog.Product, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.Product(nil), a.pool...), a.readPos
}

// HasMore reports whether the catalog has further pages.
func (a *Assembler) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasMore
}
