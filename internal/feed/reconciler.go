package feed

import (
	"errors"
	"log"

	"github.com/seligo-ai/seligo/internal/catalog"
	"github.com/seligo-ai/seligo/internal/profile"
)

type Direction string

const (
	DirectionPass Direction = "pass"
	DirectionLike Direction = "like"
)

type SubAction string

const (
	SubActionNone SubAction = "none"
	SubActionSave SubAction = "save"
	SubActionBag  SubAction = "bag"
)

var (
	// ErrNoCurrentItem means the pool is exhausted at the read position.
	ErrNoCurrentItem = errors.New("no current item")
	// ErrLikePending means a like is awaiting its save/bag sub-decision.
	ErrLikePending = errors.New("like awaiting save or bag")
	// ErrNoLikePending means Resolve or CancelLike was called outside the
	// like sub-decision.
	ErrNoLikePending = errors.New("no like pending")
)

// DecisionRecord is one undoable decision.
type DecisionRecord struct {
	Item      catalog.Product `json:"item"`
	Direction Direction       `json:"direction"`
	SubAction SubAction       `json:"subAction"`
}

// Reconciler applies swipe decisions to the ledger, the dedup set and the
// undo stack. Per item the states are Pending -> Decided(pass|like) ->
// Resolved(save|bag); a like blocks further decisions until resolved or
// cancelled. The undo stack lives for the session only.
type Reconciler struct {
	profile   *profile.Profile
	assembler *Assembler

	undo        []DecisionRecord
	pendingLike *catalog.Product
	saved       []catalog.Product
	bagged      []catalog.Product
}

func NewReconciler(prof *profile.Profile, asm *Assembler) *Reconciler {
	return &Reconciler{profile: prof, assembler: asm}
}

// Pass decides against the current item: -1 per tag, dedup mark, undo
// entry, read position advance.
func (r *Reconciler) Pass() (catalog.Product, error) {
	if r.pendingLike != nil {
		return catalog.Product{}, ErrLikePending
	}
	item, ok := r.assembler.Current()
	if !ok {
		return catalog.Product{}, ErrNoCurrentItem
	}

	r.profile.Adjust(item, PassDelta)
	r.profile.Mark(item.ID)
	r.undo = append(r.undo, DecisionRecord{Item: item, Direction: DirectionPass, SubAction: SubActionNone})
	r.assembler.Advance()
	return item, nil
}

// Like opens the save/bag sub-decision for the current item. No ledger or
// dedup effect is applied until the sub-decision resolves, and the read
// position does not advance.
func (r *Reconciler) Like() (catalog.Product, error) {
	if r.pendingLike != nil {
		return catalog.Product{}, ErrLikePending
	}
	item, ok := r.assembler.Current()
	if !ok {
		return catalog.Product{}, ErrNoCurrentItem
	}
	r.pendingLike = &item
	return item, nil
}

// Resolve completes a pending like with save or bag: +2 per tag, dedup
// mark, undo entry, read position advance.
func (r *Reconciler) Resolve(sub SubAction) (catalog.Product, error) {
	if r.pendingLike == nil {
		return catalog.Product{}, ErrNoLikePending
	}
	if sub != SubActionSave && sub != SubActionBag {
		return catalog.Product{}, errors.New("sub-action must be save or bag")
	}
	item := *r.pendingLike
	r.pendingLike = nil

	r.profile.Adjust(item, LikeDelta)
	r.profile.Mark(item.ID)
	r.undo = append(r.undo, DecisionRecord{Item: item, Direction: DirectionLike, SubAction: sub})
	if sub == SubActionSave {
		r.saved = append(r.saved, item)
	} else {
		r.bagged = append(r.bagged, item)
	}
	r.assembler.Advance()
	return item, nil
}

// CancelLike abandons an open sub-decision, returning the item to
// Pending with no side effects.
func (r *Reconciler) CancelLike() error {
	if r.pendingLike == nil {
		return ErrNoLikePending
	}
	r.pendingLike = nil
	return nil
}

// Undo pops the most recent decision and exactly reverses its ledger and
// dedup effects, then rewinds the read position by one. An open like
// sub-decision is cancelled instead of popping. No-op on an empty stack.
func (r *Reconciler) Undo() (*DecisionRecord, error) {
	if r.pendingLike != nil {
		r.pendingLike = nil
		return nil, nil
	}
	if len(r.undo) == 0 {
		return nil, nil
	}
	rec := r.undo[len(r.undo)-1]
	r.undo = r.undo[:len(r.undo)-1]

	switch rec.Direction {
	case DirectionPass:
		r.profile.Adjust(rec.Item, UndoPassDelta)
	case DirectionLike:
		r.profile.Adjust(rec.Item, UndoLikeDelta)
		if rec.SubAction == SubActionSave {
			r.saved = removeProduct(r.saved, rec.Item.ID)
		} else {
			r.bagged = removeProduct(r.bagged, rec.Item.ID)
		}
	}
	r.profile.Unmark(rec.Item.ID)
	r.assembler.Rewind()

	log.Printf("[FEED] undo %s on %s", rec.Direction, rec.Item.ID)
	return &rec, nil
}

// PendingLike returns the item awaiting save/bag, if any.
func (r *Reconciler) PendingLike() (catalog.Product, bool) {
	if r.pendingLike == nil {
		return catalog.Product{}, false
	}
	return *r.pendingLike, true
}

// Saved returns the wishlist in decision order.
func (r *Reconciler) Saved() []catalog.Product {
	return append([]catalog.Product(nil), r.saved...)
}

// Bagged returns the bag in decision order.
func (r *Reconciler) Bagged() []catalog.Product {
	return append([]catalog.Product(nil), r.bagged...)
}

// UndoDepth is the number of undoable decisions.
func (r *Reconciler) UndoDepth() int {
	return len(r.undo)
}

func removeProduct(items []catalog.Product, id string) []catalog.Product {
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].ID == id {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
