package profile

// DedupSet tracks product IDs the user has already decided on. It grows
// on decisions and shrinks only when a decision is undone.
type DedupSet struct {
	ids map[string]struct{}
}

func NewDedupSet() *DedupSet {
	return &DedupSet{ids: make(map[string]struct{})}
}

func (d *DedupSet) Seen(id string) bool {
	_, ok := d.ids[id]
	return ok
}

func (d *DedupSet) Mark(id string) {
	d.ids[id] = struct{}{}
}

func (d *DedupSet) Unmark(id string) {
	delete(d.ids, id)
}

func (d *DedupSet) Len() int {
	return len(d.ids)
}

func (d *DedupSet) snapshot() []string {
	out := make([]string, 0, len(d.ids))
	for id := range d.ids {
		out = append(out, id)
	}
	return out
}

func (d *DedupSet) restore(ids []string) {
	d.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		d.ids[id] = struct{}{}
	}
}

func (d *DedupSet) reset() {
	d.ids = make(map[string]struct{})
}
