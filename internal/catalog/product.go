package catalog

// Product is a catalog item as shown in the discovery feed. The catalog
// owns products; the engine only reads copies.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`

	// Sponsored marks catalog-privileged items that rank ahead of
	// everything else regardless of taste score.
	Sponsored bool `json:"sponsored,omitempty"`

	// VariantID points at a specific purchasable variant, when one exists.
	VariantID int64 `json:"variantId,omitempty"`
}

// HasTag reports whether the product carries the given tag.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
