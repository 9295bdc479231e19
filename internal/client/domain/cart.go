package domain

// ItemKind classifies a purchasable SKU.
type ItemKind string

const (
	ItemKindPackage ItemKind = "package"
	ItemKindService ItemKind = "service"
	ItemKindEbook   ItemKind = "ebook"
)

// Valid reports whether k is one of the known kinds. Unknown kinds are
// dropped during cart deserialization rather than defaulted.
func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindPackage, ItemKindService, ItemKindEbook:
		return true
	}
	return false
}

// CartLine is one purchasable SKU with quantity in the local cart.
type CartLine struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Kind        ItemKind `json:"kind"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
}

// Total returns the line total (price times quantity).
func (l CartLine) Total() float64 {
	return l.Price * float64(l.Quantity)
}
