package domain

// Selection identifies what a cart line is for: either a catalog product or a
// user-assembled custom configuration. Callers switch exhaustively over the
// two concrete types.
type Selection interface {
	isSelection()
}

// CatalogSelection references a catalog product by id.
type CatalogSelection struct {
	ProductID string
}

func (CatalogSelection) isSelection() {}

// CustomSelection is a user-assembled product: flavor + size, an optional
// filling and a set of toppings. Topping order is irrelevant to pricing and
// duplicates are rejected.
type CustomSelection struct {
	FlavorID   string
	SizeID     string
	FillingID  *string
	ToppingIDs []string
}

func (CustomSelection) isSelection() {}
