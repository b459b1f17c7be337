package models

// CartLine is one (item, quantity, instructions) tuple in a session cart.
// Quantity is always >= 1 while the line exists.
type CartLine struct {
	ItemID              string      `json:"itemId"`
	Item                CatalogItem `json:"item"`
	Quantity            int         `json:"quantity"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
}

// Cart is the whole-document shape persisted per session. Lines keep
// insertion order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// TotalItems is the sum of line quantities.
func (c Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of price*quantity over all lines. Unrounded;
// callers round at display and payload edges.
func (c Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.Lines {
		total += l.Item.Price * float64(l.Quantity)
	}
	return total
}
