package domain

// CartItem is one line in a session cart. The same product may appear more
// than once; each add appends a line.
type CartItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
}

// NewCartItem snapshots the fields of p a cart line needs.
func NewCartItem(p Product) CartItem {
	return CartItem{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.PrimaryImage(),
	}
}

// CartSummary is the read view of a cart.
type CartSummary struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total int64      `json:"total"`
}
