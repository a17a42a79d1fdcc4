package domain

import "strings"

// Product is a read-only catalog entry.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Price       int64    `json:"price" yaml:"price"`
	Images      []string `json:"images" yaml:"images"`
	Sizes       []string `json:"sizes" yaml:"sizes"`
	SKU         string   `json:"sku" yaml:"sku"`
	Material    string   `json:"material" yaml:"material"`
	Color       string   `json:"color" yaml:"color"`
	Stock       int      `json:"stock" yaml:"stock"`
	Category    string   `json:"category" yaml:"category"`
	Discount    *int     `json:"discount,omitempty" yaml:"discount,omitempty"`
}

// PrimaryImage returns the first product image or an empty string.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// OnSale reports whether the product carries a positive discount.
func (p Product) OnSale() bool {
	return p.Discount != nil && *p.Discount > 0
}

// MatchesSuggestion reports whether the lowercased needle is a substring of
// the product title, category, or SKU. needle must already be lowercased.
func (p Product) MatchesSuggestion(needle string) bool {
	return containsFold(p.Title, needle) ||
		containsFold(p.Category, needle) ||
		containsFold(p.SKU, needle)
}

// MatchesResults is the wider match used by the search results page:
// title, description, SKU, or category.
func (p Product) MatchesResults(needle string) bool {
	return containsFold(p.Title, needle) ||
		containsFold(p.Description, needle) ||
		containsFold(p.SKU, needle) ||
		containsFold(p.Category, needle)
}

// MatchesCollection is the match used by the collections filter:
// title, description, SKU, or color.
func (p Product) MatchesCollection(needle string) bool {
	return containsFold(p.Title, needle) ||
		containsFold(p.Description, needle) ||
		containsFold(p.SKU, needle) ||
		containsFold(p.Color, needle)
}

func containsFold(field, needle string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), needle)
}

// Collection sort options.
const (
	SortPopular   = "popular"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNew       = "new"
)

// ValidSortOptions returns the list of valid collection sort options.
func ValidSortOptions() []string {
	return []string{SortPopular, SortPriceAsc, SortPriceDesc, SortNew}
}

// IsValidSort checks whether the given sort string is a valid sort option.
func IsValidSort(sort string) bool {
	for _, s := range ValidSortOptions() {
		if s == sort {
			return true
		}
	}
	return false
}

// CollectionFilter holds the collections page filter state.
type CollectionFilter struct {
	Categories []string `json:"categories,omitempty"`
	Query      string   `json:"q,omitempty"`
	Sort       string   `json:"sort"`
}
