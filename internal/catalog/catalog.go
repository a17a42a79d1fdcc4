// Package catalog is the read-only product source the storefront engines
// consume. The default catalog is seeded from an embedded YAML document.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

//go:embed catalog.yaml
var seed []byte

// Provider exposes a static, ordered product list.
type Provider interface {
	Products() []domain.Product
	Get(id string) (domain.Product, bool)
}

// Static is an immutable in-memory catalog. It is safe for concurrent use.
type Static struct {
	products []domain.Product
	slides   []domain.Slide
	byID     map[string]int
}

type document struct {
	Slides   []domain.Slide   `yaml:"slides"`
	Products []domain.Product `yaml:"products"`
}

// New builds a catalog from products and home slides. Inputs are copied.
func New(products []domain.Product, slides []domain.Slide) (*Static, error) {
	s := &Static{
		products: append([]domain.Product(nil), products...),
		slides:   append([]domain.Slide(nil), slides...),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range s.products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("catalog: product at position %d has no id", i)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		s.byID[p.ID] = i
	}
	return s, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Static, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Products, doc.Slides)
}

// Default returns the embedded storefront catalog.
func Default() (*Static, error) {
	return Parse(seed)
}

// Products returns the catalog in its canonical order.
func (s *Static) Products() []domain.Product {
	return append([]domain.Product(nil), s.products...)
}

// Get looks a product up by id.
func (s *Static) Get(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Slides returns the home page carousel slides.
func (s *Static) Slides() []domain.Slide {
	return append([]domain.Slide(nil), s.slides...)
}

// Featured returns the first n products.
func (s *Static) Featured(n int) []domain.Product {
	if n > len(s.products) {
		n = len(s.products)
	}
	if n < 0 {
		n = 0
	}
	return append([]domain.Product(nil), s.products[:n]...)
}

// OnSale returns the discounted products in catalog order.
func (s *Static) OnSale() []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.OnSale() {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (s *Static) Categories() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// Results returns every product whose title, description, SKU or category
// contains q, case-insensitively. An empty query yields no results.
func (s *Static) Results(q string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Product, 0)
	if needle == "" {
		return out
	}
	for _, p := range s.products {
		if p.MatchesResults(needle) {
			out = append(out, p)
		}
	}
	return out
}

// Browse applies the collections filter: category membership (names or
// slugs), a free-text match over title, description, SKU and color, then
// the requested sort. Unknown sorts keep catalog order.
func (s *Static) Browse(f domain.CollectionFilter) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if len(f.Categories) > 0 && !inCategories(p.Category, f.Categories) {
			continue
		}
		if needle != "" && !p.MatchesCollection(needle) {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, f.Sort)
	return out
}

func inCategories(category string, wanted []string) bool {
	for _, c := range wanted {
		if c == category || slug.Matches(category, c) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, sortBy string) {
	switch sortBy {
	case domain.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case domain.SortNew:
		sort.SliceStable(products, func(i, j int) bool {
			return idRank(products[i].ID) > idRank(products[j].ID)
		})
	default:
		// SortPopular keeps catalog order.
	}
}

// idRank orders numeric ids numerically; non-numeric ids sort last.
func idRank(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return -1
	}
	return n
}
