package search

import (
	"strings"

	"github.com/utafrali/storefront/internal/domain"
)

// Dropdown sections.
const (
	SectionRecommendations = "recommendations"
	SectionRecent          = "recent"
)

// Dropdown is the rendered state of the suggestion dropdown.
type Dropdown struct {
	Open        bool             `json:"open"`
	Query       string           `json:"query"`
	Section     string           `json:"section"`
	Pending     bool             `json:"pending"`
	Suggestions []domain.Product `json:"suggestions"`
	NoMatches   bool             `json:"no_matches"`
	History     []string         `json:"history"`
	Featured    []domain.Product `json:"featured"`
}

// Dropdown renders the dropdown. With a non-blank query it shows the
// recommendations for that query (or a no-matches hint once the debounced
// computation found nothing). With a blank query it shows recent searches and
// the first FeaturedCount catalog products as featured picks.
func (e *Engine) Dropdown() Dropdown {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := Dropdown{
		Open:        e.open,
		Query:       e.query,
		Pending:     e.debounce.Armed(),
		Suggestions: append([]domain.Product{}, e.suggestions...),
		History:     append([]string{}, e.history...),
		Featured:    []domain.Product{},
	}
	needle := strings.ToLower(strings.TrimSpace(e.query))
	if needle != "" {
		d.Section = SectionRecommendations
		d.NoMatches = !d.Pending && e.computed == needle && len(e.suggestions) == 0
		return d
	}

	d.Section = SectionRecent
	if len(e.suggestions) == 0 {
		products := e.cat.Products()
		if len(products) > FeaturedCount {
			products = products[:FeaturedCount]
		}
		d.Featured = products
	}
	return d
}
