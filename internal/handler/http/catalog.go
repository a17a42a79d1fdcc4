package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/slug"
)

// Catalog is the catalog the HTTP API serves.
type Catalog interface {
	session.Catalog
	Browse(filter domain.CollectionFilter) []domain.Product
	Results(q string) []domain.Product
	Featured(n int) []domain.Product
	OnSale() []domain.Product
	Categories() []string
}

// featuredCount is how many leading catalog products the home page features.
const featuredCount = 6

// CatalogHandler serves read-only catalog endpoints.
type CatalogHandler struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		logger:  logger,
	}
}

// SearchResults is the response of the search results page.
type SearchResults struct {
	Query    string           `json:"query"`
	Count    int              `json:"count"`
	Products []domain.Product `json:"products"`
}

// Home is the home page payload.
type Home struct {
	Slides   []domain.Slide   `json:"slides"`
	OnSale   []domain.Product `json:"on_sale"`
	Featured []domain.Product `json:"featured"`
}

// Category is a browsable collection with its URL slug.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy := q.Get("sort")
	if sortBy == "" {
		sortBy = domain.SortPopular
	}
	if !domain.IsValidSort(sortBy) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "sort must be one of: " + strings.Join(domain.ValidSortOptions(), ", "),
			},
		})
		return
	}

	var categories []string
	for _, v := range q["category"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
	}

	products := h.catalog.Browse(domain.CollectionFilter{
		Categories: categories,
		Query:      q.Get("q"),
		Sort:       sortBy,
	})
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.Paginate(products, pagination.FromRequest(r)),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.catalog.Get(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p})
}

// Search handles GET /api/v1/search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	products := h.catalog.Results(query)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SearchResults{Query: query, Count: len(products), Products: products},
	})
}

// ListSlides handles GET /api/v1/slides
func (h *CatalogHandler) ListSlides(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.catalog.Slides()})
}

// Home handles GET /api/v1/home
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: Home{
		Slides:   h.catalog.Slides(),
		OnSale:   h.catalog.OnSale(),
		Featured: h.catalog.Featured(featuredCount),
	}})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names := h.catalog.Categories()
	out := make([]Category, 0, len(names))
	for _, name := range names {
		out = append(out, Category{Name: name, Slug: slug.Generate(name)})
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}
