package domain

import (
	"fmt"
	"net/url"
)

// DestinationKind identifies the view a navigation targets.
type DestinationKind string

const (
	DestinationResults DestinationKind = "results"
	DestinationProduct DestinationKind = "product"
)

// Destination is a navigation target handed to a Navigator.
type Destination struct {
	Kind      DestinationKind `json:"kind"`
	Term      string          `json:"term,omitempty"`
	ProductID string          `json:"product_id,omitempty"`
}

// Results builds a destination for the search results view.
func Results(term string) Destination {
	return Destination{Kind: DestinationResults, Term: term}
}

// ProductDetail builds a destination for a product detail view.
func ProductDetail(id string) Destination {
	return Destination{Kind: DestinationProduct, ProductID: id}
}

// Path renders the destination as a client route.
func (d Destination) Path() string {
	switch d.Kind {
	case DestinationResults:
		return "/search?q=" + url.QueryEscape(d.Term)
	case DestinationProduct:
		return "/product/" + url.PathEscape(d.ProductID)
	default:
		return "/"
	}
}

func (d Destination) String() string {
	return fmt.Sprintf("%s %s", d.Kind, d.Path())
}
