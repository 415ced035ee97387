package catalog

import (
	"context"
	"encoding/json"
)

const (
	CategoryVeg    = "Veg"
	CategoryNonVeg = "Non-Veg"
)

type Product struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`

	// Extra holds any other fields the listing sent. They are kept and
	// written back out next to the known ones.
	Extra map[string]json.RawMessage `json:"-"`
}

// Lister is the remote product-listing collaborator the fetch reads from.
type Lister interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// ListerFunc adapts a plain function to Lister.
type ListerFunc func(ctx context.Context) ([]Product, error)

func (f ListerFunc) ListProducts(ctx context.Context) ([]Product, error) {
	return f(ctx)
}

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Partition is the result of a successful fetch.
type Partition struct {
	Veg    []Product `json:"veg"`
	NonVeg []Product `json:"nonVeg"`
}

// Split partitions products by exact category match. Products in any other
// category are dropped.
func Split(products []Product) Partition {
	p := Partition{Veg: []Product{}, NonVeg: []Product{}}
	for _, it := range products {
		switch it.Category {
		case CategoryVeg:
			p.Veg = append(p.Veg, it.Clone())
		case CategoryNonVeg:
			p.NonVeg = append(p.NonVeg, it.Clone())
		}
	}
	return p
}
