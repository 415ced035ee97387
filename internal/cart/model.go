package cart

import (
	"encoding/json"
	"strings"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
)

// Item is a cart line: every field of the product plus a quantity.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// MarshalJSON flattens the product and its extra fields next to quantity.
func (it Item) MarshalJSON() ([]byte, error) {
	p := it.Product
	p.Extra = make(map[string]json.RawMessage, len(it.Extra)+1)
	for k, v := range it.Extra {
		p.Extra[k] = v
	}
	q, err := json.Marshal(it.Quantity)
	if err != nil {
		return nil, err
	}
	p.Extra["quantity"] = q
	return json.Marshal(p)
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var p catalog.Product
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var q struct {
		Quantity int `json:"quantity"`
	}
	if err := json.Unmarshal(b, &q); err != nil {
		return err
	}
	for k := range p.Extra {
		if strings.EqualFold(k, "quantity") {
			delete(p.Extra, k)
		}
	}
	if len(p.Extra) == 0 {
		p.Extra = nil
	}
	*it = Item{Product: p, Quantity: q.Quantity}
	return nil
}

// State is the cart slice of the storefront state. Items keep insertion order.
type State struct {
	Items []Item `json:"items"`
}

func NewState() State {
	return State{Items: []Item{}}
}

func (s State) Clone() State {
	items := make([]Item, len(s.Items))
	for i, it := range s.Items {
		items[i] = Item{Product: it.Product.Clone(), Quantity: it.Quantity}
	}
	return State{Items: items}
}

// Find returns the index of the line item with the given name, or -1.
func (s State) Find(name string) int {
	for i := range s.Items {
		if s.Items[i].Name == name {
			return i
		}
	}
	return -1
}

// TotalQuantity sums quantities across all lines.
func (s State) TotalQuantity() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func (s State) Total() float64 {
	total := 0.0
	for _, it := range s.Items {
		total += float64(it.Quantity) * it.Price
	}
	return total
}
