package cart

import "github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"

// The reducers below are total: they never fail and mutate s in place.
// add, increment and decrement match lines by product name while remove
// matches by product id.

// Add merges quantity into the line with the same name or appends a new line.
// A quantity below 1 counts as 1.
func (s *State) Add(p catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if i := s.Find(p.Name); i >= 0 {
		s.Items[i].Quantity += quantity
		return
	}
	s.Items = append(s.Items, Item{Product: p.Clone(), Quantity: quantity})
}

func (s *State) Increment(name string) {
	if i := s.Find(name); i >= 0 {
		s.Items[i].Quantity++
	}
}

// Decrement never takes a line below quantity 1.
func (s *State) Decrement(name string) {
	if i := s.Find(name); i >= 0 && s.Items[i].Quantity > 1 {
		s.Items[i].Quantity--
	}
}

// Remove drops every line whose product id equals id.
func (s *State) Remove(id catalog.ID) {
	kept := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.Items = kept
}

func (s *State) Clear() {
	s.Items = []Item{}
}
