package catalog

// State is the catalog slice of the storefront state.
//
// Invariants: Status succeeded implies Error == nil, Status failed implies
// Error != nil, and Veg/NonVeg only change on a succeeded transition.
type State struct {
	Veg    []Product `json:"veg"`
	NonVeg []Product `json:"nonVeg"`
	Status Status    `json:"status"`
	Error  *string   `json:"error"`
}

func NewState() State {
	return State{Veg: []Product{}, NonVeg: []Product{}, Status: StatusIdle}
}

// Pending marks a fetch as started and clears any previous error.
func (s State) Pending() State {
	s.Status = StatusLoading
	s.Error = nil
	return s
}

func (s State) Fulfilled(p Partition) State {
	s.Veg = p.Veg
	s.NonVeg = p.NonVeg
	s.Status = StatusSucceeded
	s.Error = nil
	return s
}

// Rejected records a failed fetch. The product lists are left as they were.
func (s State) Rejected(err error) State {
	msg := err.Error()
	s.Status = StatusFailed
	s.Error = &msg
	return s
}

// Clone returns a copy that shares no slices or pointers with s.
func (s State) Clone() State {
	out := s
	out.Veg = cloneProducts(s.Veg)
	out.NonVeg = cloneProducts(s.NonVeg)
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	return out
}

func cloneProducts(ps []Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
