package catalog

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := map[string]struct {
		products   []Product
		wantVeg    []string
		wantNonVeg []string
	}{
		"mixed categories": {
			products: []Product{
				{Name: "Samosa", Category: CategoryVeg},
				{Name: "Chicken Tikka", Category: CategoryNonVeg},
				{Name: "Paneer Roll", Category: CategoryVeg},
			},
			wantVeg:    []string{"Samosa", "Paneer Roll"},
			wantNonVeg: []string{"Chicken Tikka"},
		},
		"unknown category dropped": {
			products: []Product{
				{Name: "Lassi", Category: "Drinks"},
				{Name: "Dal", Category: CategoryVeg},
			},
			wantVeg:    []string{"Dal"},
			wantNonVeg: []string{},
		},
		"match is case sensitive": {
			products: []Product{
				{Name: "Dal", Category: "veg"},
				{Name: "Fish", Category: "non-veg"},
			},
			wantVeg:    []string{},
			wantNonVeg: []string{},
		},
		"empty input": {
			wantVeg:    []string{},
			wantNonVeg: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := Split(tt.products)
			if got := names(p.Veg); !reflect.DeepEqual(got, tt.wantVeg) {
				t.Fatalf("veg=%v want=%v", got, tt.wantVeg)
			}
			if got := names(p.NonVeg); !reflect.DeepEqual(got, tt.wantNonVeg) {
				t.Fatalf("nonVeg=%v want=%v", got, tt.wantNonVeg)
			}
		})
	}
}

func TestStateTransitions(t *testing.T) {
	s := NewState()
	if s.Status != StatusIdle || s.Error != nil {
		t.Fatalf("unexpected initial state: %+v", s)
	}

	s = s.Pending()
	if s.Status != StatusLoading || s.Error != nil {
		t.Fatalf("pending: %+v", s)
	}

	s = s.Fulfilled(Split([]Product{{Name: "Samosa", Category: CategoryVeg}}))
	if s.Status != StatusSucceeded || s.Error != nil || len(s.Veg) != 1 {
		t.Fatalf("fulfilled: %+v", s)
	}

	s = s.Pending().Rejected(errors.New("network down"))
	if s.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", s.Status)
	}
	if s.Error == nil || *s.Error != "network down" {
		t.Fatalf("unexpected error message: %v", s.Error)
	}
	if len(s.Veg) != 1 || s.Veg[0].Name != "Samosa" {
		t.Fatalf("lists should survive a failed fetch: %+v", s.Veg)
	}

	s = s.Pending()
	if s.Error != nil {
		t.Fatalf("pending should clear the previous error")
	}
}

func TestStateClone(t *testing.T) {
	msg := "boom"
	s := State{Veg: []Product{{Name: "Dal"}}, Status: StatusFailed, Error: &msg}

	c := s.Clone()
	c.Veg[0].Name = "changed"
	*c.Error = "changed"

	if s.Veg[0].Name != "Dal" || *s.Error != "boom" {
		t.Fatalf("clone shares memory with original: %+v", s)
	}
	if c.NonVeg == nil {
		t.Fatalf("clone should normalize nil slices")
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := error(NewFetchError(cause))

	if !errors.Is(err, cause) {
		t.Fatalf("expected FetchError to unwrap to cause")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected errors.As to find *FetchError")
	}
	if err.Error() != cause.Error() {
		t.Fatalf("message=%q want=%q", err.Error(), cause.Error())
	}
}

func names(ps []Product) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}
