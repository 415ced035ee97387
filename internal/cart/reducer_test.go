package cart

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
)

var (
	samosa = catalog.Product{ID: "1", Name: "Samosa", Category: catalog.CategoryVeg, Price: 2.5}
	tikka  = catalog.Product{ID: "2", Name: "Chicken Tikka", Category: catalog.CategoryNonVeg, Price: 9}
)

func TestAddMergesByName(t *testing.T) {
	s := NewState()
	s.Add(samosa, 0)
	s.Add(samosa, 0)

	require.Len(t, s.Items, 1)
	assert.Equal(t, Item{Product: samosa, Quantity: 2}, s.Items[0])
}

func TestAddSumsQuantitiesPerName(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	products := []catalog.Product{samosa, tikka, {ID: "3", Name: "Dal"}}
	want := map[string]int{}
	order := []string{}

	s := NewState()
	for i := 0; i < 200; i++ {
		p := products[rng.Intn(len(products))]
		q := rng.Intn(4) // 0 means the default of 1
		s.Add(p, q)

		if q == 0 {
			q = 1
		}
		if _, ok := want[p.Name]; !ok {
			order = append(order, p.Name)
		}
		want[p.Name] += q
	}

	require.Len(t, s.Items, len(want))
	for i, it := range s.Items {
		assert.Equal(t, order[i], it.Name, "insertion order")
		assert.Equal(t, want[it.Name], it.Quantity, "quantity for %s", it.Name)
	}
}

func TestAddExplicitQuantity(t *testing.T) {
	s := NewState()
	s.Add(tikka, 3)
	s.Add(tikka, 2)
	s.Add(samosa, -4)

	require.Len(t, s.Items, 2)
	assert.Equal(t, 5, s.Items[0].Quantity)
	assert.Equal(t, 1, s.Items[1].Quantity)
	assert.Equal(t, 6, s.TotalQuantity())
	assert.InDelta(t, 47.5, s.Total(), 1e-9)
}

func TestIncrementDecrement(t *testing.T) {
	s := NewState()
	s.Add(samosa, 1)

	s.Increment("Samosa")
	s.Increment("Samosa")
	assert.Equal(t, 3, s.Items[0].Quantity)

	s.Decrement("Samosa")
	assert.Equal(t, 2, s.Items[0].Quantity)

	s.Decrement("Samosa")
	s.Decrement("Samosa")
	s.Decrement("Samosa")
	assert.Equal(t, 1, s.Items[0].Quantity, "decrement stops at 1")

	s.Increment("Samosa")
	s.Decrement("Samosa")
	assert.Equal(t, 1, s.Items[0].Quantity)
}

func TestIncrementDecrementUnknownNameIsNoop(t *testing.T) {
	s := NewState()
	s.Add(samosa, 2)
	before := s.Clone()

	s.Increment("Biryani")
	s.Decrement("Biryani")

	assert.Equal(t, before, s)
}

func TestRemoveByID(t *testing.T) {
	s := NewState()
	s.Add(samosa, 1)
	s.Add(tikka, 1)

	s.Remove("1")
	once := s.Clone()
	s.Remove("1")

	require.Len(t, s.Items, 1)
	assert.Equal(t, "Chicken Tikka", s.Items[0].Name)
	assert.Equal(t, once, s, "remove is idempotent")
}

func TestRemoveMatchesIDNotName(t *testing.T) {
	s := NewState()
	s.Add(catalog.Product{Name: "Samosa"}, 1)

	s.Remove("Samosa")
	assert.Len(t, s.Items, 1, "lines without an id are never matched by name")

	s.Remove("")
	assert.Empty(t, s.Items)
}

func TestClear(t *testing.T) {
	for _, s := range []State{NewState(), {}, {Items: []Item{{Product: samosa, Quantity: 4}}}} {
		s.Clear()
		assert.NotNil(t, s.Items)
		assert.Empty(t, s.Items)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewState()
	s.Add(samosa, 1)

	c := s.Clone()
	c.Increment("Samosa")

	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestItemJSONCarriesProductFields(t *testing.T) {
	var p catalog.Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"Samosa","category":"Veg","spicy":true}`), &p))

	s := NewState()
	s.Add(p, 2)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"1","name":"Samosa","category":"Veg","spicy":true,"quantity":2}]}`, string(out))

	var back State
	require.NoError(t, json.Unmarshal(out, &back))
	require.Len(t, back.Items, 1)
	assert.Equal(t, 2, back.Items[0].Quantity)
	assert.Equal(t, json.RawMessage(`true`), back.Items[0].Extra["spicy"])
	assert.NotContains(t, back.Items[0].Extra, "quantity")
}

func TestAddCopiesExtraFields(t *testing.T) {
	p := catalog.Product{Name: "Samosa", Extra: map[string]json.RawMessage{"spicy": json.RawMessage(`true`)}}

	s := NewState()
	s.Add(p, 1)
	p.Extra["spicy"] = json.RawMessage(`false`)

	assert.Equal(t, json.RawMessage(`true`), s.Items[0].Extra["spicy"])
}
