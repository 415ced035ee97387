package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/history"
)

// Action is the closed set of things that can be dispatched to a Store.
// Only types in this package implement it.
type Action interface {
	Type() string
	isAction()
}

type FetchItems struct{}

type AddToCart struct {
	Item     catalog.Product `json:"item"`
	Quantity int             `json:"quantity,omitempty"`
}

type Increment struct {
	Name string `json:"name"`
}

type Decrement struct {
	Name string `json:"name"`
}

type RemoveFromCart struct {
	ID catalog.ID `json:"id"`
}

type ClearCart struct{}

type AddPurchase struct {
	Record history.Record `json:"record"`
}

const (
	TypeFetchItems     = "items/fetchItems"
	TypeAddToCart      = "cart/addToCart"
	TypeIncrement      = "cart/increment"
	TypeDecrement      = "cart/decrement"
	TypeRemoveFromCart = "cart/removeFromCart"
	TypeClearCart      = "cart/clearCart"
	TypeAddPurchase    = "purchaseHistory/addPurchase"
)

func (FetchItems) Type() string     { return TypeFetchItems }
func (AddToCart) Type() string      { return TypeAddToCart }
func (Increment) Type() string      { return TypeIncrement }
func (Decrement) Type() string      { return TypeDecrement }
func (RemoveFromCart) Type() string { return TypeRemoveFromCart }
func (ClearCart) Type() string      { return TypeClearCart }
func (AddPurchase) Type() string    { return TypeAddPurchase }

func (FetchItems) isAction()     {}
func (AddToCart) isAction()      {}
func (Increment) isAction()      {}
func (Decrement) isAction()      {}
func (RemoveFromCart) isAction() {}
func (ClearCart) isAction()      {}
func (AddPurchase) isAction()    {}

var ErrUnknownAction = errors.New("unknown action type")

// DecodeAction builds an Action from its type tag and JSON payload. An empty
// payload is accepted for actions that carry none.
//
// addToCart accepts the product fields inline next to quantity, e.g.
// {"id":"1","name":"Samosa","category":"Veg","quantity":2}. Fields the
// product type does not name are kept in Product.Extra.
func DecodeAction(typ string, payload json.RawMessage) (Action, error) {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	switch typ {
	case TypeFetchItems:
		return FetchItems{}, nil
	case TypeClearCart:
		return ClearCart{}, nil
	case TypeAddToCart:
		var line cart.Item
		if err := json.Unmarshal(payload, &line); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		return AddToCart{Item: line.Product, Quantity: line.Quantity}, nil
	case TypeIncrement:
		var a Increment
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		return a, nil
	case TypeDecrement:
		var a Decrement
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		return a, nil
	case TypeRemoveFromCart:
		var a RemoveFromCart
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		return a, nil
	case TypeAddPurchase:
		// the whole payload is the record
		return AddPurchase{Record: append(history.Record(nil), payload...)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, typ)
	}
}
