package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/history"
)

// State is a snapshot of the whole storefront state tree.
type State struct {
	Items           catalog.State `json:"items"`
	Cart            cart.State    `json:"cart"`
	PurchaseHistory history.State `json:"purchaseHistory"`
}

func (s State) clone() State {
	return State{
		Items:           s.Items.Clone(),
		Cart:            s.Cart.Clone(),
		PurchaseHistory: s.PurchaseHistory.Clone(),
	}
}

type Listener func(State)

// Store owns the catalog, cart and purchase history containers. Every
// mutation runs under mu; a fetch drops the lock while waiting on the lister
// so other actions, including further fetches, can run in the meantime.
type Store struct {
	lister catalog.Lister
	logger *zap.Logger
	debug  bool

	mu      sync.Mutex
	state   State
	version uint64

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int

	// notifyMu guards the delivery queue. Snapshots reach listeners one at a
	// time in version order.
	notifyMu  sync.Mutex
	pending   map[uint64]State
	delivered uint64
	draining  bool
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDebug turns on per-action instrumentation at debug level.
func WithDebug(enabled bool) Option {
	return func(s *Store) { s.debug = enabled }
}

func New(lister catalog.Lister, opts ...Option) *Store {
	s := &Store{
		lister: lister,
		logger: zap.NewNop(),
		state: State{
			Items:           catalog.NewState(),
			Cart:            cart.NewState(),
			PurchaseHistory: history.NewState(),
		},
		listeners: make(map[int]Listener),
		pending:   make(map[uint64]State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers l to be called after every state change. The returned
// func removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// Dispatch applies a. Only FetchItems blocks or returns an error; the cart and
// history actions are applied synchronously and always succeed.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	switch a := a.(type) {
	case FetchItems:
		_, err := s.FetchItems(ctx)
		return err
	case AddToCart:
		s.update(a, func(st *State) { st.Cart.Add(a.Item, a.Quantity) })
	case Increment:
		s.update(a, func(st *State) { st.Cart.Increment(a.Name) })
	case Decrement:
		s.update(a, func(st *State) { st.Cart.Decrement(a.Name) })
	case RemoveFromCart:
		s.update(a, func(st *State) { st.Cart.Remove(a.ID) })
	case ClearCart:
		s.update(a, func(st *State) { st.Cart.Clear() })
	case AddPurchase:
		s.AddPurchase(a.Record)
	default:
		panic(fmt.Sprintf("store: unhandled action %T", a))
	}
	return nil
}

// AddPurchase appends record to the purchase history and returns the position
// it was stored at.
func (s *Store) AddPurchase(record history.Record) int {
	var position int
	s.update(AddPurchase{Record: record}, func(st *State) {
		st.PurchaseHistory.Add(record)
		position = st.PurchaseHistory.Len() - 1
	})
	return position
}

// FetchItems runs the fetch lifecycle: loading, then succeeded or failed.
// On failure the lister error is returned as a *catalog.FetchError and its
// message is also recorded in the catalog state.
func (s *Store) FetchItems(ctx context.Context) (catalog.Partition, error) {
	s.update(FetchItems{}, func(st *State) { st.Items = st.Items.Pending() })

	products, err := s.lister.ListProducts(ctx)
	if err != nil {
		fetchErr := catalog.NewFetchError(err)
		s.logger.Error("fetch items failed", zap.Error(err))
		s.update(FetchItems{}, func(st *State) { st.Items = st.Items.Rejected(fetchErr) })
		return catalog.Partition{}, fetchErr
	}

	p := catalog.Split(products)
	if s.debug {
		s.logger.Debug("fetched items",
			zap.Int("total", len(products)),
			zap.Int("veg", len(p.Veg)),
			zap.Int("nonVeg", len(p.NonVeg)),
		)
	}
	s.update(FetchItems{}, func(st *State) { st.Items = st.Items.Fulfilled(p) })
	return p, nil
}

// FetchItemsAsync starts a fetch in its own goroutine. The channel receives
// the outcome once and is then closed.
func (s *Store) FetchItemsAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := s.FetchItems(ctx)
		done <- err
	}()
	return done
}

func (s *Store) update(a Action, fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.version++
	ver := s.version
	snap := s.state.clone()
	s.mu.Unlock()

	if s.debug {
		s.logger.Debug("action applied",
			zap.String("type", a.Type()),
			zap.String("itemsStatus", string(snap.Items.Status)),
			zap.Int("cartLines", len(snap.Cart.Items)),
			zap.Int("cartQuantity", snap.Cart.TotalQuantity()),
			zap.Int("purchases", snap.PurchaseHistory.Len()),
		)
	}
	s.notify(ver, snap)
}

// notify queues the snapshot for version ver. Whichever caller finds the queue
// idle drains it, handing out versions strictly in order; a version that is
// still in flight holds back the later ones until its own update queues it.
// Listeners may dispatch: the nested update only queues its snapshot.
func (s *Store) notify(ver uint64, snap State) {
	s.notifyMu.Lock()
	s.pending[ver] = snap
	if s.draining {
		s.notifyMu.Unlock()
		return
	}
	s.draining = true

	defer func() {
		if r := recover(); r != nil {
			s.notifyMu.Lock()
			s.draining = false
			s.notifyMu.Unlock()
			panic(r)
		}
	}()

	for {
		next, ok := s.pending[s.delivered+1]
		if !ok {
			s.draining = false
			s.notifyMu.Unlock()
			return
		}
		delete(s.pending, s.delivered+1)
		s.delivered++
		s.notifyMu.Unlock()

		for _, l := range s.snapshotListeners() {
			l(next.clone())
		}

		s.notifyMu.Lock()
	}
}

func (s *Store) snapshotListeners() []Listener {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	return ls
}
