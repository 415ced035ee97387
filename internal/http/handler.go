package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/history"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/store"
)

const maxBodyBytes = 1 << 20

type StateStore interface {
	State() store.State
	Dispatch(ctx context.Context, a store.Action) error
	AddPurchase(record history.Record) int
}

type PurchasePublisher interface {
	PublishPurchaseRecorded(ctx context.Context, meta events.EventMeta, position int, record json.RawMessage) error
}

type Handler struct {
	store     StateStore
	publisher PurchasePublisher
	logger    *zap.Logger

	// background fetches outlive the request that started them
	baseCtx context.Context
}

// NewHandler wires the HTTP surface to s. publisher may be nil, in which case
// purchases are recorded without emitting events.
func NewHandler(s StateStore, publisher PurchasePublisher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: s, publisher: publisher, logger: logger, baseCtx: context.Background()}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront-state"})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State())
}

func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State().Items)
}

// FetchItems starts a catalog fetch. With ?wait=true it blocks until the fetch
// settles and answers 502 if the product lister failed; otherwise it answers
// 202 straight away.
func (h *Handler) FetchItems(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") != "true" {
		ctx := middleware.WithCorrelationID(h.baseCtx, middleware.GetCorrelationID(r.Context()))
		go func() {
			if err := h.store.Dispatch(ctx, store.FetchItems{}); err != nil {
				h.logger.Warn("background fetch failed", zap.Error(err))
			}
		}()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": string(catalog.StatusLoading)})
		return
	}

	if err := h.store.Dispatch(r.Context(), store.FetchItems{}); err != nil {
		var fe *catalog.FetchError
		if errors.As(err, &fe) {
			writeError(w, http.StatusBadGateway, fe.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, h.store.State().Items)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State().Cart)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	payload, ok := readPayload(w, r)
	if !ok {
		return
	}
	a, err := store.DecodeAction(store.TypeAddToCart, payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.apply(w, r, a)
}

func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	name, ok := pathParam(w, r, "name")
	if !ok {
		return
	}
	h.apply(w, r, store.Increment{Name: name})
}

func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request) {
	name, ok := pathParam(w, r, "name")
	if !ok {
		return
	}
	h.apply(w, r, store.Decrement{Name: name})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	h.apply(w, r, store.RemoveFromCart{ID: catalog.ID(id)})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, store.ClearCart{})
}

func (h *Handler) GetPurchases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State().PurchaseHistory)
}

func (h *Handler) AddPurchase(w http.ResponseWriter, r *http.Request) {
	payload, ok := readPayload(w, r)
	if !ok {
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "missing purchase record")
		return
	}
	h.addPurchase(w, r, store.AddPurchase{Record: payload})
}

type actionRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch accepts any tagged action, e.g. {"type":"cart/increment","payload":{"name":"Samosa"}}.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	a, err := store.DecodeAction(req.Type, req.Payload)
	if err != nil {
		if errors.Is(err, store.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	switch a := a.(type) {
	case store.FetchItems:
		h.FetchItems(w, r)
	case store.AddPurchase:
		h.addPurchase(w, r, a)
	default:
		h.apply(w, r, a)
	}
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, a store.Action) {
	if msg := validate(a); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.store.Dispatch(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "dispatch failed")
		return
	}
	writeJSON(w, http.StatusOK, h.store.State())
}

func (h *Handler) addPurchase(w http.ResponseWriter, r *http.Request, a store.AddPurchase) {
	position := h.store.AddPurchase(a.Record)
	st := h.store.State()

	if h.publisher != nil {
		meta := events.EventMeta{
			CorrelationID: middleware.GetCorrelationID(r.Context()),
			CausationID:   r.Header.Get(middleware.HeaderCausationID),
		}
		// the record is already part of the history; a lost event is logged, not surfaced
		if err := h.publisher.PublishPurchaseRecorded(r.Context(), meta, position, a.Record); err != nil {
			h.logger.Error("publish purchase recorded", zap.Error(err))
		}
	}
	writeJSON(w, http.StatusCreated, st)
}

// validate reports why a cannot be accepted over HTTP, or "" if it can.
func validate(a store.Action) string {
	if add, ok := a.(store.AddToCart); ok && add.Item.Name == "" {
		return "missing name"
	}
	return ""
}

func readPayload(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	var payload json.RawMessage
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid json")
		return nil, false
	}
	return payload, true
}

// pathParam returns a decoded URL parameter. chi matches against RawPath when
// the request carries one, leaving the value escaped; otherwise the value
// comes from the already decoded Path and is used as is.
func pathParam(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath != "" {
		var err error
		if v, err = url.PathUnescape(v); err != nil {
			v = ""
		}
	}
	if v == "" {
		writeError(w, http.StatusBadRequest, "missing "+key)
		return "", false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
