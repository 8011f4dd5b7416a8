package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sonumarket-core/api/responses"
	"github.com/angelmondragon/sonumarket-core/api/validators"
	"github.com/angelmondragon/sonumarket-core/internal/cart"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
)

type cartResponse struct {
	Lines   []cart.Line  `json:"lines"`
	Summary cart.Summary `json:"summary"`
}

func newCartResponse(engine *cart.Engine) cartResponse {
	snap := engine.Snapshot()
	lines := snap.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Lines: lines, Summary: engine.Pricing().Summarize(snap)}
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=99"`
	Variant   string `json:"variant,omitempty"`
}

type addItemsRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta" validate:"required,min=-99,max=99"`
}

func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

// CartAddItem adds quantity units of a catalog product, defaulting to one.
func CartAddItem(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, found := store.Product(payload.ProductID)
		if !found {
			responses.WriteError(r.Context(), logg, w, productNotFound(payload.ProductID))
			return
		}
		if payload.Variant != "" && !product.HasVariant(payload.Variant) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown variant").
				WithDetails(map[string]any{"variant": payload.Variant}))
			return
		}

		s.Cart.AddVariant(product, payload.Variant)
		if payload.Quantity > 1 {
			s.Cart.UpdateQuantity(product.ID, payload.Quantity-1)
		}
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

// CartAddItems adds one unit of each listed product. Unknown ids fail the whole request.
func CartAddItems(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload addItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products := make([]catalog.Product, 0, len(payload.ProductIDs))
		for _, id := range payload.ProductIDs {
			product, found := store.Product(id)
			if !found {
				responses.WriteError(r.Context(), logg, w, productNotFound(id))
				return
			}
			products = append(products, product)
		}
		_, added := s.Cart.AddMany(products)
		responses.WriteSuccess(w, map[string]any{"added": added, "cart": newCartResponse(s.Cart)})
	}
}

// CartUpdateQuantity applies a signed delta. Reaching zero removes the line.
func CartUpdateQuantity(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id := chi.URLParam(r, "productId")
		if _, present := s.Cart.Snapshot().Line(id); !present {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found").
				WithDetails(map[string]any{"product_id": id}))
			return
		}
		s.Cart.UpdateQuantity(id, payload.Delta)
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

// CartRemoveItem is idempotent: removing an absent line still succeeds.
func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		s.Cart.Remove(chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		s.Cart.Replace(nil)
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

func productNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
		WithDetails(map[string]any{"product_id": id})
}
