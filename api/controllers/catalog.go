package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sonumarket-core/api/responses"
	"github.com/angelmondragon/sonumarket-core/api/validators"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/catalog/query"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
	"github.com/angelmondragon/sonumarket-core/pkg/pagination"
)

const maxSearchLen = 100

type productListResponse struct {
	Filter     query.FilterSpec  `json:"filter"`
	IsDefault  bool              `json:"is_default"`
	Count      int               `json:"count"`
	Products   []catalog.Product `json:"products"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

type searchResponse struct {
	Query      string            `json:"query"`
	Count      int               `json:"count"`
	Products   []catalog.Product `json:"products"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// paginateProducts windows a result using the limit and cursor query parameters.
func paginateProducts(r *http.Request, products []catalog.Product) (pagination.Page[catalog.Product], error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Page[catalog.Product]{}, err
	}
	page, err := pagination.Paginate(products, pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		return page, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return page, nil
}

// CatalogProducts runs the filter pipeline. Missing parameters fall back to the default filter.
func CatalogProducts(engine *query.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := engine.DefaultFilter()
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			spec.Category = enums.CategoryID(raw)
		}
		var err error
		if spec.PriceMin, err = validators.ParseQueryInt64(r, "price_min", spec.PriceMin); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if spec.PriceMax, err = validators.ParseQueryInt64(r, "price_max", spec.PriceMax); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		spec.Text = validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen)

		products, err := engine.Query(spec)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := paginateProducts(r, products)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productListResponse{
			Filter:     spec,
			IsDefault:  engine.IsDefault(spec),
			Count:      page.Total,
			Products:   page.Items,
			NextCursor: page.NextCursor,
		})
	}
}

func CatalogProduct(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "productId")
		product, ok := store.Product(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": id}))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CatalogSearch is the header search box: text only, no category or price bounds.
func CatalogSearch(engine *query.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen)
		page, err := paginateProducts(r, engine.Search(text))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, searchResponse{
			Query:      text,
			Count:      page.Total,
			Products:   page.Items,
			NextCursor: page.NextCursor,
		})
	}
}

func CatalogTabs(engine *query.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, engine.Tabs())
	}
}

func CatalogCategories(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Categories())
	}
}

func CatalogTopSellers(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 4, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store.TopSellers(limit))
	}
}

// CatalogDigital lists the digital documents, optionally narrowed to one label.
func CatalogDigital(engine *query.Engine, store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		label := strings.TrimSpace(r.URL.Query().Get("label"))
		responses.WriteSuccess(w, map[string]any{
			"categories": store.DigitalCategories(),
			"products":   engine.Digital(label),
		})
	}
}

func CatalogServices(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Services())
	}
}

func CatalogCVTemplates(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.CVTemplates())
	}
}

func CatalogRedactionOptions(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.RedactionOptions())
	}
}
