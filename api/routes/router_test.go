package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sonumarket-core/api/controllers"
	"github.com/angelmondragon/sonumarket-core/api/middleware"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/catalog/query"
	"github.com/angelmondragon/sonumarket-core/internal/payments"
	"github.com/angelmondragon/sonumarket-core/internal/persistence"
	"github.com/angelmondragon/sonumarket-core/internal/session"
	"github.com/angelmondragon/sonumarket-core/pkg/config"
	"github.com/angelmondragon/sonumarket-core/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type harness struct {
	handler http.Handler
	store   *persistence.MemoryStore
	writer  *persistence.Writer
}

func newHarness(t *testing.T, ready map[string]controllers.Pinger) harness {
	t.Helper()

	cfg := &config.Config{App: config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:3000"}}}
	store := catalog.Default()
	engine, err := query.NewEngine(store, query.Options{})
	require.NoError(t, err)

	snapshots := persistence.NewMemoryStore()
	writer, err := persistence.NewWriter(snapshots, persistence.WriterOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close(context.Background()) })

	charger, err := payments.NewSimulated(config.PaymentsConfig{}, nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	sessions, err := session.NewManager(session.Options{
		Catalog:     store,
		Store:       snapshots,
		Writer:      writer,
		Charger:     charger,
		CartMetrics: metrics.NewCartMetrics(reg),
	})
	require.NoError(t, err)

	return harness{
		handler: NewRouter(RouterParams{
			Config:   cfg,
			Catalog:  store,
			Query:    engine,
			Sessions: sessions,
			Ready:    ready,
			Gatherer: reg,
		}),
		store:  snapshots,
		writer: writer,
	}
}

func (h harness) do(t *testing.T, method, path, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionIDHeader, sessionID)
	}
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)
	return resp
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope), resp.Body.String())
	return envelope.Data
}

type productsPayload struct {
	IsDefault  bool   `json:"is_default"`
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
	Products   []struct {
		ID string `json:"id"`
	} `json:"products"`
}

func (p productsPayload) ids() []string {
	out := make([]string, 0, len(p.Products))
	for _, prod := range p.Products {
		out = append(out, prod.ID)
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]controllers.Pinger{"snapshots": stubPinger{}})
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/ready", "", "").Code)

	down := newHarness(t, map[string]controllers.Pinger{"redis": stubPinger{err: errors.New("refused")}})
	resp := down.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "DEPENDENCY_ERROR")
}

func TestCatalogRoutes(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)

	resp := h.do(t, http.MethodGet, "/api/v1/catalog/products", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	all := decodeData[productsPayload](t, resp)
	assert.True(t, all.IsDefault)
	assert.Equal(t, 9, all.Count)
	assert.Len(t, all.Products, 9)
	assert.Empty(t, all.NextCursor)

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/products?limit=5", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	first := decodeData[productsPayload](t, resp)
	assert.Equal(t, 9, first.Count)
	require.Len(t, first.Products, 5)
	require.NotEmpty(t, first.NextCursor)

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/products?limit=5&cursor="+first.NextCursor, "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	second := decodeData[productsPayload](t, resp)
	assert.Len(t, second.Products, 4)
	assert.Empty(t, second.NextCursor)
	assert.Equal(t, all.ids(), append(first.ids(), second.ids()...))

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/products?cursor=not-a-cursor", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/products?category=gaming", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	gaming := decodeData[productsPayload](t, resp)
	assert.False(t, gaming.IsDefault)
	assert.Equal(t, []string{"gaming-1", "periph-2"}, gaming.ids())

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/products?price_min=10&price_max=5", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/products/2", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/v1/catalog/products/nope", "", "").Code)

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/top-sellers?limit=2", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	top := decodeData[[]struct {
		ID string `json:"id"`
	}](t, resp)
	require.Len(t, top, 2)
	assert.Equal(t, "1", top[0].ID)

	resp = h.do(t, http.MethodGet, "/api/v1/catalog/tabs", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"Tout"`)
}

func TestCartFlowPersistsPerSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)

	resp := h.do(t, http.MethodPost, "/api/v1/cart/items", "", `{"product_id":"1"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	sid := resp.Header().Get(middleware.SessionIDHeader)
	require.NotEmpty(t, sid)

	resp = h.do(t, http.MethodPost, "/api/v1/cart/items", sid, `{"product_id":"periph-1","quantity":2}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	type cartPayload struct {
		Lines []struct {
			Quantity int `json:"quantity"`
		} `json:"lines"`
		Summary struct {
			ItemCount    int   `json:"item_count"`
			Subtotal     int64 `json:"subtotal"`
			Shipping     int64 `json:"shipping"`
			Total        int64 `json:"total"`
			FreeShipping bool  `json:"free_shipping"`
		} `json:"summary"`
	}
	got := decodeData[cartPayload](t, resp)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 3, got.Summary.ItemCount)
	assert.Equal(t, int64(980000), got.Summary.Subtotal)
	assert.True(t, got.Summary.FreeShipping)
	assert.Equal(t, int64(980000), got.Summary.Total)

	resp = h.do(t, http.MethodPatch, "/api/v1/cart/items/1", sid, `{"delta":-1}`)
	require.Equal(t, http.StatusOK, resp.Code)
	got = decodeData[cartPayload](t, resp)
	assert.Equal(t, int64(130000), got.Summary.Subtotal)
	assert.Equal(t, int64(5000), got.Summary.Shipping)

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPatch, "/api/v1/cart/items/1", sid, `{"delta":1}`).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPost, "/api/v1/cart/items", sid, `{"product_id":"ghost"}`).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/api/v1/cart/items", sid, `{"product_id":"1","variant":"12GB"}`).Code)

	require.NoError(t, h.writer.Flush(context.Background()))
	blob, err := h.store.Load(context.Background(), persistence.Scoped(sid, persistence.KeyCart))
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"periph-1"`)

	other := h.do(t, http.MethodGet, "/api/v1/cart", "someone-else", "")
	require.Equal(t, http.StatusOK, other.Code)
	assert.Empty(t, decodeData[cartPayload](t, other).Lines)

	metricsResp := h.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, metricsResp.Code)
	assert.Contains(t, metricsResp.Body.String(), "cart_mutations_total")
}

func TestCVPurchaseWizardOverHTTP(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	const sid = "sess-cv"
	base := "/api/v1/wizards/cv_purchase"

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, base, sid, "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/api/v1/wizards/checkout", sid, "").Code)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, base, sid, "").Code)

	resp := h.do(t, http.MethodPost, base+"/advance", sid, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	var rejection struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rejection))
	assert.Equal(t, "STATE_CONFLICT", rejection.Error.Code)
	assert.Equal(t, map[string]string{"action": "advance", "step": "template", "status": "in_progress"}, rejection.Error.Details)

	resp = h.do(t, http.MethodPut, base+"/steps/template", sid, `{"template_id":"cv-creative"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, base+"/advance", sid, "").Code)

	resp = h.do(t, http.MethodPut, base+"/steps/details", sid, `{"full_name":"Awa Ndiaye","email":"awa@example.cm"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, base+"/advance", sid, "").Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, base+"/advance", sid, "").Code)

	resp = h.do(t, http.MethodPut, base+"/steps/payment", sid, `{"channel":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	resp = h.do(t, http.MethodPut, base+"/steps/payment", sid, `{"channel":"airtel_money"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = h.do(t, http.MethodPost, base+"/advance?wait=true", sid, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	type wizardPayload struct {
		Outcome string `json:"outcome"`
		State   struct {
			Status string `json:"status"`
			Amount int64  `json:"amount"`
		} `json:"state"`
	}
	done := decodeData[wizardPayload](t, resp)
	assert.Equal(t, "completed", done.Outcome)
	assert.Equal(t, "complete", done.State.Status)
	assert.Equal(t, int64(2500), done.State.Amount)

	resp = h.do(t, http.MethodPost, base+"/retreat", sid, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "exit", decodeData[wizardPayload](t, resp).Outcome)

	resp = h.do(t, http.MethodDelete, base, sid, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestProfileRoutes(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	const sid = "sess-profile"

	resp := h.do(t, http.MethodPut, "/api/v1/profile/addresses", sid, `{"label":"Maison","street":"Rue 1","city":"Brazzaville"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/api/v1/profile/sign-in", sid, `{"phone":"abc"}`).Code)
	resp = h.do(t, http.MethodPost, "/api/v1/profile/sign-in", sid, `{"phone":"066123456"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = h.do(t, http.MethodPut, "/api/v1/profile/addresses", sid, `{"label":"Maison","street":"Rue 1","city":"Brazzaville"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = h.do(t, http.MethodPost, "/api/v1/profile/payment-methods", sid, `{"type":"momo","number":"066123456","holder_name":"Awa"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"provider":"MTN"`)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/api/v1/profile/wishlist/2", sid, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPut, "/api/v1/profile/wishlist/ghost", sid, "").Code)

	type profilePayload struct {
		SignedIn bool `json:"signed_in"`
		User     *struct {
			ID        string            `json:"id"`
			Addresses []json.RawMessage `json:"addresses"`
			Wishlist  []json.RawMessage `json:"wishlist"`
		} `json:"user"`
	}
	resp = h.do(t, http.MethodGet, "/api/v1/profile", sid, "")
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeData[profilePayload](t, resp)
	require.True(t, got.SignedIn)
	assert.Equal(t, "user-066123456", got.User.ID)
	assert.Len(t, got.User.Addresses, 1)
	assert.Len(t, got.User.Wishlist, 1)

	resp = h.do(t, http.MethodPost, "/api/v1/profile/sign-out", sid, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decodeData[profilePayload](t, resp).SignedIn)
}
