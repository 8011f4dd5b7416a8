package query

import (
	"sync"
	"testing"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(catalog.Default(), Options{})
	require.NoError(t, err)
	return engine
}

func TestQueryDefaultReturnsEveryNonConfiguratorProductInOrder(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	got, err := engine.Query(engine.DefaultFilter())
	require.NoError(t, err)

	want := []string{}
	for _, p := range catalog.Default().Products() {
		if p.Category != catalog.ConfiguratorLabel {
			want = append(want, p.ID)
		}
	}
	assert.Equal(t, want, productIDs(got))
	assert.Equal(t, []string{"1", "2", "periph-1", "gaming-1", "periph-2", "doc-1", "doc-2", "doc-3", "doc-4"}, productIDs(got))
}

func TestQueryStages(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{
			name: "gaming matches label and description keyword",
			spec: FilterSpec{Category: enums.CategoryIDGaming, PriceMax: DefaultPriceMax},
			want: []string{"gaming-1", "periph-2"},
		},
		{
			name: "laptops",
			spec: FilterSpec{Category: enums.CategoryIDLaptop, PriceMax: DefaultPriceMax},
			want: []string{"2"},
		},
		{
			name: "peripherals",
			spec: FilterSpec{Category: enums.CategoryIDPeripherals, PriceMax: DefaultPriceMax},
			want: []string{"periph-1", "periph-2"},
		},
		{
			name: "configurator parts only when asked for",
			spec: FilterSpec{Category: enums.CategoryIDConfigurator, PriceMax: 100000},
			want: []string{"cfg-ram-16", "cfg-ram-32", "cfg-ssd-512", "cfg-ssd-1t", "cfg-os-linux", "cfg-os-win"},
		},
		{
			name: "unknown id falls back to raw label",
			spec: FilterSpec{Category: "Finance", PriceMax: DefaultPriceMax},
			want: []string{"doc-2"},
		},
		{
			name: "price bounds are inclusive",
			spec: FilterSpec{Category: enums.CategoryIDAll, PriceMin: 2000, PriceMax: 55000},
			want: []string{"periph-2", "doc-1", "doc-2", "doc-3", "doc-4"},
		},
		{
			name: "text is case insensitive",
			spec: FilterSpec{Category: enums.CategoryIDAll, PriceMax: DefaultPriceMax, Text: "  MACBOOK "},
			want: []string{"2"},
		},
		{
			name: "text folds accented capitals",
			spec: FilterSpec{Category: enums.CategoryIDAll, PriceMax: DefaultPriceMax, Text: "CARRIÈRE"},
			want: []string{"doc-3"},
		},
		{
			name: "stages intersect",
			spec: FilterSpec{Category: enums.CategoryIDPeripherals, PriceMin: 60000, PriceMax: DefaultPriceMax, Text: "souris"},
			want: []string{"periph-1"},
		},
		{
			name: "empty result is valid",
			spec: FilterSpec{Category: enums.CategoryIDLaptop, PriceMax: 1000},
			want: []string{},
		},
		{
			name: "blank category means all",
			spec: FilterSpec{PriceMin: 0, PriceMax: 2000},
			want: []string{"doc-4"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := engine.Query(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, productIDs(got))
		})
	}
}

func TestQueryIsDeterministic(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	spec := FilterSpec{Category: enums.CategoryIDAll, PriceMax: 900000, Text: "e"}
	first, err := engine.Query(spec)
	require.NoError(t, err)
	second, err := engine.Query(spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQueryRejectsInvertedPriceRange(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	got, err := engine.Query(FilterSpec{Category: enums.CategoryIDAll, PriceMin: 10, PriceMax: 5})
	require.Error(t, err)
	assert.Nil(t, got)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = engine.Query(FilterSpec{Category: enums.CategoryIDAll, PriceMin: -1, PriceMax: 5})
	require.Error(t, err)
}

func TestIsDefault(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(catalog.Default(), Options{DefaultPriceMax: 3000000})
	require.NoError(t, err)

	f := engine.DefaultFilter()
	assert.Equal(t, int64(3000000), f.PriceMax)
	assert.True(t, engine.IsDefault(f))

	f.Text = "   "
	assert.True(t, engine.IsDefault(f))

	f.Text = "rtx"
	assert.False(t, engine.IsDefault(f))
	assert.False(t, engine.IsDefault(FilterSpec{Category: enums.CategoryIDGaming, PriceMax: 3000000}))
}

func TestSearchCoversWholeCatalog(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	assert.Equal(t, []string{"1", "gaming-1"}, productIDs(engine.Search("rtx")))
	assert.Equal(t, []string{"cfg-ram-16", "cfg-ram-32"}, productIDs(engine.Search("DDR5")))
	assert.Empty(t, engine.Search("  "))
}

func TestDigitalAndTabs(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	assert.Equal(t, []string{"doc-1", "doc-4"}, productIDs(engine.Digital("Administratif")))
	assert.Equal(t, []string{"doc-1", "doc-2", "doc-3", "doc-4"}, productIDs(engine.Digital("all")))
	assert.Empty(t, engine.Digital("administratif"))

	tabs := engine.Tabs()
	ids := make([]enums.CategoryID, len(tabs))
	for i, tab := range tabs {
		ids[i] = tab.ID
	}
	assert.Equal(t, []enums.CategoryID{
		enums.CategoryIDAll,
		enums.CategoryIDGaming,
		enums.CategoryIDLaptop,
		enums.CategoryIDComponents,
		enums.CategoryIDPeripherals,
	}, ids)
}

func TestNewEngineRequiresStore(t *testing.T) {
	t.Parallel()
	_, err := NewEngine(nil, Options{})
	require.Error(t, err)
}

func TestFoldIsSafeForConcurrentCallers(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Equal(t, "ordinateur élève", fold("ORDINATEUR ÉLÈVE"))
			}
		}()
	}
	wg.Wait()
}

func productIDs(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
