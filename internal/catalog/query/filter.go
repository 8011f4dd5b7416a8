package query

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
)

// DefaultPriceMax is the upper bound of the catalog price slider.
const DefaultPriceMax int64 = 5000000

// FilterSpec narrows the catalog listing. It is owned by the caller and never persisted.
type FilterSpec struct {
	Category enums.CategoryID `json:"category"`
	PriceMin int64            `json:"price_min"`
	PriceMax int64            `json:"price_max"`
	Text     string           `json:"text,omitempty"`
}

// DefaultFilter is the "nothing selected yet" filter.
func DefaultFilter() FilterSpec {
	return FilterSpec{Category: enums.CategoryIDAll, PriceMin: 0, PriceMax: DefaultPriceMax}
}

// Validate enforces the price bounds contract. A spec failing it is a caller bug.
func (f FilterSpec) Validate() error {
	if f.PriceMin < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_min must be >= 0").
			WithDetails(map[string]any{"price_min": f.PriceMin})
	}
	if f.PriceMax < f.PriceMin {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("price_max (%d) must be >= price_min (%d)", f.PriceMax, f.PriceMin)).
			WithDetails(map[string]any{"price_min": f.PriceMin, "price_max": f.PriceMax})
	}
	return nil
}

// IsDefault reports whether f equals the filter a fresh browsing session starts with,
// so an empty result can be told apart from "no filter applied yet".
func (f FilterSpec) IsDefault(priceMax int64) bool {
	return f.category() == enums.CategoryIDAll &&
		f.PriceMin == 0 &&
		f.PriceMax == priceMax &&
		!f.HasText()
}

// HasText reports whether the text stage applies.
func (f FilterSpec) HasText() bool {
	return strings.TrimSpace(f.Text) != ""
}

func (f FilterSpec) category() enums.CategoryID {
	c := enums.CategoryID(strings.TrimSpace(string(f.Category)))
	if c == "" {
		return enums.CategoryIDAll
	}
	return c
}
