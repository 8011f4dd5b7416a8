package query

import (
	"strings"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"golang.org/x/text/cases"
)

type categoryRule struct {
	label   string
	keyword string
}

// Navigation ids map onto free-text category labels. The gaming entry also matches
// on a description keyword to catch products that are not labelled as such.
var categoryRules = map[enums.CategoryID]categoryRule{
	enums.CategoryIDGaming:       {label: "Gaming", keyword: "gamer"},
	enums.CategoryIDLaptop:       {label: "Laptops"},
	enums.CategoryIDComponents:   {label: "Composants"},
	enums.CategoryIDPeripherals:  {label: "Périphériques"},
	enums.CategoryIDConfigurator: {label: catalog.ConfiguratorLabel},
}

// Tab is one entry of the catalog filter bar.
type Tab struct {
	ID   enums.CategoryID `json:"id"`
	Name string           `json:"name"`
}

// Engine answers catalog listing queries over a read-only Store.
type Engine struct {
	store    *catalog.Store
	priceMax int64
}

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	DefaultPriceMax int64
}

func NewEngine(store *catalog.Store, opts Options) (*Engine, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog store is required")
	}
	priceMax := opts.DefaultPriceMax
	if priceMax <= 0 {
		priceMax = DefaultPriceMax
	}
	return &Engine{store: store, priceMax: priceMax}, nil
}

// DefaultFilter returns the starting filter using the configured price ceiling.
func (e *Engine) DefaultFilter() FilterSpec {
	f := DefaultFilter()
	f.PriceMax = e.priceMax
	return f
}

// IsDefault reports whether f is the starting filter of this engine.
func (e *Engine) IsDefault(f FilterSpec) bool {
	return f.IsDefault(e.priceMax)
}

// Query runs the category, price and text stages in that order and keeps catalog order.
func (e *Engine) Query(spec FilterSpec) ([]catalog.Product, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	category := spec.category()
	needle := ""
	if spec.HasText() {
		needle = fold(strings.TrimSpace(spec.Text))
	}

	out := []catalog.Product{}
	for _, p := range e.store.Products() {
		if !matchesCategory(p, category) {
			continue
		}
		if p.Price < spec.PriceMin || p.Price > spec.PriceMax {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Search is the home screen search: text stage only, over the whole catalog.
// Blank text yields an empty list.
func (e *Engine) Search(text string) []catalog.Product {
	out := []catalog.Product{}
	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}
	needle := fold(text)
	for _, p := range e.store.Products() {
		if matchesText(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Digital filters the digital store by exact category label. Empty or "all" returns
// every digital product.
func (e *Engine) Digital(label string) []catalog.Product {
	label = strings.TrimSpace(label)
	all := label == "" || strings.EqualFold(label, string(enums.CategoryIDAll))
	out := []catalog.Product{}
	for _, p := range e.store.DigitalProducts() {
		if all || p.Category == label {
			out = append(out, p)
		}
	}
	return out
}

// Tabs lists the catalog filter bar. Services have their own screen and are left out.
func (e *Engine) Tabs() []Tab {
	tabs := []Tab{{ID: enums.CategoryIDAll, Name: "Tout"}}
	for _, c := range e.store.Categories() {
		if c.ID == enums.CategoryIDServices {
			continue
		}
		tabs = append(tabs, Tab{ID: c.ID, Name: c.Name})
	}
	return tabs
}

func matchesCategory(p catalog.Product, category enums.CategoryID) bool {
	if category == enums.CategoryIDAll {
		return p.Category != catalog.ConfiguratorLabel
	}
	rule, ok := categoryRules[category]
	if !ok {
		rule = categoryRule{label: string(category)}
	}
	if strings.Contains(p.Category, rule.label) {
		return true
	}
	return rule.keyword != "" && strings.Contains(fold(p.Description), rule.keyword)
}

func matchesText(p catalog.Product, needle string) bool {
	return strings.Contains(fold(p.Name), needle) ||
		strings.Contains(fold(p.Category), needle) ||
		strings.Contains(fold(p.Description), needle)
}

// fold case-folds s; a new Caser per call because Casers are stateful.
func fold(s string) string {
	return cases.Fold().String(s)
}
