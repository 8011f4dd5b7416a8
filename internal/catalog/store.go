package catalog

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
)

// Store is the read-only catalog loaded at startup.
type Store struct {
	products         []Product
	productIndex     map[string]int
	categories       []Category
	services         []Service
	cvTemplates      []CVTemplate
	redactionOptions []RedactionOption
}

// NewStore validates data and builds an immutable store from it.
func NewStore(data Data) (*Store, error) {
	store := &Store{productIndex: make(map[string]int, len(data.Products))}

	for _, p := range data.Products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, exists := store.productIndex[p.ID]; exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate product id %q", p.ID))
		}
		store.productIndex[p.ID] = len(store.products)
		store.products = append(store.products, p.clone())
	}

	seenCategories := map[enums.CategoryID]struct{}{}
	for _, c := range data.Categories {
		if !c.ID.IsValid() || c.ID == enums.CategoryIDAll {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category id %q", c.ID))
		}
		if _, ok := seenCategories[c.ID]; ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate category id %q", c.ID))
		}
		seenCategories[c.ID] = struct{}{}
		store.categories = append(store.categories, c)
	}

	seen := map[string]struct{}{}
	for _, s := range data.Services {
		if err := checkEntry("service", s.ID, s.Price, seen); err != nil {
			return nil, err
		}
		store.services = append(store.services, s)
	}

	seen = map[string]struct{}{}
	for _, t := range data.CVTemplates {
		if err := checkEntry("cv template", t.ID, t.Price, seen); err != nil {
			return nil, err
		}
		store.cvTemplates = append(store.cvTemplates, t)
	}

	seen = map[string]struct{}{}
	for _, o := range data.RedactionOptions {
		if err := checkEntry("redaction option", o.ID, o.BasePrice, seen); err != nil {
			return nil, err
		}
		store.redactionOptions = append(store.redactionOptions, o)
	}

	return store, nil
}

func validateProduct(p Product) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	case p.Price < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q has a negative price", p.ID))
	case p.Rating < 0 || p.Rating > 5:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q rating must be within 0..5", p.ID))
	case p.Discount < 0 || p.Discount > 100:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q discount must be within 0..100", p.ID))
	case p.Reviews < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q has a negative review count", p.ID))
	case p.Type != "" && !p.Type.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q has unknown type %q", p.ID, p.Type))
	case p.FileType != "" && !p.FileType.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q has unknown file type %q", p.ID, p.FileType))
	}
	return nil
}

func checkEntry(kind, id string, price int64, seen map[string]struct{}) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, kind+" id is required")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s %q has a negative price", kind, id))
	}
	if _, ok := seen[id]; ok {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate %s id %q", kind, id))
	}
	seen[id] = struct{}{}
	return nil
}

// Products returns every product in catalog order.
func (s *Store) Products() []Product {
	out := make([]Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.clone()
	}
	return out
}

// Product looks up a product by id.
func (s *Store) Product(id string) (Product, bool) {
	idx, ok := s.productIndex[id]
	if !ok {
		return Product{}, false
	}
	return s.products[idx].clone(), true
}

// ProductsByType returns the products tagged with t, in catalog order.
func (s *Store) ProductsByType(t enums.ProductType) []Product {
	out := []Product{}
	for _, p := range s.products {
		if p.Type == t {
			out = append(out, p.clone())
		}
	}
	return out
}

// DigitalProducts returns every downloadable product.
func (s *Store) DigitalProducts() []Product {
	return s.ProductsByType(enums.ProductTypeDigital)
}

// DigitalCategories lists the digital store labels in first-seen order with their counts.
func (s *Store) DigitalCategories() []DigitalCategory {
	out := []DigitalCategory{}
	index := map[string]int{}
	for _, p := range s.products {
		if !p.IsDigital() {
			continue
		}
		if i, ok := index[p.Category]; ok {
			out[i].Count++
			continue
		}
		index[p.Category] = len(out)
		out = append(out, DigitalCategory{Label: p.Category, Count: 1})
	}
	return out
}

// TopSellers returns the first n products, the home screen default listing.
func (s *Store) TopSellers(n int) []Product {
	if n <= 0 {
		return []Product{}
	}
	if n > len(s.products) {
		n = len(s.products)
	}
	out := make([]Product, n)
	for i := 0; i < n; i++ {
		out[i] = s.products[i].clone()
	}
	return out
}

func (s *Store) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

func (s *Store) Category(id enums.CategoryID) (Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (s *Store) Services() []Service {
	return append([]Service(nil), s.services...)
}

func (s *Store) Service(id string) (Service, bool) {
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

func (s *Store) CVTemplates() []CVTemplate {
	return append([]CVTemplate(nil), s.cvTemplates...)
}

func (s *Store) CVTemplate(id string) (CVTemplate, bool) {
	for _, t := range s.cvTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return CVTemplate{}, false
}

func (s *Store) RedactionOptions() []RedactionOption {
	return append([]RedactionOption(nil), s.redactionOptions...)
}

func (s *Store) RedactionOption(id string) (RedactionOption, bool) {
	for _, o := range s.redactionOptions {
		if o.ID == id {
			return o, true
		}
	}
	return RedactionOption{}, false
}
