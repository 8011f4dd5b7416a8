package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	"github.com/angelmondragon/sonumarket-core/pkg/money"
)

// Product is immutable reference data. Callers receive copies.
type Product struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Price           int64             `json:"price"`
	Rating          float64           `json:"rating"`
	Image           string            `json:"image,omitempty"`
	Category        string            `json:"category"`
	IsNew           bool              `json:"is_new,omitempty"`
	Discount        int               `json:"discount,omitempty"`
	Description     string            `json:"description"`
	Specs           Specs             `json:"specs"`
	Reviews         int               `json:"reviews"`
	Type            enums.ProductType `json:"type,omitempty"`
	FileType        enums.FileType    `json:"file_type,omitempty"`
	DigitalContents []string          `json:"digital_contents,omitempty"`
	Variants        []string          `json:"variants,omitempty"`
}

// IsDigital reports whether the product is delivered as files.
func (p Product) IsDigital() bool {
	return p.Type == enums.ProductTypeDigital
}

// CompareAtPrice is the pre-discount price shown next to discounted products.
func (p Product) CompareAtPrice() int64 {
	return money.CompareAtPrice(p.Price, p.Discount)
}

// HasVariant reports whether variant is one of the product's selectable variants.
func (p Product) HasVariant(variant string) bool {
	for _, v := range p.Variants {
		if v == variant {
			return true
		}
	}
	return false
}

func (p Product) clone() Product {
	out := p
	out.Specs = append(Specs(nil), p.Specs...)
	out.DigitalContents = append([]string(nil), p.DigitalContents...)
	out.Variants = append([]string(nil), p.Variants...)
	return out
}

// Spec is one labelled characteristic of a product.
type Spec struct {
	Key   string
	Value string
}

// Specs keeps product characteristics in authoring order. It encodes as a JSON object
// whose keys appear in that order.
type Specs []Spec

// Get returns the value stored under key.
func (s Specs) Get(key string) (string, bool) {
	for _, spec := range s {
		if spec.Key == key {
			return spec.Value, true
		}
	}
	return "", false
}

// MarshalJSON implements json.Marshaler.
func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, spec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(spec.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(spec.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler and preserves key order.
func (s *Specs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("specs: expected object")
	}
	out := Specs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("specs: expected string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("specs: value for %q: %w", key, err)
		}
		out = append(out, Spec{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Category is a navigation entry on the home and catalog screens.
type Category struct {
	ID       enums.CategoryID `json:"id"`
	Name     string           `json:"name"`
	IconName string           `json:"icon_name"`
}

// Service is a bookable workshop service.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Duration    int    `json:"duration_minutes"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// CVTemplate is a purchasable CV design used by the CV purchase flow.
type CVTemplate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Price int64  `json:"price"`
	Style string `json:"style"`
}

// RedactionOption is a writing-assistance offer used by the redaction request flow.
type RedactionOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BasePrice   int64  `json:"base_price"`
	Icon        string `json:"icon,omitempty"`
}

// DigitalCategory summarises one label of the digital store.
type DigitalCategory struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Data is the raw material a Store is built from.
type Data struct {
	Products         []Product
	Categories       []Category
	Services         []Service
	CVTemplates      []CVTemplate
	RedactionOptions []RedactionOption
}
