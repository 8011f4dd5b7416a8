package cart

import "github.com/angelmondragon/sonumarket-core/pkg/config"

// Pricing holds the shipping rule. Shipping is waived only when the subtotal is
// strictly above the threshold.
type Pricing struct {
	FreeShippingThreshold int64 `json:"free_shipping_threshold"`
	FlatShippingFee       int64 `json:"flat_shipping_fee"`
}

// DefaultPricing is the storefront's published shipping rule.
var DefaultPricing = Pricing{FreeShippingThreshold: 500000, FlatShippingFee: 5000}

// PricingFromConfig builds the shipping rule from configuration.
func PricingFromConfig(cfg config.CartConfig) Pricing {
	return Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}
}

// ShippingFee is a pure function of the subtotal.
func (p Pricing) ShippingFee(subtotal int64) int64 {
	if subtotal > p.FreeShippingThreshold {
		return 0
	}
	return p.FlatShippingFee
}

// Summary is the checkout recap shown under the cart.
type Summary struct {
	ItemCount    int   `json:"item_count"`
	Subtotal     int64 `json:"subtotal"`
	Shipping     int64 `json:"shipping"`
	Total        int64 `json:"total"`
	FreeShipping bool  `json:"free_shipping"`
}

// Summarize computes the recap for c.
func (p Pricing) Summarize(c Cart) Summary {
	subtotal := c.Subtotal()
	shipping := p.ShippingFee(subtotal)
	return Summary{
		ItemCount:    c.ItemCount(),
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        addSaturating(subtotal, shipping),
		FreeShipping: shipping == 0,
	}
}
