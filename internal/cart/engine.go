package cart

import (
	"sync"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/pkg/metrics"
)

const (
	opAdd     = "add"
	opAddMany = "add_many"
	opUpdate  = "update_quantity"
	opRemove  = "remove"
	opReplace = "replace"
)

// Options wires an Engine.
type Options struct {
	// Pricing defaults to DefaultPricing when zero.
	Pricing Pricing
	// Initial is the restored snapshot, normalized on load.
	Initial Cart
	// OnChange receives every new snapshot. It must not block.
	OnChange func(Cart)
	Metrics  *metrics.CartMetrics
}

// Engine is the single writer of one cart. Mutations are serialized; each one reads
// the current cart, computes the next one and swaps it in as one step.
type Engine struct {
	mu       sync.Mutex
	cart     Cart
	pricing  Pricing
	onChange func(Cart)
	metrics  *metrics.CartMetrics

	subs    map[uint64]func(Cart)
	nextSub uint64
}

func NewEngine(opts Options) *Engine {
	pricing := opts.Pricing
	if pricing == (Pricing{}) {
		pricing = DefaultPricing
	}
	return &Engine{
		cart:     normalize(opts.Initial.Lines),
		pricing:  pricing,
		onChange: opts.OnChange,
		metrics:  opts.Metrics,
		subs:     map[uint64]func(Cart){},
	}
}

// AddOne increments the line for p or appends a new line at quantity 1.
func (e *Engine) AddOne(p catalog.Product) Cart {
	return e.mutate(opAdd, func(c *Cart) bool {
		return addProduct(c, p, "")
	})
}

// AddVariant is AddOne with a variant recorded on a new line. An existing line keeps
// its identity and variant and only gains quantity.
func (e *Engine) AddVariant(p catalog.Product, variant string) Cart {
	return e.mutate(opAdd, func(c *Cart) bool {
		return addProduct(c, p, variant)
	})
}

// AddMany applies AddOne for each product in order and reports how many were added.
func (e *Engine) AddMany(products []catalog.Product) (Cart, int) {
	added := 0
	snapshot := e.mutate(opAddMany, func(c *Cart) bool {
		for _, p := range products {
			if addProduct(c, p, "") {
				added++
			}
		}
		return added > 0
	})
	return snapshot, added
}

// UpdateQuantity sets the line quantity to max(0, quantity+delta) and drops the line at 0.
// Unknown ids are ignored.
func (e *Engine) UpdateQuantity(productID string, delta int) Cart {
	return e.mutate(opUpdate, func(c *Cart) bool {
		idx := c.indexOf(productID)
		if idx < 0 || delta == 0 {
			return false
		}
		next := addQuantity(c.Lines[idx].Quantity, delta)
		if next <= 0 {
			c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
			return true
		}
		c.Lines[idx].Quantity = next
		return true
	})
}

// Remove drops the line for productID if present.
func (e *Engine) Remove(productID string) Cart {
	return e.mutate(opRemove, func(c *Cart) bool {
		idx := c.indexOf(productID)
		if idx < 0 {
			return false
		}
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		return true
	})
}

// Replace swaps in a whole new set of lines. Replace(nil) clears the cart.
func (e *Engine) Replace(lines []Line) Cart {
	return e.mutate(opReplace, func(c *Cart) bool {
		*c = normalize(lines)
		return true
	})
}

// Snapshot returns a copy of the current cart.
func (e *Engine) Snapshot() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.clone()
}

func (e *Engine) Subtotal() int64 {
	return e.Snapshot().Subtotal()
}

// ShippingFee applies the engine's pricing rule to subtotal.
func (e *Engine) ShippingFee(subtotal int64) int64 {
	return e.pricing.ShippingFee(subtotal)
}

// Total is subtotal plus shipping.
func (e *Engine) Total() int64 {
	return e.Summary().Total
}

func (e *Engine) Summary() Summary {
	return e.pricing.Summarize(e.Snapshot())
}

func (e *Engine) Pricing() Pricing {
	return e.pricing
}

// Subscribe registers fn for every new snapshot and returns a cancel func. Callbacks
// run while the engine is locked and must not call back into it.
func (e *Engine) Subscribe(fn func(Cart)) func() {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) mutate(op string, fn func(c *Cart) bool) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.cart.clone()
	if !fn(&next) {
		return e.cart.clone()
	}
	e.cart = next

	e.metrics.IncMutation(op)
	e.metrics.ObserveItemCount(next.ItemCount())

	if e.onChange != nil {
		e.onChange(next.clone())
	}
	for _, sub := range e.subs {
		sub(next.clone())
	}
	return next.clone()
}

func addProduct(c *Cart, p catalog.Product, variant string) bool {
	if p.ID == "" {
		return false
	}
	if idx := c.indexOf(p.ID); idx >= 0 {
		c.Lines[idx].Quantity = addQuantity(c.Lines[idx].Quantity, 1)
		return true
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: 1, SelectedVariant: variant})
	return true
}

// addQuantity applies delta and clamps the result to 0..MaxLineQuantity.
func addQuantity(q, delta int) int {
	switch {
	case delta > 0 && q > MaxLineQuantity-delta:
		return MaxLineQuantity
	case delta < 0 && q+delta < 0:
		return 0
	}
	return q + delta
}
