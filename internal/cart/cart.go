package cart

import (
	"math"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
)

// MaxLineQuantity caps a single line. Larger deltas saturate at the cap.
const MaxLineQuantity = 999

// Line binds one product snapshot to a quantity. A cart holds at most one line per
// product id and never keeps a line at quantity 0.
type Line struct {
	Product         catalog.Product `json:"product"`
	Quantity        int             `json:"quantity"`
	SelectedVariant string          `json:"selected_variant,omitempty"`
}

// LineTotal is price times quantity, saturating at math.MaxInt64.
func (l Line) LineTotal() int64 {
	return mulSaturating(l.Product.Price, int64(l.Quantity))
}

func mulSaturating(a, b int64) int64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func addSaturating(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Cart is an immutable snapshot of the lines in insertion order.
type Cart struct {
	Lines []Line `json:"lines"`
}

// ItemCount is the sum of quantities.
func (c Cart) ItemCount() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// Subtotal is the sum of price times quantity over all lines.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total = addSaturating(total, l.LineTotal())
	}
	return total
}

// Line returns the line holding productID.
func (c Cart) Line(productID string) (Line, bool) {
	for _, l := range c.Lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

func (c Cart) indexOf(productID string) int {
	for i, l := range c.Lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// normalize merges duplicate ids and drops non-positive quantities, keeping first-seen order.
func normalize(lines []Line) Cart {
	out := Cart{Lines: make([]Line, 0, len(lines))}
	for _, l := range lines {
		if l.Product.ID == "" || l.Quantity <= 0 {
			continue
		}
		if idx := out.indexOf(l.Product.ID); idx >= 0 {
			out.Lines[idx].Quantity = addQuantity(out.Lines[idx].Quantity, l.Quantity)
			continue
		}
		l.Quantity = addQuantity(0, l.Quantity)
		out.Lines = append(out.Lines, l)
	}
	return out
}
