package cart

import (
	"github.com/shopspring/decimal"
)

// Snapshot is an immutable, ordered view of the cart. The zero value is an empty cart.
// Every operation returns a new Snapshot and leaves the receiver untouched.
type Snapshot struct {
	lines []Line
}

// NewSnapshot builds a snapshot from lines, copying them.
func NewSnapshot(lines []Line) Snapshot {
	if len(lines) == 0 {
		return Snapshot{}
	}
	cp := make([]Line, len(lines))
	copy(cp, lines)
	return Snapshot{lines: cp}
}

// Lines returns a copy of the lines in cart order.
func (s Snapshot) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct lines.
func (s Snapshot) Len() int { return len(s.lines) }

// IsEmpty reports whether the cart has no lines.
func (s Snapshot) IsEmpty() bool { return len(s.lines) == 0 }

// Find returns the line with the given key.
func (s Snapshot) Find(k Key) (Line, bool) {
	if i := s.index(k); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// Contains reports whether a line with the given key exists.
func (s Snapshot) Contains(k Key) bool {
	return s.index(k) >= 0
}

// TotalPrice is a shorthand for TotalPrice(s).
func (s Snapshot) TotalPrice() float64 { return TotalPrice(s) }

// ItemCount is a shorthand for ItemCount(s).
func (s Snapshot) ItemCount() int { return ItemCount(s) }

func (s Snapshot) index(k Key) int {
	for i, l := range s.lines {
		if l.ProductID == k.ProductID && l.Size == k.Size {
			return i
		}
	}
	return -1
}

// AddItem merges quantity into the line matching the product's key, or appends a new line.
func AddItem(s Snapshot, p Product, quantity int) (Snapshot, error) {
	if quantity < 1 {
		return s, ErrInvalidQuantity
	}
	k := Key{ProductID: p.ID, Size: p.Size}
	if i := s.index(k); i >= 0 {
		next := NewSnapshot(s.lines)
		next.lines[i].Quantity += quantity
		return next, nil
	}
	next := make([]Line, len(s.lines), len(s.lines)+1)
	copy(next, s.lines)
	next = append(next, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Size:      p.Size,
		ImageRef:  p.ImageRef,
	})
	return Snapshot{lines: next}, nil
}

// RemoveItem drops the line with the given key. Missing keys are a no-op.
func RemoveItem(s Snapshot, k Key) Snapshot {
	i := s.index(k)
	if i < 0 {
		return s
	}
	next := make([]Line, 0, len(s.lines)-1)
	next = append(next, s.lines[:i]...)
	next = append(next, s.lines[i+1:]...)
	return Snapshot{lines: next}
}

// SetQuantity replaces the quantity of a line in place. A quantity of zero or less removes it.
func SetQuantity(s Snapshot, k Key, quantity int) Snapshot {
	if quantity <= 0 {
		return RemoveItem(s, k)
	}
	i := s.index(k)
	if i < 0 {
		return s
	}
	next := NewSnapshot(s.lines)
	next.lines[i].Quantity = quantity
	return next
}

// IncrementQuantity adds one to the line's quantity.
func IncrementQuantity(s Snapshot, k Key) Snapshot {
	l, ok := s.Find(k)
	if !ok {
		return s
	}
	return SetQuantity(s, k, l.Quantity+1)
}

// DecrementQuantity subtracts one from the line's quantity, removing the line at one.
func DecrementQuantity(s Snapshot, k Key) Snapshot {
	l, ok := s.Find(k)
	if !ok {
		return s
	}
	return SetQuantity(s, k, l.Quantity-1)
}

// Clear returns an empty snapshot.
func Clear() Snapshot {
	return Snapshot{}
}

// TotalPrice sums unit price times quantity over all lines. The sum is exact; only the final
// conversion to float64 can round.
func TotalPrice(s Snapshot) float64 {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(lineTotal(l))
	}
	return total.InexactFloat64()
}

// ItemCount sums the quantities of all lines.
func ItemCount(s Snapshot) int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func lineTotal(l Line) decimal.Decimal {
	return decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}
