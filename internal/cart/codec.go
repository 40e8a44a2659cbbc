package cart

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MarshalSnapshot serializes the cart lines verbatim. Derived totals are not stored.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}
	return b, nil
}

// UnmarshalSnapshot parses a saved cart. Data that would break the cart invariants is rejected as a whole.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal cart: %w", err)
	}
	seen := make(map[Key]struct{}, len(lines))
	for i, l := range lines {
		switch {
		case l.ProductID == "":
			return Snapshot{}, fmt.Errorf("line %d: %w", i, errors.New("missing product id"))
		case l.Quantity < 1:
			return Snapshot{}, fmt.Errorf("line %d: %w", i, ErrInvalidQuantity)
		case l.UnitPrice < 0:
			return Snapshot{}, fmt.Errorf("line %d: negative unit price %v", i, l.UnitPrice)
		}
		if _, dup := seen[l.Key()]; dup {
			return Snapshot{}, fmt.Errorf("line %d: duplicate line for product %q size %q", i, l.ProductID, l.Size)
		}
		seen[l.Key()] = struct{}{}
	}
	return NewSnapshot(lines), nil
}
