package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jersey = Product{ID: "p1", Name: "Home Jersey", Price: 450, Size: "M", ImageRef: "img/p1.png"}
	scarf  = Product{ID: "p2", Name: "Scarf", Price: 120}
)

func keyOf(p Product) Key { return Key{ProductID: p.ID, Size: p.Size} }

func TestAddItem_MergesSameKey(t *testing.T) {
	s, err := AddItem(Snapshot{}, Product{ID: "p1", Name: "Jersey", Price: 450}, 1)
	require.NoError(t, err)
	s, err = AddItem(s, Product{ID: "p1", Name: "Jersey", Price: 450}, 2)
	require.NoError(t, err)

	require.Equal(t, 1, s.Len())
	line, ok := s.Find(Key{ProductID: "p1"})
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 1350.0, TotalPrice(s))
	assert.Equal(t, 3, ItemCount(s))
}

func TestAddItem_QuantityIsSumOfAdds(t *testing.T) {
	adds := []int{1, 4, 2, 7, 1}
	s := Snapshot{}
	want := 0
	for _, q := range adds {
		var err error
		s, err = AddItem(s, jersey, q)
		require.NoError(t, err)
		want += q
	}
	require.Equal(t, 1, s.Len())
	line, _ := s.Find(keyOf(jersey))
	assert.Equal(t, want, line.Quantity)
}

func TestAddItem_SizeIsPartOfIdentity(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 1)
	large := jersey
	large.Size = "L"
	s, _ = AddItem(s, large, 1)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(Key{ProductID: "p1", Size: "M"}))
	assert.True(t, s.Contains(Key{ProductID: "p1", Size: "L"}))
	assert.False(t, s.Contains(Key{ProductID: "p1"}))
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 2)

	for _, q := range []int{0, -1} {
		got, err := AddItem(s, scarf, q)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, s.Lines(), got.Lines())
	}
}

func TestAddItem_AppendsAndKeepsOrder(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 1)
	s, _ = AddItem(s, scarf, 1)
	s, _ = AddItem(s, jersey, 1)

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "p2", lines[1].ProductID)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	before, _ := AddItem(Snapshot{}, jersey, 1)
	after, _ := AddItem(before, jersey, 5)
	_ = SetQuantity(before, keyOf(jersey), 9)

	line, _ := before.Find(keyOf(jersey))
	assert.Equal(t, 1, line.Quantity)
	line, _ = after.Find(keyOf(jersey))
	assert.Equal(t, 6, line.Quantity)

	lines := after.Lines()
	lines[0].Quantity = 100
	line, _ = after.Find(keyOf(jersey))
	assert.Equal(t, 6, line.Quantity)
}

func TestRemoveItem(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 1)
	s, _ = AddItem(s, scarf, 1)

	s = RemoveItem(s, keyOf(jersey))
	require.Equal(t, 1, s.Len())
	assert.False(t, s.Contains(keyOf(jersey)))

	same := RemoveItem(s, Key{ProductID: "missing"})
	assert.Equal(t, s.Lines(), same.Lines())
}

func TestSetQuantity(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 1)
	s, _ = AddItem(s, scarf, 1)

	s = SetQuantity(s, keyOf(jersey), 5)
	lines := s.Lines()
	assert.Equal(t, "p1", lines[0].ProductID, "position preserved")
	assert.Equal(t, 5, lines[0].Quantity)

	s = SetQuantity(s, keyOf(jersey), 0)
	assert.False(t, s.Contains(keyOf(jersey)))

	s = SetQuantity(s, keyOf(scarf), -3)
	assert.True(t, s.IsEmpty())
}

func TestDecrementQuantity_RemovesAtOne(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 1)
	s = DecrementQuantity(s, keyOf(jersey))
	assert.True(t, s.IsEmpty())

	s, _ = AddItem(Snapshot{}, jersey, 2)
	s = DecrementQuantity(s, keyOf(jersey))
	line, ok := s.Find(keyOf(jersey))
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	s = DecrementQuantity(s, keyOf(jersey))
	assert.True(t, s.IsEmpty())

	// further decrements never go negative
	s = DecrementQuantity(s, keyOf(jersey))
	assert.True(t, s.IsEmpty())
}

func TestIncrementQuantity(t *testing.T) {
	s, _ := AddItem(Snapshot{}, scarf, 1)
	s = IncrementQuantity(s, keyOf(scarf))
	line, _ := s.Find(keyOf(scarf))
	assert.Equal(t, 2, line.Quantity)

	s = IncrementQuantity(s, Key{ProductID: "missing"})
	assert.Equal(t, 1, s.Len())
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, 0.0, TotalPrice(Snapshot{}))
	assert.Equal(t, 0, ItemCount(Snapshot{}))

	s := NewSnapshot([]Line{
		{ProductID: "a", UnitPrice: 100, Quantity: 1},
		{ProductID: "b", UnitPrice: 50, Quantity: 2},
	})
	assert.Equal(t, 200.0, s.TotalPrice())
	assert.Equal(t, 3, s.ItemCount())

	// decimal sum avoids float drift
	s = NewSnapshot([]Line{
		{ProductID: "a", UnitPrice: 0.1, Quantity: 1},
		{ProductID: "b", UnitPrice: 0.2, Quantity: 1},
	})
	assert.Equal(t, 0.3, TotalPrice(s))

	// sub-cent prices are summed as is
	s = NewSnapshot([]Line{
		{ProductID: "a", UnitPrice: 0.005, Quantity: 3},
		{ProductID: "b", UnitPrice: 0.001, Quantity: 1},
	})
	assert.Equal(t, 0.016, TotalPrice(s))
}

func TestClear(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 3)
	s = Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0.0, s.TotalPrice())
}
