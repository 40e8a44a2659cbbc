package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSnapshot_StoresLineFieldsOnly(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 2)

	b, err := MarshalSnapshot(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","name":"Home Jersey","unitPrice":450,"quantity":2,"size":"M","imageRef":"img/p1.png"}]`, string(b))

	b, err = MarshalSnapshot(Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestUnmarshalSnapshot_RoundTrip(t *testing.T) {
	s, _ := AddItem(Snapshot{}, jersey, 2)
	s, _ = AddItem(s, scarf, 1)
	b, _ := MarshalSnapshot(s)

	got, err := UnmarshalSnapshot(b)
	require.NoError(t, err)
	assert.Equal(t, s.Lines(), got.Lines())
	assert.Equal(t, s.TotalPrice(), got.TotalPrice())
}

func TestUnmarshalSnapshot_RejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{{{`,
		"object":         `{"productId":"p1"}`,
		"zero quantity":  `[{"productId":"p1","unitPrice":1,"quantity":0}]`,
		"negative price": `[{"productId":"p1","unitPrice":-1,"quantity":1}]`,
		"no product":     `[{"unitPrice":1,"quantity":1}]`,
		"duplicate key":  `[{"productId":"p1","quantity":1},{"productId":"p1","quantity":2}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalSnapshot([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestUnmarshalSnapshot_SameProductDifferentSizes(t *testing.T) {
	got, err := UnmarshalSnapshot([]byte(`[{"productId":"p1","size":"M","quantity":1},{"productId":"p1","size":"L","quantity":2}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 3, got.ItemCount())
}
