package stores

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stadium = Coordinates{Latitude: 33.5731, Longitude: -7.6174}
	mall    = Coordinates{Latitude: 33.5465, Longitude: -7.6709}
)

func TestDistanceKm(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(stadium, stadium))
	assert.Equal(t, DistanceKm(stadium, mall), DistanceKm(mall, stadium))

	d := DistanceKm(stadium, mall)
	assert.InDelta(t, 5.77, d, 0.05)
	assert.Greater(t, d, 0.0)

	// antipodes stay finite
	far := DistanceKm(Coordinates{0, 0}, Coordinates{0, 180})
	assert.False(t, math.IsNaN(far))
	assert.InDelta(t, math.Pi*EarthRadiusKm, far, 1e-6)
}

func TestNearestStore(t *testing.T) {
	locs := []Location{
		{ID: "1", Coordinates: stadium},
		{ID: "2", Coordinates: mall},
	}

	got, ok := NearestStore(&stadium, locs)
	require.True(t, ok)
	assert.Equal(t, "1", got.ID)
	require.NotNil(t, got.Distance)
	assert.InDelta(t, 0.0, *got.Distance, 1e-9)

	got, ok = NearestStore(&Coordinates{Latitude: 33.55, Longitude: -7.67}, locs)
	require.True(t, ok)
	assert.Equal(t, "2", got.ID)

	_, ok = NearestStore(nil, locs)
	assert.False(t, ok)
	_, ok = NearestStore(&stadium, nil)
	assert.False(t, ok)
}

func TestNearestStore_TiesKeepFirst(t *testing.T) {
	locs := []Location{
		{ID: "a", Coordinates: mall},
		{ID: "b", Coordinates: mall},
	}
	got, ok := NearestStore(&stadium, locs)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestSortedByDistance(t *testing.T) {
	locs := DefaultCatalog().All()

	ranked := SortedByDistance(&mall, locs)
	require.Len(t, ranked, len(locs))
	assert.Equal(t, "2", ranked[0].ID)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, *ranked[i-1].Distance, *ranked[i].Distance)
	}

	unranked := SortedByDistance(nil, locs)
	for i, r := range unranked {
		assert.Equal(t, locs[i].ID, r.ID)
		assert.Nil(t, r.Distance)
	}

	assert.Empty(t, SortedByDistance(&mall, nil))
}

func TestFormatDistance(t *testing.T) {
	cases := map[float64]string{
		0:      "0m",
		0.75:   "750m",
		0.0004: "0m",
		0.9994: "999m",
		1:      "1.0km",
		2.345:  "2.3km",
		12.96:  "13.0km",
	}
	for km, want := range cases {
		assert.Equal(t, want, FormatDistance(km), "km=%v", km)
	}
}
