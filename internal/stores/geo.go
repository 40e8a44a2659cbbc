package stores

import (
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between a and b using the haversine formula.
func DistanceKm(a, b Coordinates) float64 {
	if a == b {
		return 0
	}
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// NearestStore returns the location closest to pos. Ties keep the earliest location.
// ok is false when pos is nil or locs is empty.
func NearestStore(pos *Coordinates, locs []Location) (Ranked, bool) {
	if pos == nil || len(locs) == 0 {
		return Ranked{}, false
	}
	best := 0
	bestDist := DistanceKm(*pos, locs[0].Coordinates)
	for i := 1; i < len(locs); i++ {
		if d := DistanceKm(*pos, locs[i].Coordinates); d < bestDist {
			best, bestDist = i, d
		}
	}
	return Ranked{Location: locs[best], Distance: &bestDist}, true
}

// SortedByDistance ranks locs by ascending distance from pos; equal distances keep input order.
// With a nil pos the input order is kept and no distance is set.
func SortedByDistance(pos *Coordinates, locs []Location) []Ranked {
	out := make([]Ranked, len(locs))
	for i, l := range locs {
		out[i] = Ranked{Location: l}
		if pos != nil {
			d := DistanceKm(*pos, l.Coordinates)
			out[i].Distance = &d
		}
	}
	if pos == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	return out
}

// FormatDistance renders km as rounded meters below one kilometre, otherwise one-decimal kilometres.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}
