package stores

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoPosition means the caller did not share a position.
var ErrNoPosition = errors.New("no position")

// PositionSource yields the user's current position. Any error means the position is unknown.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// ResolvePosition asks src for a position and returns nil when none is available.
func ResolvePosition(ctx context.Context, src PositionSource) *Coordinates {
	if src == nil {
		return nil
	}
	pos, err := src.CurrentPosition(ctx)
	if err != nil {
		return nil
	}
	return &pos
}

// QueryPosition is a position passed as decimal strings, e.g. from ?lat=&lon= query parameters.
type QueryPosition struct {
	Lat string
	Lon string
}

// CurrentPosition parses the query values. Both empty yields ErrNoPosition.
func (q QueryPosition) CurrentPosition(context.Context) (Coordinates, error) {
	return ParsePosition(q.Lat, q.Lon)
}

// ParsePosition parses and range-checks a latitude/longitude pair.
func ParsePosition(lat, lon string) (Coordinates, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" && lon == "" {
		return Coordinates{}, ErrNoPosition
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}
	if la < -90 || la > 90 || lo < -180 || lo > 180 {
		return Coordinates{}, fmt.Errorf("position %v,%v out of range", la, lo)
	}
	return Coordinates{Latitude: la, Longitude: lo}, nil
}
