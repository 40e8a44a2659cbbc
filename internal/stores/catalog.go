package stores

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyCatalog is returned when a catalog file holds no stores.
var ErrEmptyCatalog = errors.New("store catalog is empty")

// Catalog is the immutable set of stores served by the locator.
type Catalog struct {
	locations []Location
	byID      map[string]int
}

// NewCatalog copies locs into a catalog. Duplicate ids are rejected.
func NewCatalog(locs []Location) (*Catalog, error) {
	c := &Catalog{
		locations: make([]Location, len(locs)),
		byID:      make(map[string]int, len(locs)),
	}
	for i, l := range locs {
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate store id %q", l.ID)
		}
		c.locations[i] = clone(l)
		c.byID[l.ID] = i
	}
	return c, nil
}

// DefaultCatalog returns the built-in club stores.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultLocations)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile reads a JSON array of locations and validates every entry.
func LoadFile(path string, v *validator.Validate) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store catalog: %w", err)
	}
	var locs []Location
	if err := json.Unmarshal(raw, &locs); err != nil {
		return nil, fmt.Errorf("decode store catalog: %w", err)
	}
	if len(locs) == 0 {
		return nil, ErrEmptyCatalog
	}
	if v == nil {
		v = validator.New()
	}
	for i := range locs {
		if err := v.Struct(locs[i]); err != nil {
			return nil, fmt.Errorf("store %d (%q): %w", i, locs[i].ID, err)
		}
	}
	return NewCatalog(locs)
}

// All returns a copy of every location in catalog order.
func (c *Catalog) All() []Location {
	out := make([]Location, len(c.locations))
	for i, l := range c.locations {
		out[i] = clone(l)
	}
	return out
}

// Len returns the number of stores.
func (c *Catalog) Len() int { return len(c.locations) }

// ByID looks a store up by id.
func (c *Catalog) ByID(id string) (Location, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Location{}, false
	}
	return clone(c.locations[i]), true
}

// ByType returns the stores of type t.
func (c *Catalog) ByType(t StoreType) []Location {
	return c.filter(func(l Location) bool { return l.Type == t })
}

// WithFeature returns the stores offering f.
func (c *Catalog) WithFeature(f Feature) []Location {
	return c.filter(func(l Location) bool { return l.HasFeature(f) })
}

// Flagships returns the flagship stores.
func (c *Catalog) Flagships() []Location {
	return c.ByType(TypeFlagship)
}

func (c *Catalog) filter(keep func(Location) bool) []Location {
	out := []Location{}
	for _, l := range c.locations {
		if keep(l) {
			out = append(out, clone(l))
		}
	}
	return out
}

var defaultLocations = []Location{
	{
		ID:          "1",
		Name:        "Boutique Officielle - Stade Mohammed V",
		Address:     "Boulevard de la Corniche, Casablanca",
		Phone:       "+212 522 270 927",
		Hours:       "9h00 - 20h00 (7j/7)",
		Coordinates: Coordinates{Latitude: 33.5731, Longitude: -7.6174},
		Type:        TypeFlagship,
		Description: "Boutique principale située au mythique Stade Mohammed V. La plus grande boutique officielle du Wydad avec l'assortiment le plus complet.",
		Image:       "https://images.unsplash.com/photo-1441984904996-e0b6ba687e04?w=800",
		Features:    []Feature{FeatureParking, FeatureDisabledAccess, FeaturePaymentCard, FeatureGiftWrapping, FeatureOnlinePickup},
		Rating:      4.8,
		ReviewCount: 156,
	},
	{
		ID:          "2",
		Name:        "Wydad Store - Morocco Mall",
		Address:     "Morocco Mall, Ain Diab, Casablanca",
		Phone:       "+212 522 298 000",
		Hours:       "10h00 - 22h00",
		Coordinates: Coordinates{Latitude: 33.5465, Longitude: -7.6709},
		Type:        TypeBoutique,
		Description: "Point de vente situé dans le plus grand centre commercial du Maroc. Large sélection de produits officiels.",
		Image:       "https://images.unsplash.com/photo-1555529669-e69e7aa0ba9a?w=800",
		Features:    []Feature{FeatureParking, FeatureWifi, FeatureDisabledAccess, FeaturePaymentCard, FeatureGiftWrapping},
		Rating:      4.6,
		ReviewCount: 89,
	},
	{
		ID:          "3",
		Name:        "Wydad Corner - Anfa Place",
		Address:     "Anfa Place Living Resort, Casablanca",
		Phone:       "+212 522 399 999",
		Hours:       "10h00 - 21h00",
		Coordinates: Coordinates{Latitude: 33.5892, Longitude: -7.6327},
		Type:        TypeCorner,
		Description: "Corner moderne dans le complexe Anfa Place. Sélection exclusive de produits premium.",
		Image:       "https://images.unsplash.com/photo-1572883454114-1cf0031ede2a?w=800",
		Features:    []Feature{FeatureParking, FeatureDisabledAccess, FeaturePaymentCard},
		Rating:      4.5,
		ReviewCount: 67,
	},
	{
		ID:          "4",
		Name:        "Boutique Wydad - Centre-Ville",
		Address:     "Boulevard Mohammed V, Casablanca",
		Phone:       "+212 522 271 818",
		Hours:       "9h30 - 19h30 (Lun-Sam)",
		Coordinates: Coordinates{Latitude: 33.5896, Longitude: -7.6184},
		Type:        TypeBoutique,
		Description: "Boutique historique située au cœur de Casablanca. Proche de tous les transports en commun.",
		Image:       "https://images.unsplash.com/photo-1528698827591-e19ccd7bc23d?w=800",
		Features:    []Feature{FeaturePaymentCard, FeatureGiftWrapping, FeatureOnlinePickup},
		Rating:      4.7,
		ReviewCount: 124,
	},
}

func clone(l Location) Location {
	l.Features = append([]Feature(nil), l.Features...)
	return l
}
