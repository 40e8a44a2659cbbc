package stores

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// StoreType classifies a shop.
type StoreType string

const (
	TypeFlagship StoreType = "flagship"
	TypeBoutique StoreType = "boutique"
	TypeCorner   StoreType = "corner"
)

// TypeLabels are the display names of store types.
var TypeLabels = map[StoreType]string{
	TypeFlagship: "Boutique Principale",
	TypeBoutique: "Boutique",
	TypeCorner:   "Corner",
}

// Feature is an amenity offered by a store.
type Feature string

const (
	FeatureParking        Feature = "parking"
	FeatureWifi           Feature = "wifi"
	FeatureDisabledAccess Feature = "disabled_access"
	FeaturePaymentCard    Feature = "payment_card"
	FeatureGiftWrapping   Feature = "gift_wrapping"
	FeatureOnlinePickup   Feature = "online_pickup"
)

// FeatureLabels are the display names of features.
var FeatureLabels = map[Feature]string{
	FeatureParking:        "Parking",
	FeatureWifi:           "Wi-Fi Gratuit",
	FeatureDisabledAccess: "Accès PMR",
	FeaturePaymentCard:    "Paiement CB",
	FeatureGiftWrapping:   "Emballage Cadeau",
	FeatureOnlinePickup:   "Retrait Commande",
}

// Location is one physical store. Locations are reference data and never mutated after load.
type Location struct {
	ID          string      `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Address     string      `json:"address"`
	Phone       string      `json:"phone"`
	Hours       string      `json:"hours"`
	Coordinates Coordinates `json:"coordinates"`
	Type        StoreType   `json:"type" validate:"required,oneof=flagship boutique corner"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Features    []Feature   `json:"features,omitempty" validate:"dive,oneof=parking wifi disabled_access payment_card gift_wrapping online_pickup"`
	Rating      float64     `json:"rating,omitempty" validate:"gte=0,lte=5"`
	ReviewCount int         `json:"reviewCount,omitempty" validate:"gte=0"`
}

// HasFeature reports whether the store offers f.
func (l Location) HasFeature(f Feature) bool {
	for _, have := range l.Features {
		if have == f {
			return true
		}
	}
	return false
}

// Ranked is a location with its distance from the user. Distance is nil when no position was known.
type Ranked struct {
	Location
	Distance *float64 `json:"distance,omitempty"`
}

// Region is a map viewport.
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// DefaultRegion frames the Casablanca stores.
var DefaultRegion = Region{Latitude: 33.5731, Longitude: -7.5898, LatitudeDelta: 0.1, LongitudeDelta: 0.1}
