package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-clubshop/internal/stores"
)

type storeView struct {
	stores.Ranked
	TypeLabel     string   `json:"typeLabel"`
	FeatureLabels []string `json:"featureLabels,omitempty"`
	DistanceLabel string   `json:"distanceLabel,omitempty"`
	OpenNow       bool     `json:"openNow"`
	PhoneLink     string   `json:"phoneLink,omitempty"`
	MapsLink      string   `json:"mapsLink"`
}

func (a *API) view(r stores.Ranked) storeView {
	v := storeView{
		Ranked:    r,
		TypeLabel: stores.TypeLabels[r.Type],
		OpenNow:   stores.IsOpen(r.Hours, a.now().In(stores.Zone())),
		PhoneLink: stores.PhoneLink(r.Phone),
		MapsLink:  stores.MapsLink(r.Coordinates),
	}
	for _, f := range r.Features {
		v.FeatureLabels = append(v.FeatureLabels, stores.FeatureLabels[f])
	}
	if r.Distance != nil {
		v.DistanceLabel = stores.FormatDistance(*r.Distance)
	}
	return v
}

// position reads ?lat=&lon=. A nil position with ok=true means none was given.
func position(c *gin.Context) (*stores.Coordinates, bool) {
	pos, err := stores.ParsePosition(c.Query("lat"), c.Query("lon"))
	if errors.Is(err, stores.ErrNoPosition) {
		return nil, true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_position", "detail": err.Error()})
		return nil, false
	}
	return &pos, true
}

// listStores ranks the catalog by distance when the caller shares a usable position; otherwise the
// catalog order is kept.
func (a *API) listStores(c *gin.Context) {
	pos := stores.ResolvePosition(c.Request.Context(), stores.QueryPosition{Lat: c.Query("lat"), Lon: c.Query("lon")})

	locs := a.catalog.All()
	if f := stores.Feature(c.Query("feature")); f != "" {
		if _, known := stores.FeatureLabels[f]; !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_feature"})
			return
		}
		locs = a.catalog.WithFeature(f)
	}
	if t := stores.StoreType(c.Query("type")); t != "" {
		if _, known := stores.TypeLabels[t]; !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_store_type"})
			return
		}
		kept := locs[:0]
		for _, l := range locs {
			if l.Type == t {
				kept = append(kept, l)
			}
		}
		locs = kept
	}

	ranked := stores.SortedByDistance(pos, locs)
	out := make([]storeView, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, a.view(r))
	}
	c.JSON(http.StatusOK, gin.H{"stores": out, "region": stores.DefaultRegion})
}

func (a *API) nearestStore(c *gin.Context) {
	pos, ok := position(c)
	if !ok {
		return
	}
	if pos == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position_required"})
		return
	}
	nearest, found := stores.NearestStore(pos, a.catalog.All())
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no_stores"})
		return
	}
	c.JSON(http.StatusOK, a.view(nearest))
}

func (a *API) getStore(c *gin.Context) {
	loc, ok := a.catalog.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "store_not_found"})
		return
	}
	pos, ok := position(c)
	if !ok {
		return
	}
	r := stores.Ranked{Location: loc}
	if pos != nil {
		d := stores.DistanceKm(*pos, loc.Coordinates)
		r.Distance = &d
	}
	c.JSON(http.StatusOK, a.view(r))
}
