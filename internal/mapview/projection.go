// Package mapview positions listings on the decorative results map. The
// projection is a fixed linear mapping around a hard-coded center; it is not
// a geographic projection.
package mapview

import "github.com/wolfman30/dentfinder/internal/listings"

const (
	CenterLat = 40.7484
	CenterLng = -73.9857
	// Scale is percent of the map per degree.
	Scale = 250.0

	MinPercent = 10.0
	MaxPercent = 90.0
)

// Point is a position in percent of the map's width (X) and height (Y).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project maps a coordinate to a percent position kept inside the visible band.
func Project(lat, lng float64) Point {
	return Point{
		X: clamp(50+(lng-CenterLng)*Scale, MinPercent, MaxPercent),
		Y: clamp(50-(lat-CenterLat)*Scale, MinPercent, MaxPercent),
	}
}

// Marker is one pin on the map.
type Marker struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Position      Point  `json:"position"`
	NetworkMember bool   `json:"network_member"`
	Selected      bool   `json:"selected"`
}

// Markers projects every listing; the one matching selectedID is flagged.
func Markers(items []listings.Listing, selectedID string) []Marker {
	out := make([]Marker, 0, len(items))
	for _, l := range items {
		out = append(out, Marker{
			ID:            l.ID,
			Name:          l.Name,
			Position:      Project(l.Latitude, l.Longitude),
			NetworkMember: l.NetworkMember,
			Selected:      selectedID != "" && l.ID == selectedID,
		})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
