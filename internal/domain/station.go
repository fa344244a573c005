package domain

import "fmt"

// GeoPoint is a WGS-84 latitude/longitude coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Station is one candidate recording station from a catalog source.
type Station struct {
	Network   string   `json:"network"`
	Code      string   `json:"station"`
	Location  GeoPoint `json:"location"`
	Name      string   `json:"name,omitempty"`
	Elevation float64  `json:"elevation,omitempty"`
	SourceID  string   `json:"source,omitempty"` // catalog/data centre that produced this record
}

// Key returns the station identity key. Two Station records with the same key
// are the same physical station regardless of which source reported them.
func (s Station) Key() string {
	return fmt.Sprintf("%s.%s", s.Network, s.Code)
}

// RankedStation is a Station with its distance from a query point.
type RankedStation struct {
	Station
	DistanceKm float64 `json:"distance_km"`
}
