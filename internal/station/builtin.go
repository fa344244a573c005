// Package station resolves the recording stations nearest to an event
// epicenter, merging live FDSN directory queries with a builtin global
// reference list.
package station

import (
	"context"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
)

// BuiltinSourceID identifies the builtin reference catalog in station records.
const BuiltinSourceID = "builtin"

// globalStations is a fixed list of well-distributed, high-reliability
// broadband stations (GSN plus regional networks) spanning all continents.
// Used as a configured source and as the last-resort fallback when every
// live directory query fails or returns nothing.
var globalStations = []domain.Station{
	// Americas
	{Network: "IU", Code: "ANMO", Location: domain.GeoPoint{Lat: 34.9459, Lon: -106.4572}, Name: "Albuquerque, NM"},
	{Network: "IU", Code: "HRV", Location: domain.GeoPoint{Lat: 42.5064, Lon: -71.5583}, Name: "Harvard, MA"},
	{Network: "IU", Code: "COLA", Location: domain.GeoPoint{Lat: 64.8738, Lon: -147.8616}, Name: "College, AK"},
	{Network: "IU", Code: "CCM", Location: domain.GeoPoint{Lat: 38.0557, Lon: -91.2446}, Name: "Cathedral Cave, MO"},
	{Network: "US", Code: "WMOK", Location: domain.GeoPoint{Lat: 34.7367, Lon: -98.7707}, Name: "Wichita Mountains, OK"},
	{Network: "CI", Code: "PAS", Location: domain.GeoPoint{Lat: 34.1484, Lon: -118.1717}, Name: "Pasadena, CA"},
	{Network: "BK", Code: "BRK", Location: domain.GeoPoint{Lat: 37.8735, Lon: -122.2609}, Name: "Berkeley, CA"},
	{Network: "HV", Code: "KIP", Location: domain.GeoPoint{Lat: 21.4233, Lon: -158.0095}, Name: "Kipapa, HI"},
	{Network: "IU", Code: "SSPA", Location: domain.GeoPoint{Lat: -40.3084, Lon: -70.8601}, Name: "San Martin, Argentina"},
	{Network: "GT", Code: "PLCA", Location: domain.GeoPoint{Lat: -31.6729, Lon: -63.8792}, Name: "Paso Flores, Argentina"},

	// Europe & Middle East
	{Network: "IU", Code: "KONO", Location: domain.GeoPoint{Lat: 59.6491, Lon: 9.5982}, Name: "Kongsberg, Norway"},
	{Network: "IU", Code: "KEV", Location: domain.GeoPoint{Lat: 69.7565, Lon: 27.0035}, Name: "Kevo, Finland"},
	{Network: "IU", Code: "KIEV", Location: domain.GeoPoint{Lat: 50.7012, Lon: 29.2242}, Name: "Kiev, Ukraine"},
	{Network: "IU", Code: "PAB", Location: domain.GeoPoint{Lat: 39.5446, Lon: 4.3499}, Name: "San Pablo, Spain"},
	{Network: "GE", Code: "WLF", Location: domain.GeoPoint{Lat: 49.6555, Lon: 6.1508}, Name: "Walferdange, Luxembourg"},
	{Network: "GE", Code: "APE", Location: domain.GeoPoint{Lat: 40.8204, Lon: 14.4297}, Name: "Apennines, Italy"},
	{Network: "II", Code: "ANTO", Location: domain.GeoPoint{Lat: 39.8683, Lon: 32.7934}, Name: "Ankara, Turkey"},
	{Network: "HL", Code: "JER", Location: domain.GeoPoint{Lat: 31.7730, Lon: 35.2045}, Name: "Jerusalem, Israel"},

	// Asia & Pacific
	{Network: "IU", Code: "MAJO", Location: domain.GeoPoint{Lat: 36.5457, Lon: 138.2041}, Name: "Matsushiro, Japan"},
	{Network: "IU", Code: "TATO", Location: domain.GeoPoint{Lat: 24.9735, Lon: 121.4971}, Name: "Taipei, Taiwan"},
	{Network: "IU", Code: "ULN", Location: domain.GeoPoint{Lat: 47.8651, Lon: 107.0532}, Name: "Ulaanbaatar, Mongolia"},
	{Network: "IU", Code: "MAKZ", Location: domain.GeoPoint{Lat: 46.8080, Lon: 82.1283}, Name: "Makanchi, Kazakhstan"},
	{Network: "IU", Code: "TEIG", Location: domain.GeoPoint{Lat: 20.2263, Lon: 92.7936}, Name: "Teigaga, Myanmar"},
	{Network: "II", Code: "NIL", Location: domain.GeoPoint{Lat: 33.6506, Lon: 73.2686}, Name: "Nilore, Pakistan"},
	{Network: "IU", Code: "GUMO", Location: domain.GeoPoint{Lat: 13.5893, Lon: 144.8684}, Name: "Guam, Mariana Is"},
	{Network: "IU", Code: "FUNA", Location: domain.GeoPoint{Lat: -8.5259, Lon: 179.1966}, Name: "Funafuti, Tuvalu"},
	{Network: "GE", Code: "SUMG", Location: domain.GeoPoint{Lat: -0.5527, Lon: 100.2381}, Name: "Sumatra, Indonesia"},
	{Network: "AU", Code: "ARMA", Location: domain.GeoPoint{Lat: -30.6267, Lon: 151.9501}, Name: "Armidale, Australia"},
	{Network: "AU", Code: "EIDS", Location: domain.GeoPoint{Lat: -26.3912, Lon: 116.7975}, Name: "Emu Heights, Australia"},

	// Polar regions
	{Network: "IU", Code: "PMSA", Location: domain.GeoPoint{Lat: -64.7744, Lon: -64.0489}, Name: "Palmer Station, Antarctica"},
	{Network: "IU", Code: "QSPA", Location: domain.GeoPoint{Lat: -89.9289, Lon: 144.4382}, Name: "South Pole, Antarctica"},
}

// BuiltinCatalog serves the fixed global reference station list.
type BuiltinCatalog struct{}

// NewBuiltinCatalog returns the builtin global reference catalog.
func NewBuiltinCatalog() *BuiltinCatalog {
	return &BuiltinCatalog{}
}

func (c *BuiltinCatalog) SourceID() string { return BuiltinSourceID }

// Stations returns the builtin stations within maxRadiusKm of center.
func (c *BuiltinCatalog) Stations(_ context.Context, center domain.GeoPoint, maxRadiusKm float64) ([]domain.Station, error) {
	var out []domain.Station
	for _, s := range globalStations {
		if domain.DistanceKm(center, s.Location) <= maxRadiusKm {
			s.SourceID = BuiltinSourceID
			out = append(out, s)
		}
	}
	return out, nil
}
