package fdsn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
)

// Stations queries the data centre's station directory for candidates within
// maxRadiusKm of center, using the pipe-delimited text format.
func (c *Client) Stations(ctx context.Context, center domain.GeoPoint, maxRadiusKm float64) ([]domain.Station, error) {
	params := url.Values{
		"format":    {"text"},
		"level":     {"station"},
		"latitude":  {strconv.FormatFloat(center.Lat, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(center.Lon, 'f', 4, 64)},
		"maxradius": {strconv.FormatFloat(maxRadiusKm/kmPerDegree, 'f', 4, 64)},
		"starttime": {"1990-01-01T00:00:00"},
		"endtime":   {"2024-01-01T00:00:00"},
	}
	fullURL := fmt.Sprintf("%s/fdsnws/station/1/query?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, fullURL, "station")
	if err != nil {
		return nil, err
	}

	return c.parseStationText(string(body)), nil
}

// parseStationText parses the FDSN text format:
//
//	#Network|Station|Latitude|Longitude|Elevation|SiteName|StartTime|EndTime
//
// Header and comment lines start with '#'. Malformed lines are logged and
// skipped rather than failing the whole response.
func (c *Client) parseStationText(text string) []domain.Station {
	var stations []domain.Station
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 5 {
			c.logger.Debug("skipping malformed station line", "source", c.sourceID, "line", line)
			continue
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if errLat != nil || errLon != nil {
			c.logger.Debug("skipping station line with bad coordinates", "source", c.sourceID, "line", line)
			continue
		}

		s := domain.Station{
			Network:  strings.TrimSpace(parts[0]),
			Code:     strings.TrimSpace(parts[1]),
			Location: domain.GeoPoint{Lat: lat, Lon: lon},
			SourceID: c.sourceID,
		}
		if elev, err := strconv.ParseFloat(strings.TrimSpace(parts[4]), 64); err == nil {
			s.Elevation = elev
		}
		if len(parts) >= 6 {
			s.Name = strings.TrimSpace(parts[5])
		}
		stations = append(stations, s)
	}
	return stations
}
