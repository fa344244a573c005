package station

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
	"github.com/Tejaji-0/earthquake-detector/internal/observability"
)

// Resolver produces the deduplicated, distance-ranked station subset for an
// event location. Catalog sources are queried in order; a source that errors
// or returns nothing is logged and skipped, never fatal.
type Resolver struct {
	sources  []domain.StationCatalog
	fallback domain.StationCatalog
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewResolver creates a Resolver over the configured catalog sources.
// fallback (typically the builtin global list) is consulted only when every
// source fails or yields zero stations; pass nil to disable the fallback.
func NewResolver(sources []domain.StationCatalog, fallback domain.StationCatalog, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		sources:  sources,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve returns at most maxResults stations within maxRadiusKm of center,
// sorted ascending by distance (ties broken by identity key). Duplicate
// identities across sources keep the occurrence with the smallest distance.
// An empty result is a valid, non-error outcome.
func (r *Resolver) Resolve(ctx context.Context, center domain.GeoPoint, maxRadiusKm float64, maxResults int) []domain.RankedStation {
	pool := r.collect(ctx, r.sources, center, maxRadiusKm)

	if len(pool) == 0 && r.fallback != nil {
		r.logger.Warn("no stations from any catalog source, using fallback list",
			"lat", center.Lat, "lon", center.Lon, "radius_km", maxRadiusKm)
		pool = r.collect(ctx, []domain.StationCatalog{r.fallback}, center, maxRadiusKm)
	}

	ranked := dedupeNearest(pool)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].Key() < ranked[j].Key()
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

// collect queries each catalog, ranks candidates by distance, and enforces
// the radius filter regardless of what the catalog returned.
func (r *Resolver) collect(ctx context.Context, catalogs []domain.StationCatalog, center domain.GeoPoint, maxRadiusKm float64) []domain.RankedStation {
	var pool []domain.RankedStation
	for _, cat := range catalogs {
		stations, err := cat.Stations(ctx, center, maxRadiusKm)
		if err != nil {
			r.metrics.CatalogSourceErrors.WithLabelValues(cat.SourceID()).Inc()
			r.logger.Warn("station catalog query failed, continuing",
				"source", cat.SourceID(), "error", err)
			continue
		}
		for _, s := range stations {
			d := domain.DistanceKm(center, s.Location)
			if d > maxRadiusKm {
				continue
			}
			pool = append(pool, domain.RankedStation{Station: s, DistanceKm: d})
		}
	}
	return pool
}

// dedupeNearest collapses duplicate identity keys, keeping the occurrence
// with the smallest distance; exact ties keep the first seen.
func dedupeNearest(pool []domain.RankedStation) []domain.RankedStation {
	best := make(map[string]int, len(pool))
	out := make([]domain.RankedStation, 0, len(pool))

	for _, s := range pool {
		key := s.Key()
		if i, ok := best[key]; ok {
			if s.DistanceKm < out[i].DistanceKm {
				out[i] = s
			}
			continue
		}
		best[key] = len(out)
		out = append(out, s)
	}
	return out
}
