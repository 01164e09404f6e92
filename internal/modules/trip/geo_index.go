// README: Redis GEO index of trip origins, used for nearby lookups.
package trip

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"carona/internal/types"
)

// OriginGeoKey is the sorted set holding trip origins.
const OriginGeoKey = "trips:origins"

type GeoIndex struct {
	redis *redis.Client
}

func NewGeoIndex(redis *redis.Client) *GeoIndex {
	return &GeoIndex{redis: redis}
}

// Put adds the trip origin or moves it if already indexed.
func (g *GeoIndex) Put(ctx context.Context, id uuid.UUID, origin types.Point) error {
	return g.redis.GeoAdd(ctx, OriginGeoKey, &redis.GeoLocation{
		Name:      id.String(),
		Longitude: origin.Lng,
		Latitude:  origin.Lat,
	}).Err()
}

func (g *GeoIndex) Remove(ctx context.Context, id uuid.UUID) error {
	return g.redis.ZRem(ctx, OriginGeoKey, id.String()).Err()
}

// Nearby returns trip ids ordered by distance from center, closest first.
func (g *GeoIndex) Nearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]uuid.UUID, error) {
	results, err := g.redis.GeoSearch(ctx, OriginGeoKey, &redis.GeoSearchQuery{
		Longitude:  center.Lng,
		Latitude:   center.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(results))
	for _, r := range results {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("geo index member %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
