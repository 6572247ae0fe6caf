package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vanshika/heliumtrace/internal/graph"
)

// Repository encapsulates read-only graph queries over the Helium ledger.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) read(ctx context.Context, name, cypher string, params map[string]any) ([]graph.Record, error) {
	res, err := r.client.ExecuteRead(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", name, err)
	}
	return res.Records, nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// toAddress reads an address column and strips any collection prefix.
func toAddress(val any) string {
	return graph.StripCollection(toString(val))
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toPoint(val any) (graph.Point, bool) {
	switch v := val.(type) {
	case graph.Point:
		return v, true
	case *graph.Point:
		if v == nil {
			return graph.Point{}, false
		}
		return *v, true
	case map[string]any:
		lat, latOK := v["latitude"].(float64)
		lon, lonOK := v["longitude"].(float64)
		return graph.Point{Latitude: lat, Longitude: lon}, latOK && lonOK
	default:
		return graph.Point{}, false
	}
}

func toUnixTime(val any) time.Time {
	switch v := val.(type) {
	case time.Time:
		return v.UTC()
	case nil:
		return time.Time{}
	default:
		return time.Unix(toInt64(v), 0).UTC()
	}
}
