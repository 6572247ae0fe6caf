package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/heliumtrace/internal/cluster"
	"github.com/vanshika/heliumtrace/internal/domain"
	"github.com/vanshika/heliumtrace/internal/hexgrid"
)

// HotspotsCachePrefix namespaces every cached hotspot response.
const HotspotsCachePrefix = "hotspots:"

// HotspotRepository is the storage contract required by the hotspot service.
type HotspotRepository interface {
	WitnessGraphNearCoordinates(ctx context.Context, lat, lon float64, limit int) (domain.WitnessGraph, error)
	WitnessGraphInHex(ctx context.Context, cell hexgrid.Cell) (domain.WitnessGraph, error)
	OutboundWitnesses(ctx context.Context, address string) ([]domain.Vertex, error)
	InboundWitnesses(ctx context.Context, address string) ([]domain.Vertex, error)
	RecentReceipts(ctx context.Context, gateway string, limit int) ([]domain.Receipt, error)
	HotspotCoordinates(ctx context.Context) ([]domain.Coordinate, error)
}

// HotspotService validates witness network queries and serves them through
// the response cache.
type HotspotService struct {
	repo     HotspotRepository
	caching  Caching
	kmeansFn func([]domain.Coordinate, int) (domain.ClusterResult, error)
}

// NewHotspotService constructs a HotspotService.
func NewHotspotService(repo HotspotRepository, caching Caching) *HotspotService {
	return &HotspotService{
		repo:     repo,
		caching:  caching,
		kmeansFn: cluster.KMeans,
	}
}

// NearCoordinatesGraph builds the witness graph around the limit hotspots
// closest to (lat, lon).
func (s *HotspotService) NearCoordinatesGraph(ctx context.Context, lat, lon float64, limit int) (domain.WitnessGraph, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return domain.WitnessGraph{}, fmt.Errorf("%w: coordinates (%g, %g) out of range", ErrInvalidArgument, lat, lon)
	}
	limit, err := normalizeLimit(limit, defaultGraphLimit)
	if err != nil {
		return domain.WitnessGraph{}, err
	}
	key := HotspotsCachePrefix + "coords:" + strconv.FormatFloat(lat, 'f', -1, 64) + ":" + strconv.FormatFloat(lon, 'f', -1, 64) + ":" + strconv.Itoa(limit)
	return remember(ctx, s.caching, s.caching.TTL, key, func(ctx context.Context) (domain.WitnessGraph, error) {
		return s.repo.WitnessGraphNearCoordinates(ctx, lat, lon, limit)
	})
}

// HexGraph builds the witness graph contained in an H3 cell. Invalid cell
// identifiers are rejected without touching the store.
func (s *HotspotService) HexGraph(ctx context.Context, hex string) (domain.WitnessGraph, error) {
	cell, err := hexgrid.Parse(hex)
	if err != nil {
		return domain.WitnessGraph{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return remember(ctx, s.caching, s.caching.TTL, HotspotsCachePrefix+"hex:"+cell.String(), func(ctx context.Context) (domain.WitnessGraph, error) {
		return s.repo.WitnessGraphInHex(ctx, cell)
	})
}

// OutboundWitnesses lists the hotspots that witnessed address.
func (s *HotspotService) OutboundWitnesses(ctx context.Context, address string) ([]domain.Vertex, error) {
	address, err := requireAddress(address)
	if err != nil {
		return nil, err
	}
	return remember(ctx, s.caching, s.caching.TTL, HotspotsCachePrefix+"outbound:"+address, func(ctx context.Context) ([]domain.Vertex, error) {
		return s.repo.OutboundWitnesses(ctx, address)
	})
}

// InboundWitnesses lists the hotspots that address witnessed.
func (s *HotspotService) InboundWitnesses(ctx context.Context, address string) ([]domain.Vertex, error) {
	address, err := requireAddress(address)
	if err != nil {
		return nil, err
	}
	return remember(ctx, s.caching, s.caching.TTL, HotspotsCachePrefix+"inbound:"+address, func(ctx context.Context) ([]domain.Vertex, error) {
		return s.repo.InboundWitnesses(ctx, address)
	})
}

// RecentReceipts samples the newest witness receipts, optionally for a single gateway.
func (s *HotspotService) RecentReceipts(ctx context.Context, gateway string, limit int) ([]domain.Receipt, error) {
	limit, err := normalizeLimit(limit, defaultReceiptsLimit)
	if err != nil {
		return nil, err
	}
	gateway = strings.TrimSpace(gateway)
	key := HotspotsCachePrefix + "receipts:" + strconv.Itoa(limit) + ":" + gateway
	return remember(ctx, s.caching, s.caching.TTL, key, func(ctx context.Context) ([]domain.Receipt, error) {
		return s.repo.RecentReceipts(ctx, gateway, limit)
	})
}

// Clusters runs k-means over every hotspot location. A zero k selects the default.
func (s *HotspotService) Clusters(ctx context.Context, k int) (domain.ClusterResult, error) {
	if k < 0 {
		return domain.ClusterResult{}, fmt.Errorf("%w: n_clusters must be positive, got %d", ErrInvalidArgument, k)
	}
	if k == 0 {
		k = defaultClusters
	}
	ttl := s.caching.ClusterTTL
	if ttl <= 0 {
		ttl = s.caching.TTL
	}
	return remember(ctx, s.caching, ttl, HotspotsCachePrefix+"clusters:"+strconv.Itoa(k), func(ctx context.Context) (domain.ClusterResult, error) {
		points, err := s.repo.HotspotCoordinates(ctx)
		if err != nil {
			return domain.ClusterResult{}, err
		}
		start := time.Now()
		result, err := s.kmeansFn(points, k)
		if errors.Is(err, cluster.ErrInvalidK) {
			return domain.ClusterResult{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		if err != nil {
			return domain.ClusterResult{}, err
		}
		if s.caching.Logger != nil {
			s.caching.Logger.Debug("computed hotspot clusters", "k", k, "points", len(points), "duration", time.Since(start))
		}
		return result, nil
	})
}
