// Package cluster groups hotspot coordinates with k-means.
package cluster

import (
	"errors"
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/vanshika/heliumtrace/internal/domain"
)

// ErrInvalidK is returned when k is not in [1, len(points)].
var ErrInvalidK = errors.New("number of clusters must be between 1 and the number of points")

// KMeans partitions the points into k clusters and returns the centroids and
// the inertia (sum of squared distances of points to their centroid).
func KMeans(points []domain.Coordinate, k int) (domain.ClusterResult, error) {
	if k <= 0 || k > len(points) {
		return domain.ClusterResult{}, fmt.Errorf("%w: k=%d points=%d", ErrInvalidK, k, len(points))
	}

	observations := make(clusters.Observations, 0, len(points))
	for _, p := range points {
		observations = append(observations, clusters.Coordinates{p.Latitude, p.Longitude})
	}

	partition, err := kmeans.New().Partition(observations, k)
	if err != nil {
		return domain.ClusterResult{}, fmt.Errorf("kmeans partition: %w", err)
	}

	// Centroids are taken from the final assignment; the partitioner does not
	// recenter once assignments stop changing.
	result := domain.ClusterResult{Centroids: make([]domain.Coordinate, 0, len(partition))}
	for _, c := range partition {
		center := c.Center
		if len(c.Observations) > 0 {
			center = mean(c.Observations)
		}
		result.Centroids = append(result.Centroids, domain.Coordinate{
			Latitude:  center[0],
			Longitude: center[1],
		})
		for _, obs := range c.Observations {
			result.Inertia += squaredDistance(center, obs.Coordinates())
		}
	}
	return result, nil
}

func mean(observations clusters.Observations) clusters.Coordinates {
	center := make(clusters.Coordinates, 2)
	for _, obs := range observations {
		for i, v := range obs.Coordinates() {
			center[i] += v
		}
	}
	for i := range center {
		center[i] /= float64(len(observations))
	}
	return center
}

func squaredDistance(a, b clusters.Coordinates) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
