package domain

import "time"

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Receipt is one witness receipt as recorded by the ETL.
type Receipt struct {
	From    string
	To      string
	Gateway string
	SNR     float64
	Signal  float64
	Time    time.Time
}

// ClusterResult holds k-means centroids over hotspot coordinates and the
// within-cluster sum of squared distances.
type ClusterResult struct {
	Centroids []Coordinate
	Inertia   float64
}
