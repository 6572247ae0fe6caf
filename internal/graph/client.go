package graph

import (
	"context"
	"errors"
	"strings"
)

// Client defines the minimal read-only contract the repositories need from the
// underlying graph database. The ledger is populated by an external ETL
// process, so no write path is exposed.
type Client interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Point is a WGS-84 location decoded from a spatial property.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

// StripCollection returns the bare key of a collection-qualified vertex
// identifier, e.g. "accounts/abc" becomes "abc". Bare keys are returned as-is.
func StripCollection(id string) string {
	if idx := strings.LastIndexByte(id, '/'); idx >= 0 {
		return id[idx+1:]
	}
	return id
}
