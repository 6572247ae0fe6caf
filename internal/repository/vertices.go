package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/heliumtrace/internal/domain"
)

// ErrVertexNotFound indicates an address referenced by a query result has no
// vertex record in its collection.
var ErrVertexNotFound = errors.New("vertex not found")

// ErrUnknownCollection is returned for collections other than accounts and hotspots.
var ErrUnknownCollection = errors.New("unknown collection")

var vertexLookupCypher = map[string]string{
	domain.CollectionAccounts: `
MATCH (n:Account {address: $address})
RETURN properties(n) AS vertex
LIMIT 1
`,
	domain.CollectionHotspots: `
MATCH (n:Hotspot {address: $address})
RETURN properties(n) AS vertex
LIMIT 1
`,
}

// LookupVertex resolves a bare address to its full vertex record.
func (r *Repository) LookupVertex(ctx context.Context, collection, address string) (domain.Vertex, error) {
	cypher, ok := vertexLookupCypher[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	records, err := r.read(ctx, "vertex lookup", cypher, map[string]any{"address": address})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrVertexNotFound, collection, address)
	}
	vertex := toVertex(records[0]["vertex"])
	if vertex == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrVertexNotFound, collection, address)
	}
	return vertex, nil
}

func toVertex(val any) domain.Vertex {
	props, ok := val.(map[string]any)
	if !ok {
		return nil
	}
	return domain.Vertex(props)
}

// addressSet tracks vertices already added to a graph result, preserving
// first-seen order.
type addressSet struct {
	seen  map[string]struct{}
	nodes []domain.Vertex
}

func newAddressSet() *addressSet {
	return &addressSet{seen: make(map[string]struct{}), nodes: []domain.Vertex{}}
}

func (s *addressSet) has(address string) bool {
	_, ok := s.seen[address]
	return ok
}

func (s *addressSet) add(address string, v domain.Vertex) {
	if s.has(address) {
		return
	}
	s.seen[address] = struct{}{}
	s.nodes = append(s.nodes, v)
}

// resolve looks up and appends address if it has not been seen.
func (r *Repository) resolve(ctx context.Context, s *addressSet, collection, address string) error {
	if s.has(address) {
		return nil
	}
	v, err := r.LookupVertex(ctx, collection, address)
	if err != nil {
		return err
	}
	s.add(address, v)
	return nil
}
