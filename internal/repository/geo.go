package repository

import (
	"context"

	"github.com/vanshika/heliumtrace/internal/domain"
	"github.com/vanshika/heliumtrace/internal/hexgrid"
)

// WitnessGraphNearCoordinates seeds a witness graph with the limit hotspots
// closest to (lat, lon) and follows one outbound witness hop from each.
// Nodes are the distinct edge endpoints in order of first appearance.
func (r *Repository) WitnessGraphNearCoordinates(ctx context.Context, lat, lon float64, limit int) (domain.WitnessGraph, error) {
	records, err := r.read(ctx, "witnesses near coordinates", witnessesNearCoordinatesCypher, map[string]any{
		"lat":   lat,
		"lon":   lon,
		"limit": int64(limit),
	})
	if err != nil {
		return domain.WitnessGraph{}, err
	}

	nodes := newAddressSet()
	edges := make([]domain.WitnessEdge, 0, len(records))
	for _, rec := range records {
		edge := witnessEdgeFromRecord(rec)
		for _, address := range [2]string{edge.From, edge.To} {
			if err := r.resolve(ctx, nodes, domain.CollectionHotspots, address); err != nil {
				return domain.WitnessGraph{}, err
			}
		}
		edges = append(edges, edge)
	}
	return domain.WitnessGraph{Nodes: nodes.nodes, Edges: edges}, nil
}

// WitnessGraphInHex returns the hotspots located inside the cell and the
// witness edges whose two endpoints are both inside it.
func (r *Repository) WitnessGraphInHex(ctx context.Context, cell hexgrid.Cell) (domain.WitnessGraph, error) {
	box := cell.BBox()
	bounds := map[string]any{
		"south": box.South,
		"west":  box.West,
		"north": box.North,
		"east":  box.East,
	}

	records, err := r.read(ctx, "hotspots in hex", hotspotsInBBoxCypher, bounds)
	if err != nil {
		return domain.WitnessGraph{}, err
	}

	nodes := newAddressSet()
	addresses := make([]string, 0, len(records))
	for _, rec := range records {
		loc, ok := toPoint(rec["location"])
		if !ok || !cell.Contains(loc.Latitude, loc.Longitude) {
			continue
		}
		vertex := toVertex(rec["vertex"])
		address := toAddress(vertex.Address())
		if address == "" || nodes.has(address) {
			continue
		}
		nodes.add(address, vertex)
		addresses = append(addresses, address)
	}

	graph := domain.WitnessGraph{Nodes: nodes.nodes, Edges: []domain.WitnessEdge{}}
	if len(addresses) == 0 {
		return graph, nil
	}

	params := map[string]any{"addresses": addresses}
	for k, v := range bounds {
		params[k] = v
	}
	records, err = r.read(ctx, "witnesses in hex", witnessesInBBoxCypher, params)
	if err != nil {
		return domain.WitnessGraph{}, err
	}
	for _, rec := range records {
		loc, ok := toPoint(rec["toLocation"])
		if !ok || !cell.Contains(loc.Latitude, loc.Longitude) {
			continue
		}
		graph.Edges = append(graph.Edges, witnessEdgeFromRecord(rec))
	}
	return graph, nil
}

func witnessEdgeFromRecord(rec map[string]any) domain.WitnessEdge {
	return domain.WitnessEdge{
		From:      toAddress(rec["fromAddress"]),
		To:        toAddress(rec["toAddress"]),
		SNR:       toFloat64(rec["snr"]),
		RSSI:      toFloat64(rec["rssi"]),
		DistanceM: toFloat64(rec["distanceM"]),
	}
}

const witnessesNearCoordinatesCypher = `
MATCH (h:Hotspot)
WHERE h.location IS NOT NULL
WITH h
ORDER BY point.distance(h.location, point({latitude: $lat, longitude: $lon})) ASC
LIMIT $limit
MATCH (h)-[w:WITNESS]->(witness:Hotspot)
RETURN h.address AS fromAddress,
       witness.address AS toAddress,
       w.snr AS snr,
       w.signal AS rssi,
       point.distance(h.location, witness.location) AS distanceM
ORDER BY fromAddress
`

// point.withinBBox treats west > east as crossing the antimeridian.
const hotspotsInBBoxCypher = `
MATCH (h:Hotspot)
WHERE point.withinBBox(h.location,
        point({latitude: $south, longitude: $west}),
        point({latitude: $north, longitude: $east}))
RETURN properties(h) AS vertex,
       h.location AS location
ORDER BY h.address
`

const witnessesInBBoxCypher = `
MATCH (h:Hotspot)-[w:WITNESS]->(witness:Hotspot)
WHERE h.address IN $addresses
  AND point.withinBBox(witness.location,
        point({latitude: $south, longitude: $west}),
        point({latitude: $north, longitude: $east}))
RETURN h.address AS fromAddress,
       witness.address AS toAddress,
       witness.location AS toLocation,
       w.snr AS snr,
       w.signal AS rssi,
       point.distance(h.location, witness.location) AS distanceM
ORDER BY fromAddress
`
