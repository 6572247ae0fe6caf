package repository

import (
	"context"

	"github.com/vanshika/heliumtrace/internal/domain"
)

// OutboundWitnesses lists the distinct hotspots that witnessed address.
func (r *Repository) OutboundWitnesses(ctx context.Context, address string) ([]domain.Vertex, error) {
	return r.neighbours(ctx, "outbound witnesses", outboundWitnessesCypher, address)
}

// InboundWitnesses lists the distinct hotspots that address witnessed.
func (r *Repository) InboundWitnesses(ctx context.Context, address string) ([]domain.Vertex, error) {
	return r.neighbours(ctx, "inbound witnesses", inboundWitnessesCypher, address)
}

func (r *Repository) neighbours(ctx context.Context, name, cypher, address string) ([]domain.Vertex, error) {
	records, err := r.read(ctx, name, cypher, map[string]any{"address": address})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Vertex, 0, len(records))
	for _, rec := range records {
		if v := toVertex(rec["vertex"]); v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

// RecentReceipts returns the newest witness receipts, optionally restricted
// to those reported by gateway. An empty gateway matches every receipt.
func (r *Repository) RecentReceipts(ctx context.Context, gateway string, limit int) ([]domain.Receipt, error) {
	records, err := r.read(ctx, "recent receipts", recentReceiptsCypher, map[string]any{
		"address": gateway,
		"limit":   int64(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Receipt, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.Receipt{
			From:    toAddress(rec["fromAddress"]),
			To:      toAddress(rec["toAddress"]),
			Gateway: toString(rec["gateway"]),
			SNR:     toFloat64(rec["snr"]),
			Signal:  toFloat64(rec["signal"]),
			Time:    toUnixTime(rec["receiptTime"]),
		})
	}
	return out, nil
}

// HotspotCoordinates returns the location of every hotspot that has one.
func (r *Repository) HotspotCoordinates(ctx context.Context) ([]domain.Coordinate, error) {
	records, err := r.read(ctx, "hotspot coordinates", hotspotCoordinatesCypher, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Coordinate, 0, len(records))
	for _, rec := range records {
		loc, ok := toPoint(rec["location"])
		if !ok {
			continue
		}
		out = append(out, domain.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude})
	}
	return out, nil
}

const outboundWitnessesCypher = `
MATCH (:Hotspot {address: $address})-[:WITNESS]->(witness:Hotspot)
RETURN DISTINCT properties(witness) AS vertex
ORDER BY vertex.address
`

const inboundWitnessesCypher = `
MATCH (witness:Hotspot)-[:WITNESS]->(:Hotspot {address: $address})
RETURN DISTINCT properties(witness) AS vertex
ORDER BY vertex.address
`

const recentReceiptsCypher = `
MATCH (source:Hotspot)-[w:WITNESS]->(witness:Hotspot)
WHERE $address = "" OR w.gateway = $address
RETURN source.address AS fromAddress,
       witness.address AS toAddress,
       w.gateway AS gateway,
       w.snr AS snr,
       w.signal AS signal,
       w.time AS receiptTime
ORDER BY receiptTime DESC
LIMIT $limit
`

const hotspotCoordinatesCypher = `
MATCH (h:Hotspot)
WHERE h.location IS NOT NULL
RETURN h.location AS location
`
