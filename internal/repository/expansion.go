package repository

import (
	"context"

	"github.com/vanshika/heliumtrace/internal/domain"
)

// flowDirection selects which side of a payment the graph is seeded from.
type flowDirection struct {
	name      string
	seeds     func(*Repository, context.Context, domain.FlowWindow) ([]domain.AccountFlow, error)
	traversal string
	// farSide picks the endpoint opposite the seed.
	farSide func(domain.FlowEdge) string
}

var (
	payerDirection = flowDirection{
		name:      "payer graph traversal",
		seeds:     (*Repository).TopPayers,
		traversal: payerTraversalCypher,
		farSide:   func(e domain.FlowEdge) string { return e.To },
	}
	payeeDirection = flowDirection{
		name:      "payee graph traversal",
		seeds:     (*Repository).TopPayees,
		traversal: payeeTraversalCypher,
		farSide:   func(e domain.FlowEdge) string { return e.From },
	}
)

// PayerGraph seeds a graph with the top payers in the window and expands one
// outbound payment hop from each of them.
func (r *Repository) PayerGraph(ctx context.Context, w domain.FlowWindow) (domain.PaymentGraph, error) {
	return r.expand(ctx, w, payerDirection)
}

// PayeeGraph seeds a graph with the top payees in the window and expands one
// inbound payment hop into each of them.
func (r *Repository) PayeeGraph(ctx context.Context, w domain.FlowWindow) (domain.PaymentGraph, error) {
	return r.expand(ctx, w, payeeDirection)
}

func (r *Repository) expand(ctx context.Context, w domain.FlowWindow, dir flowDirection) (domain.PaymentGraph, error) {
	seeds, err := dir.seeds(r, ctx, w)
	if err != nil {
		return domain.PaymentGraph{}, err
	}

	nodes := newAddressSet()
	addresses := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if err := r.resolve(ctx, nodes, domain.CollectionAccounts, seed.Address); err != nil {
			return domain.PaymentGraph{}, err
		}
		addresses = append(addresses, seed.Address)
	}

	graph := domain.PaymentGraph{Nodes: nodes.nodes, Edges: []domain.FlowEdge{}}
	if len(addresses) == 0 {
		return graph, nil
	}

	params := map[string]any{
		"addresses": addresses,
		"minTime":   w.MinTime,
		"maxTime":   w.MaxTime,
	}
	records, err := r.read(ctx, dir.name, dir.traversal, params)
	if err != nil {
		return domain.PaymentGraph{}, err
	}

	for _, rec := range records {
		edge := domain.FlowEdge{
			From:        toAddress(rec["fromAddress"]),
			To:          toAddress(rec["toAddress"]),
			TotalAmount: toFloat64(rec["totalAmount"]),
			NumPayments: toInt64(rec["numPayments"]),
		}
		if err := r.resolve(ctx, nodes, domain.CollectionAccounts, dir.farSide(edge)); err != nil {
			return domain.PaymentGraph{}, err
		}
		graph.Edges = append(graph.Edges, edge)
	}
	graph.Nodes = nodes.nodes
	return graph, nil
}

const payerTraversalCypher = `
MATCH (payer:Account)-[p:PAYMENT]->(payee:Account)
WHERE payer.address IN $addresses
  AND p.time > $minTime AND p.time < $maxTime
RETURN payer.address AS fromAddress,
       payee.address AS toAddress,
       sum(p.amount) AS totalAmount,
       count(p) AS numPayments
ORDER BY totalAmount DESC
`

const payeeTraversalCypher = `
MATCH (payer:Account)-[p:PAYMENT]->(payee:Account)
WHERE payee.address IN $addresses
  AND p.time > $minTime AND p.time < $maxTime
RETURN payer.address AS fromAddress,
       payee.address AS toAddress,
       sum(p.amount) AS totalAmount,
       count(p) AS numPayments
ORDER BY totalAmount DESC
`
