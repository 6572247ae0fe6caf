package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshika/heliumtrace/internal/domain"
	"github.com/vanshika/heliumtrace/internal/graph"
	"github.com/vanshika/heliumtrace/internal/hexgrid"
)

func account(address string) graph.Record {
	return graph.Record{"vertex": map[string]any{"address": address}}
}

func TestRepository_TopPaymentTotals(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(
		graph.Record{"fromAddress": "accounts/a", "toAddress": "accounts/b", "paymentTotal": 30.5},
		graph.Record{"fromAddress": "c", "toAddress": "d", "paymentTotal": int64(10)},
	)
	repo := New(client)

	rows, err := repo.TopPaymentTotals(context.Background(), domain.FlowWindow{MinTime: 5, MaxTime: 50, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].From != "a" || rows[0].To != "b" || rows[0].Total != 30.5 {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].Total != 10 {
		t.Fatalf("expected integer total to convert, got %+v", rows[1])
	}

	calls := client.ReadCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 read query, got %d", len(calls))
	}
	if calls[0].Query != paymentTotalsCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", paymentTotalsCypher, calls[0].Query)
	}
	if calls[0].Params["minTime"] != int64(5) || calls[0].Params["maxTime"] != int64(50) || calls[0].Params["limit"] != int64(10) {
		t.Fatalf("unexpected params %+v", calls[0].Params)
	}
}

func TestRepository_TopPaymentCounts(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(graph.Record{"fromAddress": "a", "toAddress": "b", "paymentCount": int64(7)})
	repo := New(client)

	rows, err := repo.TopPaymentCounts(context.Background(), domain.FlowWindow{MaxTime: 100, Limit: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 1 || rows[0].Count != 7 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestRepository_AccountFlowsBindAddress(t *testing.T) {
	cases := []struct {
		name  string
		call  func(*Repository) ([]domain.AccountFlow, error)
		query string
	}{
		{
			name: "payers to payee",
			call: func(r *Repository) ([]domain.AccountFlow, error) {
				return r.TopPayersToPayee(context.Background(), "x' OR 1=1", domain.FlowWindow{MaxTime: 10, Limit: 3})
			},
			query: payersToPayeeCypher,
		},
		{
			name: "payees from payer",
			call: func(r *Repository) ([]domain.AccountFlow, error) {
				return r.TopPayeesFromPayer(context.Background(), "x' OR 1=1", domain.FlowWindow{MaxTime: 10, Limit: 3})
			},
			query: payeesFromPayerCypher,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := graph.NewMemoryClient()
			client.PushRecords(graph.Record{"address": "accounts/p", "totalAmount": 4.0, "numPayments": int64(2)})
			rows, err := tc.call(New(client))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(rows) != 1 || rows[0].Address != "p" || rows[0].NumPayments != 2 {
				t.Fatalf("unexpected rows %+v", rows)
			}
			call := client.ReadCalls()[0]
			if call.Query != tc.query {
				t.Fatalf("unexpected query %s", call.Query)
			}
			if call.Params["address"] != "x' OR 1=1" {
				t.Fatalf("expected address bound as parameter, got %+v", call.Params)
			}
		})
	}
}

func TestRepository_EmptyResultIsEmptySlice(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	rows, err := repo.TopPayers(context.Background(), domain.FlowWindow{MaxTime: 10, Limit: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
}

func TestRepository_QueryFailureIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	repo := New(graph.NewMemoryClient().WithError(boom))
	if _, err := repo.TopPayees(context.Background(), domain.FlowWindow{MaxTime: 10, Limit: 3}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestRepository_LookupVertex(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(graph.Record{"vertex": map[string]any{"address": "h1", "name": "shiny-red-fox"}})
	repo := New(client)

	v, err := repo.LookupVertex(context.Background(), domain.CollectionHotspots, "h1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Address() != "h1" || v["name"] != "shiny-red-fox" {
		t.Fatalf("unexpected vertex %+v", v)
	}
	if _, err := repo.LookupVertex(context.Background(), domain.CollectionHotspots, "missing"); !errors.Is(err, ErrVertexNotFound) {
		t.Fatalf("expected ErrVertexNotFound, got %v", err)
	}
	if _, err := repo.LookupVertex(context.Background(), "users", "x"); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestRepository_PayerGraphDeduplicatesNodes(t *testing.T) {
	client := graph.NewMemoryClient()
	// seeds
	client.PushRecords(
		graph.Record{"address": "a", "totalAmount": 10.0, "numPayments": int64(2)},
		graph.Record{"address": "b", "totalAmount": 5.0, "numPayments": int64(1)},
	)
	client.PushRecords(account("a"))
	client.PushRecords(account("b"))
	// traversal: b is both a seed and a payee, c is reached twice
	client.PushRecords(
		graph.Record{"fromAddress": "a", "toAddress": "c", "totalAmount": 6.0, "numPayments": int64(1)},
		graph.Record{"fromAddress": "a", "toAddress": "b", "totalAmount": 4.0, "numPayments": int64(1)},
		graph.Record{"fromAddress": "b", "toAddress": "c", "totalAmount": 5.0, "numPayments": int64(1)},
	)
	client.PushRecords(account("c"))
	repo := New(client)

	g, err := repo.PayerGraph(context.Background(), domain.FlowWindow{MinTime: 1, MaxTime: 100, Limit: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(g.Edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(g.Edges))
	}
	got := nodeAddresses(g.Nodes)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected nodes %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected nodes %v, got %v", want, got)
		}
	}

	calls := client.ReadCalls()
	if len(calls) != 5 {
		t.Fatalf("expected 5 queries (seed, 2 lookups, traversal, 1 lookup), got %d", len(calls))
	}
	traversal := calls[3]
	if traversal.Query != payerTraversalCypher {
		t.Fatalf("expected payer traversal, got %s", traversal.Query)
	}
	seeds, ok := traversal.Params["addresses"].([]string)
	if !ok || len(seeds) != 2 {
		t.Fatalf("expected seed addresses param, got %#v", traversal.Params["addresses"])
	}
	if traversal.Params["minTime"] != int64(1) || traversal.Params["maxTime"] != int64(100) {
		t.Fatalf("expected traversal restricted to window, got %+v", traversal.Params)
	}
}

func TestRepository_PayeeGraphSeedsFromPayees(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(graph.Record{"address": "z", "totalAmount": 10.0, "numPayments": int64(2)})
	client.PushRecords(account("z"))
	client.PushRecords(graph.Record{"fromAddress": "accounts/y", "toAddress": "accounts/z", "totalAmount": 10.0, "numPayments": int64(2)})
	client.PushRecords(account("y"))
	repo := New(client)

	g, err := repo.PayeeGraph(context.Background(), domain.FlowWindow{MaxTime: 100, Limit: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	calls := client.ReadCalls()
	if calls[0].Query != topPayeesCypher {
		t.Fatalf("expected payee seed query, got %s", calls[0].Query)
	}
	if calls[2].Query != payeeTraversalCypher {
		t.Fatalf("expected payee traversal, got %s", calls[2].Query)
	}
	if calls[3].Params["address"] != "y" {
		t.Fatalf("expected lookup of far-side payer y, got %+v", calls[3].Params)
	}
	if len(g.Nodes) != 2 || g.Edges[0].From != "y" || g.Edges[0].To != "z" {
		t.Fatalf("unexpected graph %+v", g)
	}
}

func TestRepository_GraphWithoutSeeds(t *testing.T) {
	client := graph.NewMemoryClient()
	g, err := New(client).PayerGraph(context.Background(), domain.FlowWindow{MaxTime: 100, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(g.Nodes) != 0 || g.Edges == nil || len(g.Edges) != 0 {
		t.Fatalf("expected empty graph, got %+v", g)
	}
	if n := len(client.ReadCalls()); n != 1 {
		t.Fatalf("expected only the seed query, got %d queries", n)
	}
}

func TestRepository_GraphMissingVertexFails(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(graph.Record{"address": "ghost", "totalAmount": 1.0, "numPayments": int64(1)})
	_, err := New(client).PayerGraph(context.Background(), domain.FlowWindow{MaxTime: 100, Limit: 10})
	if !errors.Is(err, ErrVertexNotFound) {
		t.Fatalf("expected ErrVertexNotFound, got %v", err)
	}
}

func TestRepository_WitnessGraphNearCoordinates(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(
		graph.Record{"fromAddress": "h1", "toAddress": "h2", "snr": 5.5, "rssi": -100.0, "distanceM": 1200.0},
		graph.Record{"fromAddress": "h1", "toAddress": "h3", "snr": 1.0, "rssi": -110.0, "distanceM": 800.0},
		graph.Record{"fromAddress": "h2", "toAddress": "h1", "snr": 2.0, "rssi": -105.0, "distanceM": 1200.0},
	)
	client.PushRecords(account("h1"))
	client.PushRecords(account("h2"))
	client.PushRecords(account("h3"))
	repo := New(client)

	g, err := repo.WitnessGraphNearCoordinates(context.Background(), 37.77, -122.41, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := nodeAddresses(g.Nodes)
	if len(got) != 3 || got[0] != "h1" || got[1] != "h2" || got[2] != "h3" {
		t.Fatalf("expected nodes [h1 h2 h3], got %v", got)
	}
	if len(g.Edges) != 3 || g.Edges[0].RSSI != -100 || g.Edges[0].DistanceM != 1200 {
		t.Fatalf("unexpected edges %+v", g.Edges)
	}
	calls := client.ReadCalls()
	if len(calls) != 4 {
		t.Fatalf("expected 1 query and 3 lookups, got %d", len(calls))
	}
	if calls[0].Params["lat"] != 37.77 || calls[0].Params["lon"] != -122.41 || calls[0].Params["limit"] != int64(10) {
		t.Fatalf("unexpected params %+v", calls[0].Params)
	}
}

func TestRepository_WitnessGraphInHexFiltersByPolygon(t *testing.T) {
	cell, err := hexgrid.Parse("862a84707ffffff")
	if err != nil {
		t.Fatalf("parse cell: %v", err)
	}
	lat, lon := cell.Center()
	inside := graph.Point{Latitude: lat, Longitude: lon}
	box := cell.BBox()
	// inside the bounding box corner but outside the hexagon
	corner := graph.Point{Latitude: box.North - 1e-6, Longitude: box.West + 1e-6}
	if cell.Contains(corner.Latitude, corner.Longitude) {
		t.Fatalf("test corner point unexpectedly inside the cell")
	}

	client := graph.NewMemoryClient()
	client.PushRecords(
		graph.Record{"vertex": map[string]any{"address": "in1", "location": inside}, "location": inside},
		graph.Record{"vertex": map[string]any{"address": "corner", "location": corner}, "location": corner},
		graph.Record{"vertex": map[string]any{"address": "in2", "location": inside}, "location": inside},
	)
	client.PushRecords(
		graph.Record{"fromAddress": "in1", "toAddress": "in2", "toLocation": inside, "snr": 3.0, "rssi": -90.0, "distanceM": 0.0},
		graph.Record{"fromAddress": "in1", "toAddress": "corner", "toLocation": corner, "snr": 3.0, "rssi": -90.0, "distanceM": 10.0},
	)
	repo := New(client)

	g, err := repo.WitnessGraphInHex(context.Background(), cell)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := nodeAddresses(g.Nodes)
	if len(got) != 2 || got[0] != "in1" || got[1] != "in2" {
		t.Fatalf("expected nodes [in1 in2], got %v", got)
	}
	if len(g.Edges) != 1 || g.Edges[0].To != "in2" {
		t.Fatalf("expected only the in-cell edge, got %+v", g.Edges)
	}

	calls := client.ReadCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(calls))
	}
	addrs, _ := calls[1].Params["addresses"].([]string)
	if len(addrs) != 2 {
		t.Fatalf("expected only contained hotspots to seed edges, got %#v", calls[1].Params["addresses"])
	}
	if calls[1].Params["north"] != box.North || calls[1].Params["west"] != box.West {
		t.Fatalf("expected bbox params, got %+v", calls[1].Params)
	}
}

func TestRepository_WitnessGraphInHexEmpty(t *testing.T) {
	cell, err := hexgrid.Parse("862a84707ffffff")
	if err != nil {
		t.Fatalf("parse cell: %v", err)
	}
	client := graph.NewMemoryClient()
	g, err := New(client).WitnessGraphInHex(context.Background(), cell)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Fatalf("expected empty graph, got %+v", g)
	}
	if n := len(client.ReadCalls()); n != 1 {
		t.Fatalf("expected edge query to be skipped, got %d queries", n)
	}
}

func TestRepository_Witnesses(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(account("w1"), account("w2"))
	repo := New(client)

	out, err := repo.OutboundWitnesses(context.Background(), "h1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 2 || out[1].Address() != "w2" {
		t.Fatalf("unexpected witnesses %+v", out)
	}

	in, err := repo.InboundWitnesses(context.Background(), "h1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if in == nil || len(in) != 0 {
		t.Fatalf("expected empty non-nil witnesses, got %#v", in)
	}
	if client.ReadCalls()[1].Query != inboundWitnessesCypher {
		t.Fatalf("expected inbound query")
	}
}

func TestRepository_RecentReceipts(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(graph.Record{
		"fromAddress": "h1", "toAddress": "h2", "gateway": "h2",
		"snr": 7.0, "signal": -99.0, "receiptTime": int64(1650000000),
	})
	repo := New(client)

	out, err := repo.RecentReceipts(context.Background(), "h2", 50)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 1 || out[0].Gateway != "h2" || out[0].Time.Unix() != 1650000000 {
		t.Fatalf("unexpected receipts %+v", out)
	}
	call := client.ReadCalls()[0]
	if call.Params["address"] != "h2" || call.Params["limit"] != int64(50) {
		t.Fatalf("unexpected params %+v", call.Params)
	}
}

func TestRepository_HotspotCoordinatesSkipsMissingLocations(t *testing.T) {
	client := graph.NewMemoryClient()
	client.PushRecords(
		graph.Record{"location": graph.Point{Latitude: 1, Longitude: 2}},
		graph.Record{"location": nil},
	)
	out, err := New(client).HotspotCoordinates(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 1 || out[0].Latitude != 1 || out[0].Longitude != 2 {
		t.Fatalf("unexpected coordinates %+v", out)
	}
}

func nodeAddresses(nodes []domain.Vertex) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Address())
	}
	return out
}
