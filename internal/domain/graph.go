package domain

// Vertex is a full vertex record as stored in the graph. Attributes other
// than the address are passed through untouched.
type Vertex map[string]any

// Address returns the vertex address attribute.
func (v Vertex) Address() string {
	s, _ := v["address"].(string)
	return s
}

// PaymentGraph is a deduplicated node list plus aggregated payment edges.
type PaymentGraph struct {
	Nodes []Vertex
	Edges []FlowEdge
}

// WitnessEdge is a single witness receipt between two hotspots.
type WitnessEdge struct {
	From      string
	To        string
	SNR       float64
	RSSI      float64
	DistanceM float64
}

// WitnessGraph is a hotspot node list plus witness edges.
type WitnessGraph struct {
	Nodes []Vertex
	Edges []WitnessEdge
}

// Collections holding vertices.
const (
	CollectionAccounts = "accounts"
	CollectionHotspots = "hotspots"
)
