package domain

// PairTotal is the summed payment amount for one ordered (payer, payee) pair.
type PairTotal struct {
	From  string
	To    string
	Total float64
}

// PairCount is the number of payments for one ordered (payer, payee) pair.
type PairCount struct {
	From  string
	To    string
	Count int64
}

// AccountFlow aggregates payments grouped by a single account, either the
// payer or the payee depending on the query that produced it.
type AccountFlow struct {
	Address     string
	TotalAmount float64
	NumPayments int64
}

// FlowEdge is an aggregated payment edge within a payment graph.
type FlowEdge struct {
	From        string
	To          string
	TotalAmount float64
	NumPayments int64
}

// FlowWindow bounds a payments aggregation. Both time bounds are exclusive
// Unix timestamps in seconds.
type FlowWindow struct {
	MinTime int64
	MaxTime int64
	Limit   int
}
