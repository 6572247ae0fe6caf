package repository

import (
	"context"

	"github.com/vanshika/heliumtrace/internal/domain"
)

// TopPaymentTotals returns (payer, payee) pairs ordered by summed amount.
func (r *Repository) TopPaymentTotals(ctx context.Context, w domain.FlowWindow) ([]domain.PairTotal, error) {
	records, err := r.read(ctx, "payment totals", paymentTotalsCypher, windowParams(w))
	if err != nil {
		return nil, err
	}
	out := make([]domain.PairTotal, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.PairTotal{
			From:  toAddress(rec["fromAddress"]),
			To:    toAddress(rec["toAddress"]),
			Total: toFloat64(rec["paymentTotal"]),
		})
	}
	return out, nil
}

// TopPaymentCounts returns (payer, payee) pairs ordered by number of payments.
func (r *Repository) TopPaymentCounts(ctx context.Context, w domain.FlowWindow) ([]domain.PairCount, error) {
	records, err := r.read(ctx, "payment counts", paymentCountsCypher, windowParams(w))
	if err != nil {
		return nil, err
	}
	out := make([]domain.PairCount, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.PairCount{
			From:  toAddress(rec["fromAddress"]),
			To:    toAddress(rec["toAddress"]),
			Count: toInt64(rec["paymentCount"]),
		})
	}
	return out, nil
}

// TopPayers groups payments by payer.
func (r *Repository) TopPayers(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	return r.accountFlows(ctx, "top payers", topPayersCypher, windowParams(w))
}

// TopPayees groups payments by payee.
func (r *Repository) TopPayees(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	return r.accountFlows(ctx, "top payees", topPayeesCypher, windowParams(w))
}

// TopPayersToPayee groups the payments received by address by payer.
func (r *Repository) TopPayersToPayee(ctx context.Context, address string, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	params := windowParams(w)
	params["address"] = address
	return r.accountFlows(ctx, "payers to payee", payersToPayeeCypher, params)
}

// TopPayeesFromPayer groups the payments sent by address by payee.
func (r *Repository) TopPayeesFromPayer(ctx context.Context, address string, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	params := windowParams(w)
	params["address"] = address
	return r.accountFlows(ctx, "payees from payer", payeesFromPayerCypher, params)
}

func (r *Repository) accountFlows(ctx context.Context, name, cypher string, params map[string]any) ([]domain.AccountFlow, error) {
	records, err := r.read(ctx, name, cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AccountFlow, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.AccountFlow{
			Address:     toAddress(rec["address"]),
			TotalAmount: toFloat64(rec["totalAmount"]),
			NumPayments: toInt64(rec["numPayments"]),
		})
	}
	return out, nil
}

func windowParams(w domain.FlowWindow) map[string]any {
	return map[string]any{
		"minTime": w.MinTime,
		"maxTime": w.MaxTime,
		"limit":   int64(w.Limit),
	}
}

const paymentTotalsCypher = `
MATCH (payer:Account)-[p:PAYMENT]->(payee:Account)
WHERE p.time > $minTime AND p.time < $maxTime
RETURN payer.address AS fromAddress,
       payee.address AS toAddress,
       sum(p.amount) AS paymentTotal
ORDER BY paymentTotal DESC
LIMIT $limit
`

const paymentCountsCypher = `
MATCH (payer:Account)-[p:PAYMENT]->(payee:Account)
WHERE p.time > $minTime AND p.time < $maxTime
RETURN payer.address AS fromAddress,
       payee.address AS toAddress,
       count(p) AS paymentCount
ORDER BY paymentCount DESC
LIMIT $limit
`

const topPayersCypher = `
MATCH (payer:Account)-[p:PAYMENT]->(:Account)
WHERE p.time > $minTime AND p.time < $maxTime
RETURN payer.address AS address,
       sum(p.amount) AS totalAmount,
       count(p) AS numPayments
ORDER BY totalAmount DESC
LIMIT $limit
`

const topPayeesCypher = `
MATCH (:Account)-[p:PAYMENT]->(payee:Account)
WHERE p.time > $minTime AND p.time < $maxTime
RETURN payee.address AS address,
       sum(p.amount) AS totalAmount,
       count(p) AS numPayments
ORDER BY totalAmount DESC
LIMIT $limit
`

const payersToPayeeCypher = `
MATCH (payer:Account)-[p:PAYMENT]->(:Account {address: $address})
WHERE p.time > $minTime AND p.time < $maxTime
RETURN payer.address AS address,
       sum(p.amount) AS totalAmount,
       count(p) AS numPayments
ORDER BY totalAmount DESC
LIMIT $limit
`

const payeesFromPayerCypher = `
MATCH (:Account {address: $address})-[p:PAYMENT]->(payee:Account)
WHERE p.time > $minTime AND p.time < $maxTime
RETURN payee.address AS address,
       sum(p.amount) AS totalAmount,
       count(p) AS numPayments
ORDER BY totalAmount DESC
LIMIT $limit
`
