package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vanshika/heliumtrace/internal/domain"
	"github.com/vanshika/heliumtrace/internal/hexgrid"
	"github.com/vanshika/heliumtrace/internal/repository"
	"github.com/vanshika/heliumtrace/internal/service"
)

// APIHandlers exposes HTTP handlers for the payments and hotspots API.
type APIHandlers struct {
	logger   *slog.Logger
	payments *service.PaymentService
	hotspots *service.HotspotService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, payments *service.PaymentService, hotspots *service.HotspotService) *APIHandlers {
	return &APIHandlers{
		logger:   logger,
		payments: payments,
		hotspots: hotspots,
	}
}

func (h *APIHandlers) register(r *mux.Router) {
	r.HandleFunc("/payments/totals", h.paymentTotals).Methods(http.MethodGet)
	r.HandleFunc("/payments/counts", h.paymentCounts).Methods(http.MethodGet)
	r.HandleFunc("/payments/payers", h.topPayers).Methods(http.MethodGet)
	r.HandleFunc("/payments/payees", h.topPayees).Methods(http.MethodGet)
	r.HandleFunc("/payments/payers/graph", h.payerGraph).Methods(http.MethodGet)
	r.HandleFunc("/payments/payees/graph", h.payeeGraph).Methods(http.MethodGet)
	r.HandleFunc("/payments/{address}/from", h.flowsFromAccount).Methods(http.MethodGet)
	r.HandleFunc("/payments/{address}/to", h.flowsToAccount).Methods(http.MethodGet)

	r.HandleFunc("/hotspots/coords/graph", h.nearCoordinatesGraph).Methods(http.MethodGet)
	r.HandleFunc("/hotspots/hex/graph", h.hexGraph).Methods(http.MethodGet)
	r.HandleFunc("/hotspots/receipts", h.recentReceipts).Methods(http.MethodGet)
	r.HandleFunc("/hotspots/clusters", h.clusters).Methods(http.MethodGet)
	r.HandleFunc("/hotspots/{address}/outbound", h.outboundWitnesses).Methods(http.MethodGet)
	r.HandleFunc("/hotspots/{address}/inbound", h.inboundWitnesses).Methods(http.MethodGet)
}

func (h *APIHandlers) paymentTotals(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	rows, err := h.payments.PaymentTotals(r.Context(), params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	out := make([]pairTotalResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, pairTotalResponse{From: row.From, To: row.To, PaymentTotal: row.Total})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) paymentCounts(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	rows, err := h.payments.PaymentCounts(r.Context(), params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	out := make([]pairCountResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, pairCountResponse{From: row.From, To: row.To, PaymentCount: row.Count})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) topPayers(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	rows, err := h.payments.TopPayers(r.Context(), params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payerRows(rows))
}

func (h *APIHandlers) topPayees(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	rows, err := h.payments.TopPayees(r.Context(), params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payeeRows(rows))
}

func (h *APIHandlers) flowsFromAccount(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	rows, err := h.payments.PayeesFrom(r.Context(), mux.Vars(r)["address"], params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payeeRows(rows))
}

func (h *APIHandlers) flowsToAccount(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	rows, err := h.payments.PayersTo(r.Context(), mux.Vars(r)["address"], params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payerRows(rows))
}

func (h *APIHandlers) payerGraph(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	g, err := h.payments.PayerGraph(r.Context(), params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPaymentGraphResponse(g))
}

func (h *APIHandlers) payeeGraph(w http.ResponseWriter, r *http.Request) {
	params, ok := flowParams(w, r)
	if !ok {
		return
	}
	g, err := h.payments.PayeeGraph(r.Context(), params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPaymentGraphResponse(g))
}

func (h *APIHandlers) nearCoordinatesGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat is required and must be a number")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon is required and must be a number")
		return
	}
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	g, err := h.hotspots.NearCoordinatesGraph(r.Context(), lat, lon, limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newWitnessGraphResponse(g))
}

func (h *APIHandlers) hexGraph(w http.ResponseWriter, r *http.Request) {
	g, err := h.hotspots.HexGraph(r.Context(), r.URL.Query().Get("hex"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newWitnessGraphResponse(g))
}

func (h *APIHandlers) outboundWitnesses(w http.ResponseWriter, r *http.Request) {
	witnesses, err := h.hotspots.OutboundWitnesses(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, witnessesResponse{Witnesses: nonNilVertices(witnesses)})
}

func (h *APIHandlers) inboundWitnesses(w http.ResponseWriter, r *http.Request) {
	witnesses, err := h.hotspots.InboundWitnesses(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, witnessesResponse{Witnesses: nonNilVertices(witnesses)})
}

func (h *APIHandlers) recentReceipts(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	receipts, err := h.hotspots.RecentReceipts(r.Context(), r.URL.Query().Get("address"), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	out := receiptsResponse{Receipts: make([]receiptResponse, 0, len(receipts))}
	for _, rc := range receipts {
		out.Receipts = append(out.Receipts, receiptResponse{
			From:    rc.From,
			To:      rc.To,
			Gateway: rc.Gateway,
			SNR:     rc.SNR,
			Signal:  rc.Signal,
			Time:    rc.Time.Unix(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) clusters(w http.ResponseWriter, r *http.Request) {
	k, ok := intParam(w, r, "n_clusters")
	if !ok {
		return
	}
	res, err := h.hotspots.Clusters(r.Context(), k)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	out := clustersResponse{Centroids: make([][2]float64, 0, len(res.Centroids)), Error: res.Inertia}
	for _, c := range res.Centroids {
		out.Centroids = append(out.Centroids, [2]float64{c.Latitude, c.Longitude})
	}
	respondJSON(w, http.StatusOK, out)
}

// serviceError translates service failures into HTTP responses. Store
// failures are reported as 503 so clients can tell them apart from an empty
// result.
func (h *APIHandlers) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, hexgrid.ErrInvalidCell):
		writeError(w, http.StatusBadRequest, "invalid hex")
	case errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrVertexNotFound):
		h.logger.Error("graph result references a missing vertex", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "graph result references a missing vertex")
	default:
		h.logger.Error("graph query failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "graph query failed")
	}
}

func flowParams(w http.ResponseWriter, r *http.Request) (service.FlowParams, bool) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return service.FlowParams{}, false
	}
	params := service.FlowParams{Limit: limit}
	for _, p := range []struct {
		name string
		dst  **int64
	}{
		{"min_time", &params.MinTime},
		{"max_time", &params.MaxTime},
	} {
		raw := strings.TrimSpace(r.URL.Query().Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, p.name+" must be an integer unix timestamp")
			return service.FlowParams{}, false
		}
		*p.dst = &v
	}
	return params, true
}

// intParam reads an optional integer query parameter. Absent values yield 0.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		writeError(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}

func payerRows(rows []domain.AccountFlow) []payerResponse {
	out := make([]payerResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, payerResponse{From: row.Address, TotalAmount: row.TotalAmount, NumPayments: row.NumPayments})
	}
	return out
}

func payeeRows(rows []domain.AccountFlow) []payeeResponse {
	out := make([]payeeResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, payeeResponse{To: row.Address, TotalAmount: row.TotalAmount, NumPayments: row.NumPayments})
	}
	return out
}

func newPaymentGraphResponse(g domain.PaymentGraph) paymentGraphResponse {
	out := paymentGraphResponse{
		Nodes: nonNilVertices(g.Nodes),
		Edges: make([]flowEdgeResponse, 0, len(g.Edges)),
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, flowEdgeResponse{
			From:        e.From,
			To:          e.To,
			TotalAmount: e.TotalAmount,
			NumPayments: e.NumPayments,
		})
	}
	return out
}

func newWitnessGraphResponse(g domain.WitnessGraph) witnessGraphResponse {
	out := witnessGraphResponse{
		Nodes: nonNilVertices(g.Nodes),
		Edges: make([]witnessEdgeResponse, 0, len(g.Edges)),
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, witnessEdgeResponse{
			From:      e.From,
			To:        e.To,
			SNR:       e.SNR,
			RSSI:      e.RSSI,
			DistanceM: e.DistanceM,
		})
	}
	return out
}

func nonNilVertices(v []domain.Vertex) []domain.Vertex {
	if v == nil {
		return []domain.Vertex{}
	}
	return v
}

type pairTotalResponse struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	PaymentTotal float64 `json:"payment_total"`
}

type pairCountResponse struct {
	From         string `json:"from"`
	To           string `json:"to"`
	PaymentCount int64  `json:"payment_count"`
}

type payerResponse struct {
	From        string  `json:"from"`
	TotalAmount float64 `json:"total_amount"`
	NumPayments int64   `json:"num_payments"`
}

type payeeResponse struct {
	To          string  `json:"to"`
	TotalAmount float64 `json:"total_amount"`
	NumPayments int64   `json:"num_payments"`
}

type flowEdgeResponse struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	TotalAmount float64 `json:"total_amount"`
	NumPayments int64   `json:"num_payments"`
}

type paymentGraphResponse struct {
	Nodes []domain.Vertex    `json:"nodes"`
	Edges []flowEdgeResponse `json:"edges"`
}

type witnessEdgeResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	SNR       float64 `json:"snr"`
	RSSI      float64 `json:"rssi"`
	DistanceM float64 `json:"distance_m"`
}

type witnessGraphResponse struct {
	Nodes []domain.Vertex       `json:"nodes"`
	Edges []witnessEdgeResponse `json:"edges"`
}

type witnessesResponse struct {
	Witnesses []domain.Vertex `json:"witnesses"`
}

type receiptResponse struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Gateway string  `json:"gateway"`
	SNR     float64 `json:"snr"`
	Signal  float64 `json:"signal"`
	Time    int64   `json:"time"`
}

type receiptsResponse struct {
	Receipts []receiptResponse `json:"receipts"`
}

type clustersResponse struct {
	Centroids [][2]float64 `json:"centroids"`
	Error     float64      `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
