package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanshika/heliumtrace/internal/cache"
	"github.com/vanshika/heliumtrace/internal/domain"
)

type stubPaymentRepository struct {
	windows   []domain.FlowWindow
	addresses []string
	totals    []domain.PairTotal
	flows     []domain.AccountFlow
	graph     domain.PaymentGraph
	err       error
	graphDir  string
}

func (s *stubPaymentRepository) record(w domain.FlowWindow) {
	s.windows = append(s.windows, w)
}

func (s *stubPaymentRepository) TopPaymentTotals(ctx context.Context, w domain.FlowWindow) ([]domain.PairTotal, error) {
	s.record(w)
	if s.err != nil {
		return nil, s.err
	}
	return s.totals, nil
}

func (s *stubPaymentRepository) TopPaymentCounts(ctx context.Context, w domain.FlowWindow) ([]domain.PairCount, error) {
	s.record(w)
	return []domain.PairCount{}, s.err
}

func (s *stubPaymentRepository) TopPayers(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	s.record(w)
	return s.flows, s.err
}

func (s *stubPaymentRepository) TopPayees(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	s.record(w)
	return s.flows, s.err
}

func (s *stubPaymentRepository) TopPayersToPayee(ctx context.Context, address string, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	s.record(w)
	s.addresses = append(s.addresses, address)
	return s.flows, s.err
}

func (s *stubPaymentRepository) TopPayeesFromPayer(ctx context.Context, address string, w domain.FlowWindow) ([]domain.AccountFlow, error) {
	s.record(w)
	s.addresses = append(s.addresses, address)
	return s.flows, s.err
}

func (s *stubPaymentRepository) PayerGraph(ctx context.Context, w domain.FlowWindow) (domain.PaymentGraph, error) {
	s.record(w)
	s.graphDir = "payers"
	return s.graph, s.err
}

func (s *stubPaymentRepository) PayeeGraph(ctx context.Context, w domain.FlowWindow) (domain.PaymentGraph, error) {
	s.record(w)
	s.graphDir = "payees"
	return s.graph, s.err
}

func int64Ptr(v int64) *int64 { return &v }

func fixedClock() time.Time { return time.Unix(1_700_000_000, 0) }

func TestPaymentService_DefaultWindow(t *testing.T) {
	repo := &stubPaymentRepository{}
	svc := NewPaymentService(repo, Caching{})
	svc.WithClock(fixedClock)

	if _, err := svc.PaymentTotals(context.Background(), FlowParams{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	w := repo.windows[0]
	if w.MinTime != 0 || w.MaxTime != 1_700_000_000 || w.Limit != defaultListLimit {
		t.Fatalf("unexpected default window %+v", w)
	}
}

func TestPaymentService_GraphDefaultsAndClamp(t *testing.T) {
	repo := &stubPaymentRepository{}
	svc := NewPaymentService(repo, Caching{})
	svc.WithClock(fixedClock)

	if _, err := svc.PayeeGraph(context.Background(), FlowParams{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.graphDir != "payees" {
		t.Fatalf("expected payee graph, got %q", repo.graphDir)
	}
	if repo.windows[0].Limit != defaultGraphLimit {
		t.Fatalf("expected graph limit %d, got %d", defaultGraphLimit, repo.windows[0].Limit)
	}

	if _, err := svc.TopPayers(context.Background(), FlowParams{Limit: 50_000}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.windows[1].Limit != maxLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxLimit, repo.windows[1].Limit)
	}
}

func TestPaymentService_RejectsInvertedWindow(t *testing.T) {
	repo := &stubPaymentRepository{}
	svc := NewPaymentService(repo, Caching{})

	_, err := svc.TopPayees(context.Background(), FlowParams{MinTime: int64Ptr(100), MaxTime: int64Ptr(100)})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.TopPayees(context.Background(), FlowParams{Limit: -1}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative limit, got %v", err)
	}
	if len(repo.windows) != 0 {
		t.Fatalf("expected no repository calls, got %d", len(repo.windows))
	}
}

func TestPaymentService_AddressRequired(t *testing.T) {
	repo := &stubPaymentRepository{}
	svc := NewPaymentService(repo, Caching{})

	if _, err := svc.PayersTo(context.Background(), "  ", FlowParams{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.PayeesFrom(context.Background(), " abc ", FlowParams{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.addresses) != 1 || repo.addresses[0] != "abc" {
		t.Fatalf("expected trimmed address, got %v", repo.addresses)
	}
}

func TestPaymentService_CachesResponses(t *testing.T) {
	repo := &stubPaymentRepository{totals: []domain.PairTotal{{From: "a", To: "b", Total: 3}}}
	store := cache.NewMemoryCache()
	svc := NewPaymentService(repo, Caching{Store: store, TTL: time.Minute})
	svc.WithClock(fixedClock)

	params := FlowParams{Limit: 10, MinTime: int64Ptr(1), MaxTime: int64Ptr(99)}
	for i := 0; i < 3; i++ {
		rows, err := svc.PaymentTotals(context.Background(), params)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 1 || rows[0].Total != 3 {
			t.Fatalf("unexpected rows %+v", rows)
		}
	}
	if len(repo.windows) != 1 {
		t.Fatalf("expected a single repository call, got %d", len(repo.windows))
	}

	if err := store.Purge(context.Background(), PaymentsCachePrefix); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, err := svc.PaymentTotals(context.Background(), params); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.windows) != 2 {
		t.Fatalf("expected purge to force a recompute, got %d calls", len(repo.windows))
	}
}

func TestPaymentService_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store down")
	repo := &stubPaymentRepository{err: boom}
	svc := NewPaymentService(repo, Caching{Store: cache.NewMemoryCache(), TTL: time.Minute})

	if _, err := svc.PaymentTotals(context.Background(), FlowParams{}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
