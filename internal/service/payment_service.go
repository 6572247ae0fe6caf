package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vanshika/heliumtrace/internal/cache"
	"github.com/vanshika/heliumtrace/internal/domain"
)

// PaymentsCachePrefix namespaces every cached payments response.
const PaymentsCachePrefix = "payments:"

// PaymentRepository is the storage contract required by the payment service.
type PaymentRepository interface {
	TopPaymentTotals(ctx context.Context, w domain.FlowWindow) ([]domain.PairTotal, error)
	TopPaymentCounts(ctx context.Context, w domain.FlowWindow) ([]domain.PairCount, error)
	TopPayers(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error)
	TopPayees(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error)
	TopPayersToPayee(ctx context.Context, address string, w domain.FlowWindow) ([]domain.AccountFlow, error)
	TopPayeesFromPayer(ctx context.Context, address string, w domain.FlowWindow) ([]domain.AccountFlow, error)
	PayerGraph(ctx context.Context, w domain.FlowWindow) (domain.PaymentGraph, error)
	PayeeGraph(ctx context.Context, w domain.FlowWindow) (domain.PaymentGraph, error)
}

// PaymentService validates payments queries and serves them through the
// response cache.
type PaymentService struct {
	repo    PaymentRepository
	caching Caching
	nowFn   func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo PaymentRepository, caching Caching) *PaymentService {
	return &PaymentService{
		repo:    repo,
		caching: caching,
		nowFn:   time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *PaymentService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// PaymentTotals returns the (payer, payee) pairs with the largest summed amount.
func (s *PaymentService) PaymentTotals(ctx context.Context, params FlowParams) ([]domain.PairTotal, error) {
	w, err := params.window(s.nowFn(), defaultListLimit)
	if err != nil {
		return nil, err
	}
	return remember(ctx, s.caching, s.caching.TTL, params.cacheKey(PaymentsCachePrefix+"totals", w.Limit), func(ctx context.Context) ([]domain.PairTotal, error) {
		return s.repo.TopPaymentTotals(ctx, w)
	})
}

// PaymentCounts returns the (payer, payee) pairs with the most payments.
func (s *PaymentService) PaymentCounts(ctx context.Context, params FlowParams) ([]domain.PairCount, error) {
	w, err := params.window(s.nowFn(), defaultListLimit)
	if err != nil {
		return nil, err
	}
	return remember(ctx, s.caching, s.caching.TTL, params.cacheKey(PaymentsCachePrefix+"counts", w.Limit), func(ctx context.Context) ([]domain.PairCount, error) {
		return s.repo.TopPaymentCounts(ctx, w)
	})
}

// TopPayers returns the accounts that paid the most.
func (s *PaymentService) TopPayers(ctx context.Context, params FlowParams) ([]domain.AccountFlow, error) {
	return s.flows(ctx, params, "payers", s.repo.TopPayers)
}

// TopPayees returns the accounts that were paid the most.
func (s *PaymentService) TopPayees(ctx context.Context, params FlowParams) ([]domain.AccountFlow, error) {
	return s.flows(ctx, params, "payees", s.repo.TopPayees)
}

// PayersTo returns the accounts that paid address the most.
func (s *PaymentService) PayersTo(ctx context.Context, address string, params FlowParams) ([]domain.AccountFlow, error) {
	address, err := requireAddress(address)
	if err != nil {
		return nil, err
	}
	return s.flows(ctx, params, "to:"+address, func(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error) {
		return s.repo.TopPayersToPayee(ctx, address, w)
	})
}

// PayeesFrom returns the accounts that address paid the most.
func (s *PaymentService) PayeesFrom(ctx context.Context, address string, params FlowParams) ([]domain.AccountFlow, error) {
	address, err := requireAddress(address)
	if err != nil {
		return nil, err
	}
	return s.flows(ctx, params, "from:"+address, func(ctx context.Context, w domain.FlowWindow) ([]domain.AccountFlow, error) {
		return s.repo.TopPayeesFromPayer(ctx, address, w)
	})
}

// PayerGraph expands one outbound hop from the top payers.
func (s *PaymentService) PayerGraph(ctx context.Context, params FlowParams) (domain.PaymentGraph, error) {
	return s.graph(ctx, params, "payers:graph", s.repo.PayerGraph)
}

// PayeeGraph expands one inbound hop into the top payees.
func (s *PaymentService) PayeeGraph(ctx context.Context, params FlowParams) (domain.PaymentGraph, error) {
	return s.graph(ctx, params, "payees:graph", s.repo.PayeeGraph)
}

func (s *PaymentService) flows(ctx context.Context, params FlowParams, name string, fetch func(context.Context, domain.FlowWindow) ([]domain.AccountFlow, error)) ([]domain.AccountFlow, error) {
	w, err := params.window(s.nowFn(), defaultListLimit)
	if err != nil {
		return nil, err
	}
	return remember(ctx, s.caching, s.caching.TTL, params.cacheKey(PaymentsCachePrefix+name, w.Limit), func(ctx context.Context) ([]domain.AccountFlow, error) {
		return fetch(ctx, w)
	})
}

func (s *PaymentService) graph(ctx context.Context, params FlowParams, name string, fetch func(context.Context, domain.FlowWindow) (domain.PaymentGraph, error)) (domain.PaymentGraph, error) {
	w, err := params.window(s.nowFn(), defaultGraphLimit)
	if err != nil {
		return domain.PaymentGraph{}, err
	}
	return remember(ctx, s.caching, s.caching.TTL, params.cacheKey(PaymentsCachePrefix+name, w.Limit), func(ctx context.Context) (domain.PaymentGraph, error) {
		return fetch(ctx, w)
	})
}

func requireAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: address is required", ErrInvalidArgument)
	}
	return address, nil
}

func remember[T any](ctx context.Context, c Caching, ttl time.Duration, key string, fn func(context.Context) (T, error)) (T, error) {
	if c.Store == nil {
		return fn(ctx)
	}
	return cache.Remember(ctx, c.Store, c.Logger, key, ttl, fn)
}
