package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/vanshika/heliumtrace/internal/cache"
	"github.com/vanshika/heliumtrace/internal/domain"
)

// ErrInvalidArgument marks caller errors such as an inverted time window or
// an out-of-range coordinate.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	defaultListLimit     = 100
	defaultGraphLimit    = 10
	defaultReceiptsLimit = 1000
	defaultClusters      = 10
	maxLimit             = 1000
)

// FlowParams are the query parameters shared by the payments endpoints. Nil
// time bounds select the defaults: zero for MinTime and the current time for
// MaxTime. A zero Limit selects the endpoint default.
type FlowParams struct {
	Limit   int
	MinTime *int64
	MaxTime *int64
}

// Caching configures response caching for a service. A nil Store disables it.
type Caching struct {
	Store      cache.Cache
	TTL        time.Duration
	ClusterTTL time.Duration
	Logger     *slog.Logger
}

func normalizeLimit(limit, def int) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}
	if limit == 0 {
		return def, nil
	}
	if limit > maxLimit {
		return maxLimit, nil
	}
	return limit, nil
}

func (p FlowParams) window(now time.Time, defaultLimit int) (domain.FlowWindow, error) {
	limit, err := normalizeLimit(p.Limit, defaultLimit)
	if err != nil {
		return domain.FlowWindow{}, err
	}
	w := domain.FlowWindow{MaxTime: now.Unix(), Limit: limit}
	if p.MinTime != nil {
		w.MinTime = *p.MinTime
	}
	if p.MaxTime != nil {
		w.MaxTime = *p.MaxTime
	}
	if w.MinTime >= w.MaxTime {
		return domain.FlowWindow{}, fmt.Errorf("%w: min_time %d must be before max_time %d", ErrInvalidArgument, w.MinTime, w.MaxTime)
	}
	return w, nil
}

// cacheKey identifies a flow query. An omitted max_time is keyed as "now" so
// that default-window requests share an entry for the cache TTL.
func (p FlowParams) cacheKey(prefix string, limit int) string {
	minTime, maxTime := "0", "now"
	if p.MinTime != nil {
		minTime = strconv.FormatInt(*p.MinTime, 10)
	}
	if p.MaxTime != nil {
		maxTime = strconv.FormatInt(*p.MaxTime, 10)
	}
	return fmt.Sprintf("%s:%d:%s:%s", prefix, limit, minTime, maxTime)
}
