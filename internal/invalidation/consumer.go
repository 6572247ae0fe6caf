// Package invalidation listens for ETL update notifications on Kafka and
// purges the cached responses derived from the updated collections.
package invalidation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/vanshika/heliumtrace/internal/cache"
	"github.com/vanshika/heliumtrace/internal/config"
	"github.com/vanshika/heliumtrace/internal/service"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Update is the notification the ETL publishes after loading a batch.
type Update struct {
	Collections []string `json:"collections"`
}

// collectionPrefixes maps an updated collection to the cache prefix it feeds.
var collectionPrefixes = map[string]string{
	"payments":  service.PaymentsCachePrefix,
	"accounts":  service.PaymentsCachePrefix,
	"witnesses": service.HotspotsCachePrefix,
	"hotspots":  service.HotspotsCachePrefix,
}

// Consumer purges cache prefixes for every update read from the topic.
type Consumer struct {
	reader MessageReader
	cache  cache.Cache
	logger *slog.Logger
}

// NewKafkaReader builds a consumer-group reader for the configured topic.
func NewKafkaReader(cfg config.InvalidationConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
	})
}

// NewConsumer constructs a Consumer.
func NewConsumer(reader MessageReader, c cache.Cache, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{reader: reader, cache: c, logger: logger}
}

// Run reads messages until ctx is cancelled or the reader fails.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return fmt.Errorf("kafka read: %w", err)
		}

		if err := c.Handle(ctx, msg.Value); err != nil {
			c.logger.Warn("skipping invalidation message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

// Handle decodes one update and purges the affected prefixes. Unknown
// collections are ignored.
func (c *Consumer) Handle(ctx context.Context, payload []byte) error {
	var update Update
	if err := json.Unmarshal(payload, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	purged := make(map[string]struct{})
	for _, collection := range update.Collections {
		prefix, ok := collectionPrefixes[collection]
		if !ok {
			c.logger.Debug("ignoring update for unknown collection", "collection", collection)
			continue
		}
		if _, done := purged[prefix]; done {
			continue
		}
		if err := c.cache.Purge(ctx, prefix); err != nil {
			return fmt.Errorf("purge %s: %w", prefix, err)
		}
		purged[prefix] = struct{}{}
		c.logger.Info("purged cached responses", "prefix", prefix, "collection", collection)
	}
	return nil
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
