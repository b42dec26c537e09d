package consumer

import (
	"context"
	"encoding/json"

	"go-attendance/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeChangeFeed bridges one broker topic onto the in-process bus.
// The payload is decoded only for logging; the bus signal carries the
// family alone, per the refetch-not-patch contract.
func ConsumeChangeFeed(
	ctx context.Context,
	reader *kafkago.Reader,
	family events.Family,
	bus *events.Bus,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.changefeed").With(zap.String("family", string(family)))
	log.Info("change feed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("change feed consumer stopped")
				return
			}
			log.Error("fetch change feed message failed", zap.Error(err))
			continue
		}

		var event events.ChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Warn("decode change event failed, signalling anyway", zap.Error(err))
		}

		bus.Publish(family)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit change feed message failed", zap.Error(err))
			continue
		}

		log.Debug("change event bridged",
			zap.String("event_type", event.EventType),
			zap.Time("occurred_at", event.OccurredAt),
		)
	}
}
