package ledger

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaSink publishes every ledger entry to a kafka topic so downstream
// consumers (reconciliation, analytics) can follow transaction state
// changes.
type KafkaSink struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaSink(brokers []string, topic string, logger *zap.Logger) (s *KafkaSink) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

func (s *KafkaSink) Append(ctx context.Context, entry Entry) (err error) {
	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.TransactionID),
		Value: entry.Bytes(),
	})
	if err != nil {
		s.logger.Error("failed to publish ledger entry",
			zap.String("transaction_id", entry.TransactionID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish ledger entry: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() (err error) {
	return s.writer.Close()
}
