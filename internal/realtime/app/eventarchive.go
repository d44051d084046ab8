package app

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/pkg/logger"
)

const archiveBuffer = 256

// KafkaEventArchiver mirrors bus events to a Kafka topic for downstream
// consumers (push notifications, moderation triage). Best effort: a full
// queue or a broker error drops the event and the command path never
// waits on the broker.
type KafkaEventArchiver struct {
	writer *kafka.Writer
	events chan domain.Event
	ctx    context.Context
	cancel context.CancelFunc
}

// NewKafkaEventArchiver create the archiver and start its writer loop
func NewKafkaEventArchiver(writer *kafka.Writer) *KafkaEventArchiver {
	ctx, cancel := context.WithCancel(context.Background())
	a := &KafkaEventArchiver{
		writer: writer,
		events: make(chan domain.Event, archiveBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
	go a.run()
	return a
}

// Archive enqueue ev for the writer loop
func (a *KafkaEventArchiver) Archive(ev domain.Event) {
	select {
	case a.events <- ev:
	default:
		logger.Log.Warn("event archive queue full, dropping event",
			zap.String("kind", string(ev.Kind)),
		)
	}
}

func (a *KafkaEventArchiver) run() {
	for {
		select {
		case ev := <-a.events:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Log.Errorf("event archive marshal error:", err)
				continue
			}
			if err := a.writer.WriteMessages(a.ctx, kafka.Message{
				Key:   []byte(ev.Scope.Key()),
				Value: data,
			}); err != nil {
				logger.Log.Errorf("event archive write error:", err)
			}
		case <-a.ctx.Done():
			return
		}
	}
}

// Close stop the writer loop and close the kafka writer
func (a *KafkaEventArchiver) Close() error {
	a.cancel()
	return a.writer.Close()
}
