package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"broride/internal/domain/models"
	"broride/internal/utils"
)

// KafkaPublisher ships domain events to a Kafka topic for downstream
// notification delivery (toast, email, push).
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Publish(evt models.Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		utils.LogEvent("", "events", "marshal_failed", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.RouteID),
		Value: payload,
	})
	if err != nil {
		utils.LogEvent("", "events", "publish_failed", string(evt.Type)+": "+err.Error())
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
