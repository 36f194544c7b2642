package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// KafkaPublisher publishes each event to the Kafka topic matching its
// type, JSON-encoded.
type KafkaPublisher struct {
	pub message.Publisher
}

func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	pub, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{pub: pub}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pub.Publish(e.Type, msg)
}

func (p *KafkaPublisher) Close() error { return p.pub.Close() }
