package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const flushTimeoutMs = 5000

// KafkaPublisher produces config events keyed by project id, so events of one
// project stay ordered within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	p := &KafkaPublisher{producer: producer, topic: topic}
	go p.report()

	return p, nil
}

func (k *KafkaPublisher) report() {
	for e := range k.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			logrus.Errorf("config event delivery failed: %v", m.TopicPartition.Error)
		}
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event *ConfigEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ProjectID),
		Value:          value,
	}, nil)
	if err != nil {
		return fmt.Errorf("produce %s event: %w", event.Kind, err)
	}

	return nil
}

func (k *KafkaPublisher) Close() error {
	if remaining := k.producer.Flush(flushTimeoutMs); remaining > 0 {
		logrus.Warnf("%d config events were not delivered before close", remaining)
	}
	k.producer.Close()
	return nil
}
