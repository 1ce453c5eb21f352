package queue

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (l *LogPublisher) Publish(ctx context.Context, event *ConfigEvent) error {
	logrus.WithFields(logrus.Fields{
		"kind":    event.Kind,
		"project": event.ProjectID,
		"actor":   event.Actor,
		"subject": event.Subject,
	}).Info("config event")
	return nil
}

func (l *LogPublisher) Close() error {
	return nil
}
