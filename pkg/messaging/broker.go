package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// ChannelPrefix namespaces every portal event channel.
const ChannelPrefix = "portal."

// Channel returns the broker channel of an event type.
func Channel(eventType string) string {
	return ChannelPrefix + eventType
}

type Message struct {
	Type    string `json:"type"`
	Payload []byte `json:"payload"`
}
