package messaging

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Handler processes one message received on a channel.
type Handler func(ctx context.Context, msg Message) error

// Consume subscribes to the channels of eventTypes and feeds every message
// to handler until ctx is done. Handler errors are logged and skipped.
func Consume(ctx context.Context, broker Broker, handler Handler, eventTypes ...string) error {
	for _, eventType := range eventTypes {
		msgChan, err := broker.Subscribe(ctx, Channel(eventType))
		if err != nil {
			return err
		}

		go func(eventType string, msgChan <-chan []byte) {
			for payload := range msgChan {
				if err := handler(ctx, Message{Type: eventType, Payload: payload}); err != nil {
					log.Error().Err(err).Str("event_type", eventType).Msg("Failed to handle message")
				}
			}
		}(eventType, msgChan)
	}
	return nil
}
