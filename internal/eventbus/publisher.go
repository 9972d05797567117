// Package eventbus defines the narrow Publisher contract the transition
// engine and the item sync core use to emit lifecycle events, plus an
// SNS-backed production implementation.
package eventbus

import "context"

// Publisher publishes event to the durable bus topic identified by
// topicARN. Delivery is at-least-once; handlers downstream must be
// idempotent on the event payload.
type Publisher interface {
	Publish(ctx context.Context, topicARN string, event any) error
}
