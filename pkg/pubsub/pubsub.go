// Package pubsub pushes editor state changes to browser clients over
// Server-Sent Events.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
)

// Topics published by the workflow canvas.
const (
	TopicCanvas        = "canvas"        // editor snapshot after every mutation
	TopicNotifications = "notifications" // user-facing confirmations and errors
	TopicWorkflows     = "workflows"     // saved workflow list changed
)

var (
	ErrClosed       = errors.New("publisher is closed")
	ErrUnknownTopic = errors.New("unknown topic")
)

// Event is one message on a topic
type Event struct {
	Topic   string          `json:"topic"`   // e.g. "canvas"
	Type    string          `json:"type"`    // e.g. "snapshot", "info", "changed"
	Data    json.RawMessage `json:"data"`    // payload
	Version int             `json:"version"` // per-topic sequence number
}

// Subscription is a client's view of a single topic
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher fans events out to subscribers
type Publisher interface {
	// Subscribe creates a new subscription to a topic.
	// Context cancellation closes the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data any) error

	Close() error
}

// WorkflowsChanged is published on TopicWorkflows when the store changes.
type WorkflowsChanged struct {
	Count  int      `json:"count"`
	Events []string `json:"events,omitempty"` // file names or slugs that changed
}

// DefaultTopics is the buffering used by the server. New subscribers get the
// latest canvas snapshot and workflow list; notifications are never replayed.
func DefaultTopics() map[string]TopicConfig {
	return map[string]TopicConfig{
		TopicCanvas:        {BufferSize: 1},
		TopicNotifications: {},
		TopicWorkflows:     {BufferSize: 1},
	}
}
