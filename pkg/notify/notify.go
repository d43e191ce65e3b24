// Package notify delivers human-readable confirmations and errors to the user.
// Delivery is fire-and-forget; nothing the editor does depends on it.
package notify

import (
	"sync"

	"github.com/ritzau/workflow-canvas/pkg/logging"
	"github.com/ritzau/workflow-canvas/pkg/pubsub"
)

// Level is the severity of a notification
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Messages shown by the editor.
const (
	MsgNodeDeleted   = "Node deleted"
	MsgNodeCloned    = "Node cloned"
	MsgNoteSaved     = "Note saved"
	MsgNoteRemoved   = "Note removed"
	MsgNameRequired  = "Please enter a workflow name"
	MsgWorkflowSaved = "Workflow saved"
	MsgSaveFailed    = "Failed to save workflow"
)

// Notification is a single message for the user.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier is the notification collaborator.
type Notifier interface {
	Notify(n Notification)
}

// Info builds an info-level notification.
func Info(msg string) Notification {
	return Notification{Level: LevelInfo, Message: msg}
}

// Error builds an error-level notification.
func Error(msg string) Notification {
	return Notification{Level: LevelError, Message: msg}
}

// PubSubNotifier publishes notifications for SSE subscribers.
type PubSubNotifier struct {
	publisher pubsub.Publisher
}

// NewPubSubNotifier creates a notifier that publishes on pubsub.TopicNotifications.
func NewPubSubNotifier(p pubsub.Publisher) *PubSubNotifier {
	return &PubSubNotifier{publisher: p}
}

func (n *PubSubNotifier) Notify(note Notification) {
	if err := n.publisher.Publish(pubsub.TopicNotifications, string(note.Level), note); err != nil {
		logging.Warn("failed to publish notification", "message", note.Message, "error", err)
	}
}

// LogNotifier writes notifications to the log. Used when nothing else is wired.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	if n.Level == LevelError {
		logging.Warn("user notification", "message", n.Message)
		return
	}
	logging.Info("user notification", "message", n.Message)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
