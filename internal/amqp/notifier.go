package amqp

import (
	"context"
	"time"

	"findash/internal/log"
	"findash/internal/observability"
	"findash/internal/snapshot"
)

// Publisher is the publishing half of Client.
type Publisher interface {
	PublishSnapshotChanged(ctx context.Context, msg *SnapshotChangedMessage) error
}

// Notifier turns snapshot writes into change events. Events are queued and
// published by Run so that a slow broker never holds up a store operation;
// when the queue is full the event is dropped and logged.
type Notifier struct {
	publisher Publisher
	events    chan *SnapshotChangedMessage
	logger    *log.Logger
}

var _ snapshot.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier buffering up to size events.
func NewNotifier(p Publisher, size int, logger *log.Logger) *Notifier {
	if size < 1 {
		size = 64
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Notifier{
		publisher: p,
		events:    make(chan *SnapshotChangedMessage, size),
		logger:    logger.WithComponent(log.ComponentAMQP),
	}
}

// SnapshotChanged implements snapshot.Notifier.
func (n *Notifier) SnapshotChanged(ctx context.Context, key string, op snapshot.Operation) {
	msg := NewSnapshotChangedMessage(key, string(op))
	select {
	case n.events <- msg:
	default:
		observability.RecordPublished(observability.ResultDegraded)
		n.logger.WarnContext(ctx, "Change event queue full, dropping event",
			log.FieldEventID, msg.ID,
			log.FieldStorageKey, key,
			log.FieldOperation, string(op))
	}
}

// Run publishes queued events until ctx is done, then makes one bounded
// attempt to flush what is left.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-n.events:
			n.publish(ctx, msg)
		case <-ctx.Done():
			n.flush()
			return nil
		}
	}
}

func (n *Notifier) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		select {
		case msg := <-n.events:
			n.publish(ctx, msg)
		default:
			return
		}
	}
}

func (n *Notifier) publish(ctx context.Context, msg *SnapshotChangedMessage) {
	if err := n.publisher.PublishSnapshotChanged(ctx, msg); err != nil {
		observability.RecordPublished(observability.ResultError)
		n.logger.ErrorContext(ctx, "Failed to publish change event",
			log.FieldEventID, msg.ID,
			log.FieldStorageKey, msg.Key,
			log.FieldOperation, msg.Operation,
			log.FieldError, err)
		return
	}
	observability.RecordPublished(observability.ResultOK)
}

// Pending returns the number of queued events.
func (n *Notifier) Pending() int {
	return len(n.events)
}
