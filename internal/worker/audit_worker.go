// Package worker contains the consumer side of snapshot change events.
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"findash/internal/amqp"
	"findash/internal/log"
	"findash/internal/observability"
	"findash/internal/snapshot"
)

// ViolationReporter reports the advisory invariant violations of a stored
// snapshot. It must not write to the medium; found is false when nothing is
// stored under the key.
type ViolationReporter interface {
	StoredViolations(ctx context.Context) (violations []string, found bool, err error)
}

// AuditEntry is one processed change event.
type AuditEntry struct {
	EventID   string
	Key       string
	Operation string
	ChangedAt time.Time
	AuditedAt time.Time
	// Missing is set when the key held no usable snapshot at audit time.
	Missing    bool
	Violations []string
}

// AuditWorker logs every snapshot change and checks the changed snapshot
// against its invariants when a reporter is registered for its key.
type AuditWorker struct {
	reporters map[string]ViolationReporter
	logger    *log.Logger
	now       func() time.Time

	mu      sync.Mutex
	history []AuditEntry
	limit   int
}

// NewAuditWorker keeps the last historySize entries in memory.
func NewAuditWorker(reporters map[string]ViolationReporter, historySize int, logger *log.Logger) *AuditWorker {
	if historySize < 1 {
		historySize = 100
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &AuditWorker{
		reporters: reporters,
		logger:    logger.WithComponent(log.ComponentWorker),
		now:       time.Now,
		limit:     historySize,
	}
}

// HandleSnapshotChanged processes one change event. An error asks the
// consumer to requeue the message.
func (w *AuditWorker) HandleSnapshotChanged(ctx context.Context, msg *amqp.SnapshotChangedMessage) error {
	observability.RecordConsumed(msg.Key, msg.Operation)

	entry := AuditEntry{
		EventID:   msg.ID,
		Key:       msg.Key,
		Operation: msg.Operation,
		ChangedAt: msg.Timestamp,
		AuditedAt: w.now(),
	}

	fields := log.NewFields().
		WithSnapshot(msg.Key, msg.Operation).
		WithComponent(log.ComponentWorker)
	fields[log.FieldEventID] = msg.ID
	fields["lag_ms"] = entry.AuditedAt.Sub(msg.Timestamp).Milliseconds()

	// A cleared key has nothing left to check.
	if r, ok := w.reporters[msg.Key]; ok && msg.Operation != string(snapshot.OpClear) {
		v, found, err := r.StoredViolations(ctx)
		if err != nil {
			return fmt.Errorf("audit %s: %w", msg.Key, err)
		}
		entry.Violations = v
		entry.Missing = !found
	}

	switch {
	case entry.Missing:
		w.logger.InfoContext(ctx, "Snapshot changed, nothing stored any more", fields.ToSlice()...)
	case len(entry.Violations) > 0:
		fields["violations"] = entry.Violations
		w.logger.WarnContext(ctx, "Snapshot changed with invariant violations", fields.ToSlice()...)
	default:
		w.logger.InfoContext(ctx, "Snapshot changed", fields.ToSlice()...)
	}

	w.remember(entry)
	return nil
}

// StartupCheck audits every registered snapshot once, so violations that
// appeared while the worker was down are still reported.
func (w *AuditWorker) StartupCheck(ctx context.Context) error {
	keys := make([]string, 0, len(w.reporters))
	for k := range w.reporters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v, found, err := w.reporters[key].StoredViolations(ctx)
		if err != nil {
			return fmt.Errorf("startup audit %s: %w", key, err)
		}
		if !found {
			w.logger.InfoContext(ctx, "No stored snapshot yet", log.FieldStorageKey, key)
			continue
		}
		if len(v) > 0 {
			w.logger.WarnContext(ctx, "Stored snapshot has invariant violations",
				log.FieldStorageKey, key, "violations", v)
			continue
		}
		w.logger.InfoContext(ctx, "Stored snapshot is consistent", log.FieldStorageKey, key)
	}
	return nil
}

func (w *AuditWorker) remember(e AuditEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.history = append(w.history, e)
	if over := len(w.history) - w.limit; over > 0 {
		w.history = append([]AuditEntry(nil), w.history[over:]...)
	}
}

// History returns the retained entries, oldest first.
func (w *AuditWorker) History() []AuditEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]AuditEntry(nil), w.history...)
}
