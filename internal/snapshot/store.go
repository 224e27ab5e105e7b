// Package snapshot persists one whole record per key in a storage.Medium
// and exposes the get/save/update/reset protocol over it.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"findash/internal/log"
	"findash/internal/observability"
	"findash/internal/storage"
)

var (
	// ErrCorrupt wraps the decode error of a stored blob under CorruptFail.
	ErrCorrupt = errors.New("corrupt snapshot")
	// ErrInvalidPartial is returned by Update when the partial does not
	// encode to a JSON object.
	ErrInvalidPartial = errors.New("partial must encode to a JSON object")
)

// Operation names a write performed on a snapshot.
type Operation string

const (
	OpSave   Operation = "save"
	OpUpdate Operation = "update"
	OpReset  Operation = "reset"
	OpClear  Operation = "clear"
)

// Notifier is told about every write that reached the medium.
type Notifier interface {
	SnapshotChanged(ctx context.Context, key string, op Operation)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, key string, op Operation)

func (f NotifierFunc) SnapshotChanged(ctx context.Context, key string, op Operation) {
	f(ctx, key, op)
}

type settings struct {
	policy    CorruptPolicy
	notifiers []Notifier
	now       func() time.Time
}

// Option configures a Store.
type Option func(*settings)

func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(s *settings) { s.policy = p }
}

// WithNotifier registers n. It may be given more than once.
func WithNotifier(n Notifier) Option {
	return func(s *settings) {
		if n != nil {
			s.notifiers = append(s.notifiers, n)
		}
	}
}

// Store owns the record of type T persisted under a single key.
//
// Operations on one Store are serialized, so an Update never interleaves
// with another write from the same process. Separate processes sharing the
// medium get last-writer-wins.
type Store[T any] struct {
	mu       sync.Mutex
	medium   storage.Medium
	key      string
	defaults func() T
	logger   *log.Logger
	settings
}

// New returns a store for key. A nil medium behaves like storage.Unavailable.
// defaults must return a fresh value on every call.
func New[T any](medium storage.Medium, key string, defaults func() T, logger *log.Logger, opts ...Option) *Store[T] {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Store[T]{
		medium:   medium,
		key:      key,
		defaults: defaults,
		logger:   logger.WithComponent(log.ComponentSnapshot).With(log.FieldStorageKey, key),
		settings: settings{policy: CorruptFallback, now: time.Now},
	}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

func (s *Store[T]) Key() string { return s.key }

func (s *Store[T]) Policy() CorruptPolicy { return s.policy }

// Get returns the stored record. When nothing is stored yet the defaults are
// written under the key and returned.
func (s *Store[T]) Get(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	v, degraded, err := s.load(ctx)
	s.record(log.OpGet, start, degraded, err)
	return v, err
}

// Peek returns the stored record without ever writing to the medium. It
// reads past read-through caches so writes made by other processes are
// visible. The boolean is false when there is no usable blob, which covers
// an absent key, an unavailable medium and a corrupt blob under
// CorruptFallback.
func (s *Store[T]) Peek(ctx context.Context) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	v, found, err := s.peek(ctx)
	s.record(log.OpPeek, start, false, err)
	return v, found, err
}

func (s *Store[T]) peek(ctx context.Context) (T, bool, error) {
	var zero T
	if s.medium == nil {
		return zero, false, nil
	}

	raw, ok, err := storage.Uncached(s.medium).GetItem(ctx, s.key)
	if err != nil {
		if storage.IsUnavailable(err) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("peek %s: %w", s.key, err)
	}
	if !ok {
		return zero, false, nil
	}

	v, err := decode[T](raw)
	if err == nil {
		return v, true, nil
	}

	observability.RecordCorrupt(s.key)
	if s.policy == CorruptFail {
		return zero, false, fmt.Errorf("decode %s: %w: %w", s.key, ErrCorrupt, err)
	}
	s.logger.WarnContext(ctx, "Stored snapshot is corrupt",
		log.FieldOperation, log.OpPeek,
		log.FieldBytes, len(raw),
		log.FieldError, err)
	return zero, false, nil
}

// Save replaces the stored record with record. No validation is performed.
func (s *Store[T]) Save(ctx context.Context, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	degraded, err := s.persist(ctx, record, OpSave)
	s.record(log.OpSave, start, degraded, err)
	return err
}

// Update shallow-merges partial over the current record and persists the
// result. Every top-level key present in partial's JSON encoding replaces
// the stored value for that key wholesale; nested objects are not merged.
// Keys that do not belong to T are dropped.
func (s *Store[T]) Update(ctx context.Context, partial any) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	merged, degraded, err := s.update(ctx, partial)
	s.record(log.OpUpdate, start, degraded, err)
	return merged, err
}

func (s *Store[T]) update(ctx context.Context, partial any) (T, bool, error) {
	var zero T
	current, loadDegraded, err := s.load(ctx)
	if err != nil {
		return zero, loadDegraded, err
	}
	merged, err := merge(current, partial)
	if err != nil {
		return zero, loadDegraded, err
	}
	degraded, err := s.persist(ctx, merged, OpUpdate)
	if err != nil {
		return zero, degraded, err
	}
	return merged, loadDegraded || degraded, nil
}

// Reset persists and returns the defaults.
func (s *Store[T]) Reset(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	d := s.defaults()
	degraded, err := s.persist(ctx, d, OpReset)
	s.record(log.OpReset, start, degraded, err)
	if err != nil {
		var zero T
		return zero, err
	}
	return d, nil
}

// Clear removes the stored blob so the next Get seeds the defaults again.
func (s *Store[T]) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	if s.medium == nil {
		s.record(log.OpClear, start, true, nil)
		return nil
	}
	if err := s.medium.RemoveItem(ctx, s.key); err != nil {
		if storage.IsUnavailable(err) {
			s.logger.WarnContext(ctx, "Storage unavailable, nothing cleared", log.FieldError, err)
			s.record(log.OpClear, start, true, nil)
			return nil
		}
		err = fmt.Errorf("clear %s: %w", s.key, err)
		s.record(log.OpClear, start, false, err)
		return err
	}
	s.record(log.OpClear, start, false, nil)
	s.notify(ctx, OpClear)
	return nil
}

// load reads and decodes the blob, seeding defaults when it is absent. The
// boolean reports that defaults were served because the medium is unusable
// or the blob was corrupt.
func (s *Store[T]) load(ctx context.Context) (T, bool, error) {
	var zero T
	if s.medium == nil {
		return s.defaults(), true, nil
	}

	raw, ok, err := s.medium.GetItem(ctx, s.key)
	if err != nil {
		if storage.IsUnavailable(err) {
			s.logger.WarnContext(ctx, "Storage unavailable, serving defaults",
				log.FieldOperation, log.OpGet, log.FieldError, err)
			return s.defaults(), true, nil
		}
		return zero, false, fmt.Errorf("get %s: %w", s.key, err)
	}

	if !ok {
		d := s.defaults()
		degraded, err := s.write(ctx, d)
		if err != nil {
			return zero, false, fmt.Errorf("seed %s: %w", s.key, err)
		}
		if !degraded {
			s.logger.InfoContext(ctx, "Seeded snapshot with defaults", log.FieldOperation, log.OpSeed)
		}
		return d, degraded, nil
	}

	v, err := decode[T](raw)
	if err == nil {
		return v, false, nil
	}

	observability.RecordCorrupt(s.key)
	if s.policy == CorruptFail {
		return zero, false, fmt.Errorf("decode %s: %w: %w", s.key, ErrCorrupt, err)
	}
	s.logger.WarnContext(ctx, "Stored snapshot is corrupt, serving defaults",
		log.FieldOperation, log.OpDecode,
		log.FieldPolicy, s.policy.String(),
		log.FieldBytes, len(raw),
		log.FieldError, err)
	return s.defaults(), true, nil
}

// persist writes v and notifies on success.
func (s *Store[T]) persist(ctx context.Context, v T, op Operation) (bool, error) {
	degraded, err := s.write(ctx, v)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", op, s.key, err)
	}
	if degraded {
		s.logger.WarnContext(ctx, "Storage unavailable, change not persisted", log.FieldOperation, string(op))
		return true, nil
	}
	observability.RecordWrite(s.key, s.now())
	s.notify(ctx, op)
	return false, nil
}

func (s *Store[T]) write(ctx context.Context, v T) (bool, error) {
	if s.medium == nil {
		return true, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("encode: %w", err)
	}
	if err := s.medium.SetItem(ctx, s.key, string(b)); err != nil {
		if storage.IsUnavailable(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *Store[T]) notify(ctx context.Context, op Operation) {
	for _, n := range s.notifiers {
		n.SnapshotChanged(ctx, s.key, op)
	}
}

func (s *Store[T]) record(op string, start time.Time, degraded bool, err error) {
	result := observability.ResultOK
	switch {
	case err != nil:
		result = observability.ResultError
	case degraded:
		result = observability.ResultDegraded
	}
	observability.RecordOperation(s.key, op, result, s.now().Sub(start))
	if err != nil {
		s.logger.Debug("Snapshot operation failed", log.FieldOperation, op, log.FieldError, err)
	}
}

// decode rejects anything but a JSON object so that "null" or a bare value
// never turns into a zero record.
func decode[T any](raw string) (T, error) {
	var v T
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return v, errors.New("stored value is not a JSON object")
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return v, err
	}
	return v, nil
}

// merge overlays the top-level keys of partial's encoding onto current.
func merge[T any](current T, partial any) (T, error) {
	var out T
	if partial == nil {
		return current, nil
	}

	base, err := objectFields(current)
	if err != nil {
		return out, fmt.Errorf("encode current: %w", err)
	}
	overlay, err := objectFields(partial)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidPartial, err)
	}
	for k, v := range overlay {
		base[k] = v
	}

	b, err := json.Marshal(base)
	if err != nil {
		return out, fmt.Errorf("encode merged: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidPartial, err)
	}
	return out, nil
}

func objectFields(v any) (map[string]json.RawMessage, error) {
	var b []byte
	switch x := v.(type) {
	case json.RawMessage:
		b = x
	case []byte:
		b = x
	case string:
		b = []byte(x)
	default:
		var err error
		if b, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("not a JSON object")
	}
	return fields, nil
}
