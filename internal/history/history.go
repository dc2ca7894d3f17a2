// Package history keeps the bounded, newest-first list of session records
// and its import and export formats.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verte-zerg/cogtrain/internal/logx"
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/store"
)

const (
	// StorageKey is the KV key of the history blob.
	StorageKey = "reaction_trainer_history_v1"
	// Capacity bounds the number of retained records.
	Capacity = 1000
)

// ErrInvalidImport marks every rejected import.
var ErrInvalidImport = errors.New("invalid history import")

// ImportError reports why an import was rejected. Index is the offending
// record position, or -1 when the document itself is malformed.
type ImportError struct {
	Index int
	Err   error
}

func (e *ImportError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %v", ErrInvalidImport, e.Err)
	}
	return fmt.Sprintf("%v: record %d: %v", ErrInvalidImport, e.Index, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidImport) hold for every ImportError.
func (e *ImportError) Is(target error) bool { return target == ErrInvalidImport }

// WarnFunc receives recovered persistence failures.
type WarnFunc func(format string, args ...any)

// Option configures a Store.
type Option func(*Store)

// WithWarn routes persistence warnings to fn instead of stderr.
func WithWarn(fn WarnFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.warn = fn
		}
	}
}

// Store is the single writer of the history blob. It is not safe for
// concurrent use.
type Store struct {
	kv      store.KV
	records []model.SessionRecord
	warn    WarnFunc
}

// Open rehydrates the history from kv. Unreadable or corrupt data yields an
// empty history and a warning; records that fail validation are dropped.
func Open(ctx context.Context, kv store.KV, opts ...Option) *Store {
	s := &Store{kv: kv, warn: logx.Errf}
	for _, opt := range opts {
		opt(s)
	}
	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		s.warn("history: read failed, starting empty: %v\n", err)
		return s
	}
	if !ok || raw == "" {
		return s
	}
	var blobs []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &blobs); err != nil {
		s.warn("history: stored data is corrupt, starting empty: %v\n", err)
		return s
	}
	dropped := 0
	for _, b := range blobs {
		var rec model.SessionRecord
		if err := json.Unmarshal(b, &rec); err != nil {
			dropped++
			continue
		}
		s.records = append(s.records, rec)
	}
	if dropped > 0 {
		s.warn("history: dropped %d invalid records\n", dropped)
	}
	if len(s.records) > Capacity {
		s.records = s.records[:Capacity]
	}
	return s
}

// Append inserts rec at the head, evicts beyond Capacity and persists.
func (s *Store) Append(ctx context.Context, rec model.SessionRecord) {
	next := make([]model.SessionRecord, 0, min(len(s.records)+1, Capacity))
	next = append(next, rec)
	next = append(next, s.records[:min(len(s.records), Capacity-1)]...)
	s.records = next
	s.persist(ctx)
}

// Clear empties the history and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.records = nil
	s.persist(ctx)
}

// All returns a copy of the records, newest first.
func (s *Store) All() []model.SessionRecord {
	out := make([]model.SessionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records held.
func (s *Store) Len() int {
	return len(s.records)
}

// Replace swaps the whole history for records, kept in the given order
// (newest first, as exported) and trimmed to Capacity. The swap happens
// only after the new state was persisted, so a failure leaves the current
// history untouched.
func (s *Store) Replace(ctx context.Context, records []model.SessionRecord) error {
	next := make([]model.SessionRecord, len(records))
	copy(next, records)
	if len(next) > Capacity {
		next = next[:Capacity]
	}
	data, err := encode(next)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	s.records = next
	return nil
}

func (s *Store) persist(ctx context.Context) {
	data, err := encode(s.records)
	if err != nil {
		s.warn("history: encode failed: %v\n", err)
		return
	}
	if err := s.kv.Put(ctx, StorageKey, string(data)); err != nil {
		s.warn("history: save failed: %v\n", err)
	}
}

func encode(records []model.SessionRecord) ([]byte, error) {
	if records == nil {
		records = []model.SessionRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}
