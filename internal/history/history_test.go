package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/store"
)

type warnings struct {
	lines []string
}

func (w *warnings) warn(format string, args ...any) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func record(id string, at time.Time, m model.Metrics) model.SessionRecord {
	return model.SessionRecord{ID: id, Date: at.UTC().Truncate(time.Millisecond), Metrics: m}
}

func TestAppendEvictsOldest(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	h := Open(ctx, kv)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= Capacity; i++ {
		h.Append(ctx, record(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute), model.SequenceMetrics{Level: i}))
	}
	if h.Len() != Capacity {
		t.Fatalf("expected %d records, got %d", Capacity, h.Len())
	}
	all := h.All()
	if all[0].ID != fmt.Sprintf("r%d", Capacity) {
		t.Fatalf("expected newest first, got %s", all[0].ID)
	}
	if all[len(all)-1].ID != "r1" {
		t.Fatalf("expected r0 evicted, oldest is %s", all[len(all)-1].ID)
	}

	reopened := Open(ctx, kv)
	if reopened.Len() != Capacity || reopened.All()[0].ID != all[0].ID {
		t.Fatalf("reopen mismatch: len=%d", reopened.Len())
	}
}

func TestOpenCorruptBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Put(ctx, StorageKey, "{not json")
	w := &warnings{}
	h := Open(ctx, kv, WithWarn(w.warn))
	if h.Len() != 0 {
		t.Fatalf("expected empty history, got %d", h.Len())
	}
	if len(w.lines) != 1 || !strings.Contains(w.lines[0], "corrupt") {
		t.Fatalf("expected corrupt warning, got %v", w.lines)
	}
}

func TestOpenDropsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	blob := `[
		{"id":"a","game":"aim","dateIso":"2026-01-02T00:00:00.000Z","aim":{"hits":3,"accuracy":60,"timeSec":30}},
		{"id":"b","game":"aim","dateIso":"2026-01-01T00:00:00.000Z","taps":{"taps":1,"seconds":5,"avgIntervalMs":0}},
		{"id":"c","game":"sequence","dateIso":"2026-01-01T00:00:00.000Z","sequence":{"level":4,"longest":5}}
	]`
	_ = kv.Put(ctx, StorageKey, blob)
	w := &warnings{}
	h := Open(ctx, kv, WithWarn(w.warn))
	all := h.All()
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "c" {
		t.Fatalf("unexpected records %+v", all)
	}
	if len(w.lines) != 1 || !strings.Contains(w.lines[0], "dropped 1") {
		t.Fatalf("expected drop warning, got %v", w.lines)
	}
}

func TestAppendSaveFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.FailPut = errors.New("quota exceeded")
	w := &warnings{}
	h := Open(ctx, kv, WithWarn(w.warn))
	h.Append(ctx, record("x", time.Now(), model.TapsMetrics{Taps: 30, Seconds: 5}))
	if h.Len() != 1 {
		t.Fatalf("expected record kept in memory, got %d", h.Len())
	}
	if len(w.lines) != 1 || !strings.Contains(w.lines[0], "quota exceeded") {
		t.Fatalf("expected save warning, got %v", w.lines)
	}
}

func TestClearPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	h := Open(ctx, kv)
	h.Append(ctx, record("x", time.Now(), model.SequenceMetrics{Level: 2, Longest: 3}))
	h.Clear(ctx)
	if h.Len() != 0 {
		t.Fatalf("expected empty history")
	}
	raw, ok, _ := kv.Get(ctx, StorageKey)
	if !ok || raw != "[]" {
		t.Fatalf("expected [] stored, got %q ok=%v", raw, ok)
	}
}

func TestReplaceKeepsOrderAndTrims(t *testing.T) {
	ctx := context.Background()
	h := Open(ctx, store.NewMemory())
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var imported []model.SessionRecord
	for i := 0; i < Capacity+5; i++ {
		// Dates ascend while the list is newest first: order must not be re-derived from dates.
		imported = append(imported, record(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Second), model.ChoiceMetrics{Choices: 4}))
	}
	if err := h.Replace(ctx, imported); err != nil {
		t.Fatalf("replace: %v", err)
	}
	all := h.All()
	if len(all) != Capacity {
		t.Fatalf("expected %d records, got %d", Capacity, len(all))
	}
	if all[0].ID != "r0" || all[len(all)-1].ID != fmt.Sprintf("r%d", Capacity-1) {
		t.Fatalf("unexpected order: first=%s last=%s", all[0].ID, all[len(all)-1].ID)
	}
}

func TestExportImportKeepsAppendOrder(t *testing.T) {
	ctx := context.Background()
	h := Open(ctx, store.NewMemory())
	noon := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.Append(ctx, record("first", noon, model.AimMetrics{Hits: 1}))
	// Clock went backwards between sessions.
	h.Append(ctx, record("second", noon.Add(-time.Hour), model.AimMetrics{Hits: 2}))
	before := h.All()

	var buf bytes.Buffer
	if err := ExportJSON(&buf, before); err != nil {
		t.Fatalf("export: %v", err)
	}
	decoded, err := DecodeJSON(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := h.Replace(ctx, decoded); err != nil {
		t.Fatalf("replace: %v", err)
	}
	after := h.All()
	if len(after) != len(before) {
		t.Fatalf("expected %d records, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID {
			t.Fatalf("order changed at %d: expected %s, got %s", i, before[i].ID, after[i].ID)
		}
	}
}

func TestReplaceFailureLeavesHistory(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	h := Open(ctx, kv)
	h.Append(ctx, record("keep", time.Now(), model.SequenceMetrics{Level: 1, Longest: 2}))
	kv.FailPut = errors.New("disk full")
	err := h.Replace(ctx, []model.SessionRecord{record("new", time.Now(), model.SequenceMetrics{Level: 9})})
	if err == nil {
		t.Fatalf("expected replace error")
	}
	if all := h.All(); len(all) != 1 || all[0].ID != "keep" {
		t.Fatalf("expected history untouched, got %+v", all)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	h := Open(ctx, store.NewMemory())
	h.Append(ctx, record("x", time.Now(), model.SequenceMetrics{Level: 1}))
	all := h.All()
	all[0].ID = "mutated"
	if h.All()[0].ID != "x" {
		t.Fatalf("expected All to return a copy")
	}
}
