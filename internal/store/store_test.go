package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "cogtrain.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestStorePutGetDelete(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Put(ctx, "k", "v1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Put(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := st.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("expected v2, got %q ok=%v err=%v", v, ok, err)
	}

	entries, err := st.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "k" || entries[0].Size != 2 || entries[0].UpdatedAt.IsZero() {
		t.Fatalf("unexpected entries %+v", entries)
	}

	if err := st.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cogtrain.db")
	ctx := context.Background()
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Put(ctx, "lang", "zh"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	if v, ok, _ := st.Get(ctx, "lang"); !ok || v != "zh" {
		t.Fatalf("expected persisted value, got %q ok=%v", v, ok)
	}
}

func TestMemoryKV(t *testing.T) {
	var kv KV = NewMemory()
	ctx := context.Background()
	if err := kv.Put(ctx, "b", "2"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "a", "1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if keys := kv.(*Memory).Keys(); len(keys) != 2 || keys[0] != "a" {
		t.Fatalf("unexpected keys %v", keys)
	}
	_ = kv.Delete(ctx, "a")
	if _, ok, _ := kv.Get(ctx, "a"); ok {
		t.Fatalf("expected a deleted")
	}
}
