package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func backends(t *testing.T) map[string]BlobStore {
	t.Helper()
	dir := t.TempDir()

	sq, err := NewSQLite(filepath.Join(dir, "db", "kalorien.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	fs, err := NewFile(filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	out := map[string]BlobStore{
		DriverMemory: NewMemory(),
		DriverSQLite: sq,
		DriverFile:   fs,
	}
	t.Cleanup(func() {
		for _, b := range out {
			b.Close()
		}
	})
	return out
}

func TestBlobStore_MissingKey(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		v, ok, err := b.Load(ctx, "nothing-here")
		if err != nil || ok || v != nil {
			t.Errorf("%s: Load(missing) = %q, %v, %v; want nil, false, nil", name, v, ok, err)
		}
	}
}

func TestBlobStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		if err := b.Save(ctx, "food-tracker-entries", []byte(`{"version":1}`)); err != nil {
			t.Fatalf("%s: Save: %v", name, err)
		}
		if err := b.Save(ctx, "food-tracker-entries", []byte(`{"version":1,"entries":[]}`)); err != nil {
			t.Fatalf("%s: Save (replace): %v", name, err)
		}
		v, ok, err := b.Load(ctx, "food-tracker-entries")
		if err != nil || !ok {
			t.Fatalf("%s: Load = %v, %v", name, ok, err)
		}
		if string(v) != `{"version":1,"entries":[]}` {
			t.Errorf("%s: Load = %s, want replaced value", name, v)
		}

		// keys are independent
		if _, ok, _ := b.Load(ctx, "weight-tracker-entries"); ok {
			t.Errorf("%s: unrelated key reported present", name)
		}
	}
}

func TestBlobStore_EmptyKey(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		if _, _, err := b.Load(ctx, ""); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("%s: Load(\"\") error = %v, want ErrEmptyKey", name, err)
		}
		if err := b.Save(ctx, "", []byte("x")); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("%s: Save(\"\") error = %v, want ErrEmptyKey", name, err)
		}
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte("abc")
	_ = m.Save(ctx, "k", in)
	in[0] = 'X'

	out, _, _ := m.Load(ctx, "k")
	if string(out) != "abc" {
		t.Fatalf("stored value changed through caller slice: %s", out)
	}
	out[1] = 'Y'
	again, _, _ := m.Load(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %s", again)
	}
}

func TestFile_WritesOneFilePerKeyWithoutTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Save(context.Background(), "weight-tracker-entries", []byte("[]")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "weight-tracker-entries.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v, want only weight-tracker-entries.json", names)
	}
}

func TestFile_RejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	for _, key := range []string{"../escape", "a/b", `a\b`, ".."} {
		if err := f.Save(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Save(%q) error = nil, want error", key)
		}
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kalorien.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.Save(ctx, "k", []byte("persisted")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.Load(ctx, "k")
	if err != nil || !ok || string(v) != "persisted" {
		t.Errorf("Load after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := b.(*Memory); !ok {
		t.Errorf("Open(memory) = %T, want *Memory", b)
	}

	b, err = Open(ctx, Options{Path: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	defer b.Close()
	if _, ok := b.(*SQLite); !ok {
		t.Errorf("Open(default) = %T, want *SQLite", b)
	}

	if _, err := Open(ctx, Options{Driver: "redis"}); err == nil || !strings.Contains(err.Error(), "redis") {
		t.Errorf("Open(redis) error = %v, want unknown driver", err)
	}
	if _, err := Open(ctx, Options{Driver: DriverMongo}); err == nil {
		t.Error("Open(mongo) without uri error = nil, want error")
	}
}
