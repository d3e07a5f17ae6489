package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestManager_LayerPriority(t *testing.T) {
	m := NewManager()
	m.AddFS("embedded", fstest.MapFS{
		"office.yaml": {Data: []byte("base")},
		"extra.yaml":  {Data: []byte("extra")},
	})
	m.AddFS("override", fstest.MapFS{
		"office.yaml": {Data: []byte("patched")},
	})

	data, err := m.Load("office.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "patched" {
		t.Errorf("Load(office.yaml) = %q, want patched", data)
	}
	if data, _ := m.Load("extra.yaml"); string(data) != "extra" {
		t.Errorf("Load(extra.yaml) = %q, want extra", data)
	}

	src := m.Sources()
	if len(src) != 2 || src[0] != "override" {
		t.Errorf("Sources() = %v, want override first", src)
	}
}

func TestManager_NotFound(t *testing.T) {
	m := NewManager()
	m.AddFS("empty", fstest.MapFS{})

	_, err := m.Load("missing.yaml")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestManager_Cache(t *testing.T) {
	m := NewManager()
	m.AddFS("mem", fstest.MapFS{"a.yaml": {Data: []byte("a")}})

	m.Load("a.yaml")
	m.Load("a.yaml")
	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits %d misses, want 1 1", hits, misses)
	}

	// New layers invalidate cached data
	m.AddFS("newer", fstest.MapFS{"a.yaml": {Data: []byte("b")}})
	if data, _ := m.Load("a.yaml"); string(data) != "b" {
		t.Errorf("Load() after AddFS = %q, want b", data)
	}
}

func TestManager_AddDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "floor.yaml"), []byte("disk"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.AddDir(dir); err != nil {
		t.Fatalf("AddDir() error = %v", err)
	}
	if data, err := m.Load("floor.yaml"); err != nil || string(data) != "disk" {
		t.Errorf("Load() = %q, %v, want disk", data, err)
	}

	if err := m.AddDir(filepath.Join(dir, "floor.yaml")); err == nil {
		t.Error("AddDir() on a file should fail")
	}
	if err := m.AddDir(filepath.Join(dir, "nope")); err == nil {
		t.Error("AddDir() on a missing path should fail")
	}
}

func TestManager_LoadAllCollectsFailures(t *testing.T) {
	m := NewManager()
	m.AddFS("mem", fstest.MapFS{
		"a.yaml": {Data: []byte("a")},
		"c.yaml": {Data: []byte("c")},
	})

	results, failed := m.LoadAll([]string{"a.yaml", "b.yaml", "c.yaml"})
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if !errors.Is(results[1].Err, ErrNotFound) {
		t.Errorf("results[1].Err = %v, want ErrNotFound", results[1].Err)
	}
	if string(results[2].Data) != "c" {
		t.Errorf("results[2].Data = %q, want c (loading continues after a failure)", results[2].Data)
	}
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	m.AddFS("mem", fstest.MapFS{"a.yaml": {Data: []byte("a")}})
	m.Load("a.yaml")
	m.Close()

	if _, err := m.Load("a.yaml"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after Close() error = %v, want ErrNotFound", err)
	}
}
