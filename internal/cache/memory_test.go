package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/starplotd/starplot/internal/config"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	value := []byte("chart bytes")

	if err := s.Set(ctx, "k", value, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get = %q, want %q", got, value)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	if _, err := s.Get(context.Background(), "absent"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := s.Get(ctx, "k"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after expiry, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestMemoryStore_LargeValueRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	// Compressible payload exercises the snappy layer.
	value := bytes.Repeat([]byte("starplot"), 4096)

	ctx := context.Background()
	if err := s.Set(ctx, "big", value, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get(ctx, "big")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, value) {
		t.Error("Large value did not round trip")
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	s, err := New(config.CacheConfig{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Expected *MemoryStore, got %T", s)
	}
}

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New(config.CacheConfig{Type: "memcached"}); err == nil {
		t.Error("Expected error for unsupported cache type")
	}
}
