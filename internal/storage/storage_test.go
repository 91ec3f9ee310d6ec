package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLocalRoundTrip(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "https://cdn.example.com/uploads/")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	ctx := context.Background()
	data := []byte("image bytes")

	if err := store.Put(ctx, "reviews/42/photo.jpg", data); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Read(ctx, "reviews/42/photo.jpg")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Read() = %q, want %q", got, data)
	}

	if got := store.URL("reviews/42/photo.jpg"); got != "https://cdn.example.com/uploads/reviews/42/photo.jpg" {
		t.Errorf("URL() = %q", got)
	}

	if err := store.Delete(ctx, "reviews/42/photo.jpg"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Read(ctx, "reviews/42/photo.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() after delete error = %v, want ErrNotFound", err)
	}
}

func TestLocalMissingObject(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	if _, err := store.Read(context.Background(), "missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLocalRejectsEscapingNames(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	if err := store.Put(context.Background(), "../outside.txt", []byte("x")); err == nil {
		t.Error("Put() should reject names escaping the root")
	}
}

func TestLocalDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	if err := store.Delete(context.Background(), "never-existed.jpg"); err != nil {
		t.Errorf("Delete() of missing object error = %v, want nil", err)
	}
}
