package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/msomdec/bis-arena/internal/domain"
)

func TestFileStore_SaveAndGet(t *testing.T) {
	db := newTestDB(t)
	files := db.FileStore()
	ctx := context.Background()

	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	if err := files.Save(ctx, "profiles/abc.jpg", data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := files.Get(ctx, "profiles/abc.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("expected %v, got %v", data, got)
	}
}

func TestFileStore_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	files := db.FileStore()

	_, err := files.Get(context.Background(), "profiles/missing.png")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	db := newTestDB(t)
	files := db.FileStore()
	ctx := context.Background()

	if err := files.Save(ctx, "profiles/gone.png", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := files.Delete(ctx, "profiles/gone.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := files.Get(ctx, "profiles/gone.png")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStore_Delete_Missing(t *testing.T) {
	db := newTestDB(t)
	files := db.FileStore()

	// Deleting a key that was never stored is not an error.
	if err := files.Delete(context.Background(), "profiles/never.png"); err != nil {
		t.Fatalf("Delete missing key: %v", err)
	}
}
