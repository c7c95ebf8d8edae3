package refimage

import (
	"context"
	"errors"
	"testing"
)

func create(t *testing.T, repo *MemoryRepository, owner, name string) *ReferenceImage {
	t.Helper()
	ri := &ReferenceImage{
		OwnerID:  owner,
		Name:     name,
		ImageURL: "https://cdn.example.com/" + name + ".png",
	}
	if err := repo.Create(context.Background(), ri); err != nil {
		t.Fatalf("create: %v", err)
	}
	return ri
}

func TestMemoryRepository_ListByOwner(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	create(t, repo, "anon_alice", "first")
	second := create(t, repo, "anon_alice", "second")
	create(t, repo, "anon_bob", "other")

	rows, err := repo.ListByOwner(ctx, "anon_alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ID != second.ID {
		t.Errorf("expected newest first, got id %d", rows[0].ID)
	}
}

func TestMemoryRepository_Update(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	ri := create(t, repo, "anon_alice", "hero")

	name := "renamed"
	if err := repo.Update(ctx, ri.ID, "anon_bob", Update{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner update: got %v, want ErrNotFound", err)
	}

	category := "custom"
	if err := repo.Update(ctx, ri.ID, "anon_alice", Update{Name: &name, Category: &category}); err != nil {
		t.Fatalf("update: %v", err)
	}

	rows, _ := repo.ListByOwner(ctx, "anon_alice")
	if rows[0].Name != "renamed" || rows[0].Category != "custom" {
		t.Errorf("got %q %q", rows[0].Name, rows[0].Category)
	}

	// Nil fields leave values unchanged.
	if err := repo.Update(ctx, ri.ID, "anon_alice", Update{}); err != nil {
		t.Fatalf("empty update: %v", err)
	}
	rows, _ = repo.ListByOwner(ctx, "anon_alice")
	if rows[0].Name != "renamed" {
		t.Errorf("empty update changed the name to %q", rows[0].Name)
	}
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	ri := create(t, repo, "anon_alice", "hero")

	if err := repo.Delete(ctx, ri.ID, "anon_bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, ri.ID, "anon_alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, ri.ID, "anon_alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
