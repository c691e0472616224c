package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"product-resource/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryProductRepositoryOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"old", "new", "middle"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		p := &model.Product{Title: title, Created: base.Add(offsets[i])}
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if p.ID.IsZero() {
			t.Fatal("Insert did not assign an id")
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	want := []string{"new", "middle", "old"}
	for i, p := range all {
		if p.Title != want[i] {
			t.Errorf("position %d = %q, want %q", i, p.Title, want[i])
		}
	}
}

func TestMemoryProductRepositoryUpdateKeepsOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	owner := primitive.NewObjectID()
	p := &model.Product{Title: "T", Content: "C", UserID: owner}
	_ = repo.Insert(ctx, p)

	err := repo.Update(ctx, &model.Product{ID: p.ID, Title: "T2", UserID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.FindByID(ctx, p.ID)
	if got.Title != "T2" || got.Content != "" {
		t.Errorf("got %+v", got)
	}
	if got.UserID != owner {
		t.Errorf("owner changed to %s", got.UserID.Hex())
	}
}

func TestMemoryProductRepositoryMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	id := primitive.NewObjectID()

	if _, err := repo.FindByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID err = %v", err)
	}
	if err := repo.Update(ctx, &model.Product{ID: id}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update err = %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete err = %v", err)
	}
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	u := &model.User{Username: "admin", Email: "admin@example.com", Roles: []string{"admin"}}
	if err := repo.Insert(ctx, u); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(ctx, &model.User{Username: "admin"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate insert err = %v", err)
	}

	byEmail, err := repo.FindByLogin(ctx, "admin@example.com")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("FindByLogin(email) = %v, %v", byEmail, err)
	}

	other := primitive.NewObjectID()
	users, _ := repo.FindByIDs(ctx, []primitive.ObjectID{u.ID, other})
	if len(users) != 1 {
		t.Errorf("FindByIDs returned %d users, want 1", len(users))
	}

	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete err = %v", err)
	}
}
