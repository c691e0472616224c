package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"product-resource/internal/model"
	"product-resource/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	svc      *ProductService
	products *repository.MemoryProductRepository
	users    *repository.MemoryUserRepository
	admin    *model.User
	user     *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		products: repository.NewMemoryProductRepository(),
		users:    repository.NewMemoryUserRepository(),
		admin:    &model.User{Username: "admin", DisplayName: "Admin", Roles: []string{model.RoleUser, model.RoleAdmin}},
		user:     &model.User{Username: "user", DisplayName: "Full Name", Roles: []string{model.RoleUser}},
	}
	for _, u := range []*model.User{f.admin, f.user} {
		if err := f.users.Insert(ctx, u); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	f.svc = NewProductService(f.products, f.users)
	return f
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := f.svc.Create(ctx, model.ProductInput{Title: title, Content: "C"}, f.admin)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Create(%q) err = %v, want ValidationError", title, err)
		}
		if verr.Message != "Title cannot be blank" {
			t.Errorf("message = %q", verr.Message)
		}
	}

	all, _ := f.products.FindAll(ctx)
	if len(all) != 0 {
		t.Errorf("%d products persisted after failed creates", len(all))
	}
}

func TestCreateSetsOwnerAndTrims(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC) }

	p, err := f.svc.Create(ctx, model.ProductInput{Title: "  T ", Content: " C "}, f.admin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Title != "T" || p.Content != "C" {
		t.Errorf("not trimmed: %+v", p)
	}
	if p.UserID != f.admin.ID || p.User == nil || p.User.DisplayName != "Admin" {
		t.Errorf("owner = %v / %+v", p.UserID, p.User)
	}
	if p.Created.Nanosecond() != 123000000 {
		t.Errorf("created not truncated to ms: %v", p.Created)
	}
}

func TestCreateWithoutRequester(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), model.ProductInput{Title: "T"}, nil)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateNeverChangesOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, _ := f.svc.Create(ctx, model.ProductInput{Title: "T", Content: "C"}, f.admin)

	loaded, err := f.svc.Resolve(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	loaded.UserID = f.user.ID
	updated, err := f.svc.Update(ctx, loaded, model.ProductInput{Title: "T2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "T2" || updated.Content != "" {
		t.Errorf("updated = %+v", updated)
	}

	stored, _ := f.products.FindByID(ctx, created.ID)
	if stored.UserID != f.admin.ID {
		t.Errorf("stored owner = %s, want %s", stored.UserID.Hex(), f.admin.ID.Hex())
	}
}

func TestUpdateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, _ := f.svc.Create(ctx, model.ProductInput{Title: "T"}, f.admin)

	_, err := f.svc.Update(ctx, created, model.ProductInput{Title: " "})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
	stored, _ := f.products.FindByID(ctx, created.ID)
	if stored.Title != "T" {
		t.Errorf("title changed to %q after failed update", stored.Title)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, _ := f.svc.Create(ctx, model.ProductInput{Title: "T"}, f.admin)

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"malformed", "test", ErrInvalidID},
		{"short hex", "559e9cd815f80b4c", ErrInvalidID},
		{"well formed but absent", "559e9cd815f80b4c256a8f41", ErrNotFound},
		{"present", created.ID.Hex(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.svc.Resolve(ctx, tt.id)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.want == nil && (p == nil || p.User == nil || p.User.ID != f.admin.ID.Hex()) {
				t.Errorf("owner not populated: %+v", p)
			}
		})
	}
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, _ := f.svc.Create(ctx, model.ProductInput{Title: "T"}, f.admin)
	loaded, _ := f.svc.Resolve(ctx, created.ID.Hex())

	tests := []struct {
		name      string
		requester *model.User
		want      bool
	}{
		{"owner", f.admin, true},
		{"other user", f.user, false},
		{"anonymous", nil, false},
	}
	for _, tt := range tests {
		view := f.svc.Read(loaded, tt.requester)
		if view.IsOwnedByCurrentUser == nil || *view.IsOwnedByCurrentUser != tt.want {
			t.Errorf("%s: isOwnedByCurrentUser = %v, want %v", tt.name, view.IsOwnedByCurrentUser, tt.want)
		}
	}
}

func TestOrphanedReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, _ := f.svc.Create(ctx, model.ProductInput{Title: "T"}, f.admin)
	if err := f.users.Delete(ctx, f.admin.ID); err != nil {
		t.Fatal(err)
	}

	loaded, err := f.svc.Resolve(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loaded.User != nil {
		t.Errorf("orphaned product has user %+v", loaded.User)
	}
	view := f.svc.Read(loaded, f.admin)
	if *view.IsOwnedByCurrentUser {
		t.Error("orphaned product reported as owned")
	}
}

func TestListNewestFirstWithOwners(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	_, _ = f.svc.Create(ctx, model.ProductInput{Title: "first"}, f.admin)
	_, _ = f.svc.Create(ctx, model.ProductInput{Title: "second"}, f.admin)
	_ = f.products.Insert(ctx, &model.Product{Title: "orphan", UserID: primitive.NewObjectID(), Created: clock.Add(time.Hour)})

	list, err := f.svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].Title != "orphan" || list[1].Title != "second" || list[2].Title != "first" {
		t.Errorf("order = %s, %s, %s", list[0].Title, list[1].Title, list[2].Title)
	}
	if list[0].User != nil {
		t.Error("orphan populated")
	}
	if list[1].User == nil || list[1].User.DisplayName != "Admin" {
		t.Errorf("owner = %+v", list[1].User)
	}
}

func TestDeleteReturnsLastKnownState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, _ := f.svc.Create(ctx, model.ProductInput{Title: "T", Content: "C"}, f.admin)

	deleted, err := f.svc.Delete(ctx, created)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Title != "T" || deleted.ID != created.ID {
		t.Errorf("deleted = %+v", deleted)
	}
	if _, err := f.svc.Resolve(ctx, created.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve after delete err = %v", err)
	}
	if _, err := f.svc.Delete(ctx, created); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}
