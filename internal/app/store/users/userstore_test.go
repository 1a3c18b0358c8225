package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/system/indexes"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
)

func setup(t *testing.T) *userstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testutil.TestContext(t), db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return userstore.New(db)
}

func TestCreate_DuplicateHandle(t *testing.T) {
	store := setup(t)
	ctx := testutil.TestContext(t)

	if _, err := store.Create(ctx, models.User{Handle: "alice", Email: "alice@test.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Duplicate detection is case-insensitive: the unique index is on the
	// folded handle.
	_, err := store.Create(ctx, models.User{Handle: "Alice", Email: "other@test.com"})
	if !errors.Is(err, userstore.ErrDuplicateHandle) {
		t.Fatalf("second Create: got %v, want ErrDuplicateHandle", err)
	}
}

func TestGetByHandle_CaseInsensitive(t *testing.T) {
	store := setup(t)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.User{Handle: "bob", Email: "bob@test.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByHandle(ctx, "BOB")
	if err != nil {
		t.Fatalf("GetByHandle failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByHandle returned wrong user: got %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestHandleExists(t *testing.T) {
	store := setup(t)
	ctx := testutil.TestContext(t)

	if _, err := store.Create(ctx, models.User{Handle: "carol", Email: "carol@test.com"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := store.HandleExists(ctx, "carol")
	if err != nil {
		t.Fatalf("HandleExists failed: %v", err)
	}
	if !exists {
		t.Error("expected handle to exist")
	}

	exists, err = store.HandleExists(ctx, "nobody")
	if err != nil {
		t.Fatalf("HandleExists failed: %v", err)
	}
	if exists {
		t.Error("expected handle to not exist")
	}
}
