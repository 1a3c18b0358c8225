package eventpartstore_test

import (
	"errors"
	"testing"
	"time"

	eventpartstore "github.com/sciencebridge/sciencebridge/internal/app/store/eventparticipants"
	"github.com/sciencebridge/sciencebridge/internal/app/system/indexes"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
)

func setup(t *testing.T) (*eventpartstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testutil.TestContext(t), db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return eventpartstore.New(db), testutil.NewFixtures(t, db)
}

func TestRegister_DuplicateRejectedByIndex(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, student := f.CreateAccount(ctx, "student", models.RoleStudent)
	event := f.CreateEvent(ctx, "AI Symposium", time.Now().Add(24*time.Hour))

	row, err := store.Register(ctx, event.ID, student.ID)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if row.Attended {
		t.Error("new registration should not be marked attended")
	}

	_, err = store.Register(ctx, event.ID, student.ID)
	if !errors.Is(err, eventpartstore.ErrAlreadyRegistered) {
		t.Fatalf("second Register: got %v, want ErrAlreadyRegistered", err)
	}
}

func TestCountForEvent(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, a := f.CreateAccount(ctx, "alice", models.RoleStudent)
	_, b := f.CreateAccount(ctx, "bob", models.RoleResearcher)
	event := f.CreateEvent(ctx, "AI Symposium", time.Now().Add(24*time.Hour))
	other := f.CreateEvent(ctx, "Workshop", time.Now().Add(48*time.Hour))

	if _, err := store.Register(ctx, event.ID, a.ID); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := store.Register(ctx, event.ID, b.ID); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	n, err := store.CountForEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("CountForEvent failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}

	n, err = store.CountForEvent(ctx, other.ID)
	if err != nil {
		t.Fatalf("CountForEvent failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count for empty event: got %d, want 0", n)
	}
}

func TestEventIDsForProfile(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, student := f.CreateAccount(ctx, "student", models.RoleStudent)
	e1 := f.CreateEvent(ctx, "Workshop", time.Now().Add(24*time.Hour))
	e2 := f.CreateEvent(ctx, "Conference", time.Now().Add(48*time.Hour))

	if _, err := store.Register(ctx, e1.ID, student.ID); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := store.EventIDsForProfile(ctx, student.ID)
	if err != nil {
		t.Fatalf("EventIDsForProfile failed: %v", err)
	}
	if !got[e1.ID] {
		t.Error("registered event missing from map")
	}
	if got[e2.ID] {
		t.Error("unregistered event present in map")
	}
}
