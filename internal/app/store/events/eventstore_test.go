package eventstore_test

import (
	"testing"
	"time"

	eventstore "github.com/sciencebridge/sciencebridge/internal/app/store/events"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
)

func setup(t *testing.T) (*eventstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return eventstore.New(db), testutil.NewFixtures(t, db)
}

func TestList_SortedByStart(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	f.CreateEvent(ctx, "Later", time.Now().Add(48*time.Hour))
	f.CreateEvent(ctx, "Sooner", time.Now().Add(24*time.Hour))

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d events, want 2", len(got))
	}
	if got[0].Title != "Sooner" || got[1].Title != "Later" {
		t.Errorf("List order: got %q, %q", got[0].Title, got[1].Title)
	}
}

func TestListUpcoming_ExcludesPastEvents(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	f.CreateEvent(ctx, "Finished", time.Now().Add(-24*time.Hour))
	f.CreateEvent(ctx, "Next Week", time.Now().Add(7*24*time.Hour))
	f.CreateEvent(ctx, "Tomorrow", time.Now().Add(24*time.Hour))

	got, err := store.ListUpcoming(ctx, 10)
	if err != nil {
		t.Fatalf("ListUpcoming failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListUpcoming returned %d events, want 2", len(got))
	}
	if got[0].Title != "Tomorrow" || got[1].Title != "Next Week" {
		t.Errorf("ListUpcoming order: got %q, %q", got[0].Title, got[1].Title)
	}
}

func TestListUpcoming_HonorsLimit(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	f.CreateEvent(ctx, "One", time.Now().Add(24*time.Hour))
	f.CreateEvent(ctx, "Two", time.Now().Add(48*time.Hour))
	f.CreateEvent(ctx, "Three", time.Now().Add(72*time.Hour))

	got, err := store.ListUpcoming(ctx, 2)
	if err != nil {
		t.Fatalf("ListUpcoming failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListUpcoming returned %d events, want 2", len(got))
	}
}
