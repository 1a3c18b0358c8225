package keywordstore_test

import (
	"testing"

	keywordstore "github.com/sciencebridge/sciencebridge/internal/app/store/keywords"
	"github.com/sciencebridge/sciencebridge/internal/app/system/indexes"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
)

func setup(t *testing.T) *keywordstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testutil.TestContext(t), db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return keywordstore.New(db)
}

func TestSeed_SkipsDuplicates(t *testing.T) {
	store := setup(t)
	ctx := testutil.TestContext(t)

	entries := []keywordstore.SeedEntry{
		{Code: "ml", Label: "Machine Learning"},
		{Code: "iot", Label: "Internet of Things"},
	}
	if err := store.Seed(ctx, entries); err != nil {
		t.Fatalf("first Seed failed: %v", err)
	}
	// Seeding again must not fail or duplicate.
	if err := store.Seed(ctx, entries); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}
}

func TestIDsMatchingLabel(t *testing.T) {
	store := setup(t)
	ctx := testutil.TestContext(t)

	ml, err := store.Create(ctx, "ml", "Machine Learning")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "iot", "Internet of Things"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ids, err := store.IDsMatchingLabel(ctx, "machine")
	if err != nil {
		t.Fatalf("IDsMatchingLabel failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != ml.ID {
		t.Errorf("IDsMatchingLabel: got %v, want [%s]", ids, ml.ID.Hex())
	}
}
