package docstore_test

import (
	"testing"

	docstore "github.com/sciencebridge/sciencebridge/internal/app/store/documents"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*docstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return docstore.New(db), testutil.NewFixtures(t, db)
}

func TestCreateAndListByOwner(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, owner := f.CreateAccount(ctx, "owner", models.RoleResearcher)

	created, err := store.Create(ctx, models.Document{
		OwnerID:  owner.ID,
		Title:    "Thesis Draft",
		FilePath: "documents/2026/08/abcd1234.pdf",
		FileName: "thesis.pdf",
		FileSize: 2048,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.UploadedAt.IsZero() {
		t.Error("UploadedAt not stamped")
	}

	docs, err := store.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Thesis Draft" {
		t.Errorf("ListByOwner: got %+v", docs)
	}
}

func TestDelete_ScopedToOwner(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, owner := f.CreateAccount(ctx, "owner", models.RoleResearcher)

	doc, err := store.Create(ctx, models.Document{
		OwnerID:  owner.ID,
		Title:    "Notes",
		FilePath: "documents/2026/08/ef561234.pdf",
		FileName: "notes.pdf",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A different profile cannot delete it.
	n, err := store.Delete(ctx, doc.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 0 {
		t.Error("delete by non-owner removed the document")
	}

	n, err = store.Delete(ctx, doc.ID, owner.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("delete by owner: got %d deleted, want 1", n)
	}
}

func TestListByProject(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, owner := f.CreateAccount(ctx, "owner", models.RoleResearcher)
	project := f.CreateProject(ctx, "Sensor Grid", owner.ID)

	if _, err := store.Create(ctx, models.Document{
		OwnerID:   owner.ID,
		ProjectID: &project.ID,
		Title:     "Spec Sheet",
		FilePath:  "documents/2026/08/11223344.pdf",
		FileName:  "specsheet.pdf",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Document{
		OwnerID:  owner.ID,
		Title:    "Unattached",
		FilePath: "documents/2026/08/55667788.pdf",
		FileName: "unattached.pdf",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	docs, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Spec Sheet" {
		t.Errorf("ListByProject: got %+v", docs)
	}
}
