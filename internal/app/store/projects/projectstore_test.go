package projectstore_test

import (
	"testing"

	keywordstore "github.com/sciencebridge/sciencebridge/internal/app/store/keywords"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*projectstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return projectstore.New(db), testutil.NewFixtures(t, db)
}

func TestCreate_DefaultsToOpen(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)

	created, err := store.Create(ctx, models.Project{
		Title:                "Water Quality Sensors",
		PostedBy:             poster.ID,
		Description:          "Low-cost sensors for river monitoring",
		Type:                 models.ProjectResearch,
		SpecializationNeeded: models.SpecEnv,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.StatusOpen {
		t.Errorf("status: got %q, want %q", created.Status, models.StatusOpen)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)

	_, err := store.Create(ctx, models.Project{
		Title:                "Bad Type",
		PostedBy:             poster.ID,
		Type:                 models.ProjectType("banana"),
		SpecializationNeeded: models.SpecCS,
	})
	if err == nil {
		t.Fatal("expected error for unknown project type")
	}
}

func TestSearch_ByTitle(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	f.CreateProject(ctx, "Autonomous Drone Mapping", poster.ID)
	f.CreateProject(ctx, "Soil Chemistry Survey", poster.ID)

	got, err := store.Search(ctx, "drone", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Search returned %d projects, want 1", len(got))
	}
	if got[0].Title != "Autonomous Drone Mapping" {
		t.Errorf("Search returned wrong project: %q", got[0].Title)
	}
}

func TestSearch_EmptyQueryListsAll(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	f.CreateProject(ctx, "One", poster.ID)
	f.CreateProject(ctx, "Two", poster.ID)

	got, err := store.Search(ctx, "", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Search returned %d projects, want 2", len(got))
	}
}

func TestSearch_InsertionOrder(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	f.CreateProject(ctx, "First Posted", poster.ID)
	f.CreateProject(ctx, "Second Posted", poster.ID)
	f.CreateProject(ctx, "Third Posted", poster.ID)

	got, err := store.Search(ctx, "", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Search returned %d projects, want 3", len(got))
	}
	want := []string{"First Posted", "Second Posted", "Third Posted"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestSearch_MatchesKeywordLabel(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	kw := f.CreateKeyword(ctx, "ai", "Artificial Intelligence")

	tagged, err := store.Create(ctx, models.Project{
		Title:                "Crop Yield Prediction",
		PostedBy:             poster.ID,
		Description:          "Forecasting harvests from satellite imagery",
		Type:                 models.ProjectResearch,
		SpecializationNeeded: models.SpecCS,
		KeywordIDs:           []primitive.ObjectID{kw.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	f.CreateProject(ctx, "Bridge Load Analysis", poster.ID)

	// "AI" appears in neither title nor description; it reaches the
	// project through its keyword label, resolved the way the listing
	// handler does.
	kwStore := keywordstore.New(f.DB())
	ids, err := kwStore.IDsMatchingLabel(ctx, "AI")
	if err != nil {
		t.Fatalf("IDsMatchingLabel failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("IDsMatchingLabel returned %d keywords, want 1", len(ids))
	}

	got, err := store.Search(ctx, "AI", ids)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Search returned %d projects, want 1", len(got))
	}
	if got[0].ID != tagged.ID {
		t.Errorf("Search returned %q, want the tagged project", got[0].Title)
	}
}

func TestSearch_TitleAndKeywordMatchNotDuplicated(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	kw := f.CreateKeyword(ctx, "robotics", "Robotics")

	if _, err := store.Create(ctx, models.Project{
		Title:                "Robotics Swarm Control",
		PostedBy:             poster.ID,
		Description:          "Coordinating warehouse robots",
		Type:                 models.ProjectEngineering,
		SpecializationNeeded: models.SpecCS,
		KeywordIDs:           []primitive.ObjectID{kw.ID},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Search(ctx, "robotics", []primitive.ObjectID{kw.ID})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("project matching by title and keyword returned %d times, want 1", len(got))
	}
}

func TestMatchingSpecialization_ExcludesPoster(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	_, other := f.CreateAccount(ctx, "other", models.RoleResearcher)
	f.CreateProject(ctx, "Mine", poster.ID)
	f.CreateProject(ctx, "Theirs", other.ID)

	got, err := store.MatchingSpecialization(ctx, models.SpecCS, poster.ID, 10)
	if err != nil {
		t.Fatalf("MatchingSpecialization failed: %v", err)
	}
	for _, p := range got {
		if p.PostedBy == poster.ID {
			t.Errorf("suggestion includes the poster's own project %q", p.Title)
		}
	}
	if len(got) != 1 {
		t.Errorf("got %d suggestions, want 1", len(got))
	}
}

func TestCountByPoster(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	f.CreateProject(ctx, "One", poster.ID)
	f.CreateProject(ctx, "Two", poster.ID)

	n, err := store.CountByPoster(ctx, poster.ID)
	if err != nil {
		t.Fatalf("CountByPoster failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}

	n, err = store.CountByPoster(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("CountByPoster failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count for stranger: got %d, want 0", n)
	}
}
