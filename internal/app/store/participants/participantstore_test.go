package participantstore_test

import (
	"errors"
	"testing"

	participantstore "github.com/sciencebridge/sciencebridge/internal/app/store/participants"
	"github.com/sciencebridge/sciencebridge/internal/app/system/indexes"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*participantstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testutil.TestContext(t), db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return participantstore.New(db), testutil.NewFixtures(t, db)
}

func TestApply_CreatesPendingCandidate(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	_, student := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Robot Arm", poster.ID)

	row, err := store.Apply(ctx, project.ID, student.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if row.Accepted {
		t.Error("new application should not be accepted")
	}
	if row.Role != models.ParticipantCandidate {
		t.Errorf("role: got %q, want %q", row.Role, models.ParticipantCandidate)
	}
	if row.AppliedAt.IsZero() {
		t.Error("AppliedAt not stamped")
	}
}

func TestApply_DuplicateRejectedByIndex(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	_, student := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Robot Arm", poster.ID)

	if _, err := store.Apply(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	_, err := store.Apply(ctx, project.ID, student.ID)
	if !errors.Is(err, participantstore.ErrAlreadyApplied) {
		t.Fatalf("second Apply: got %v, want ErrAlreadyApplied", err)
	}
}

func TestWithdraw(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	_, student := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Robot Arm", poster.ID)

	if _, err := store.Apply(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := store.Withdraw(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}

	exists, err := store.Exists(ctx, project.ID, student.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("application still present after withdraw")
	}

	// Withdrawing again reports the missing row.
	if err := store.Withdraw(ctx, project.ID, student.ID); !errors.Is(err, participantstore.ErrNoApplication) {
		t.Errorf("second Withdraw: got %v, want ErrNoApplication", err)
	}
}

func TestAccept(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	_, student := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Robot Arm", poster.ID)

	if _, err := store.Apply(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := store.Accept(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	row, err := store.Get(ctx, project.ID, student.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !row.Accepted {
		t.Error("row not accepted")
	}
	if row.JoinedAt == nil {
		t.Error("JoinedAt not stamped on accept")
	}
}

func TestAccept_NoApplication(t *testing.T) {
	store, _ := setup(t)
	ctx := testutil.TestContext(t)

	err := store.Accept(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, participantstore.ErrNoApplication) {
		t.Fatalf("Accept: got %v, want ErrNoApplication", err)
	}
}

func TestReject_DeletesRow(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	_, student := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Robot Arm", poster.ID)

	if _, err := store.Apply(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := store.Reject(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	exists, err := store.Exists(ctx, project.ID, student.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("rejected application should be gone")
	}

	// A rejected applicant can apply again; the pair is free.
	if _, err := store.Apply(ctx, project.ID, student.ID); err != nil {
		t.Fatalf("re-Apply after reject failed: %v", err)
	}
}

func TestCountPendingForProjects(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	_, s1 := f.CreateAccount(ctx, "student1", models.RoleStudent)
	_, s2 := f.CreateAccount(ctx, "student2", models.RoleStudent)
	p1 := f.CreateProject(ctx, "Project One", poster.ID)
	p2 := f.CreateProject(ctx, "Project Two", poster.ID)

	if _, err := store.Apply(ctx, p1.ID, s1.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := store.Apply(ctx, p2.ID, s1.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := store.Apply(ctx, p2.ID, s2.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := store.Accept(ctx, p2.ID, s2.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	n, err := store.CountPendingForProjects(ctx, []primitive.ObjectID{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("CountPendingForProjects failed: %v", err)
	}
	if n != 2 {
		t.Errorf("pending count: got %d, want 2", n)
	}
}
