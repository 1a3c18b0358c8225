package messagestore_test

import (
	"errors"
	"testing"

	messagestore "github.com/sciencebridge/sciencebridge/internal/app/store/messages"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
)

func setup(t *testing.T) (*messagestore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return messagestore.New(db), testutil.NewFixtures(t, db)
}

func TestSendAndInbox(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, alice := f.CreateAccount(ctx, "alice", models.RoleResearcher)
	_, bob := f.CreateAccount(ctx, "bob", models.RoleStudent)

	sent, err := store.Send(ctx, alice.ID, bob.ID, "Hello", "Interested in your work.")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if sent.Read {
		t.Error("new message should be unread")
	}

	inbox, err := store.Inbox(ctx, bob.ID)
	if err != nil {
		t.Fatalf("Inbox failed: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("inbox has %d messages, want 1", len(inbox))
	}
	if inbox[0].SenderID != alice.ID {
		t.Error("inbox message has wrong sender")
	}

	// The sender's inbox stays empty.
	inbox, err = store.Inbox(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Inbox failed: %v", err)
	}
	if len(inbox) != 0 {
		t.Errorf("sender inbox has %d messages, want 0", len(inbox))
	}
}

func TestMarkRead_OnlyRecipient(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, alice := f.CreateAccount(ctx, "alice", models.RoleResearcher)
	_, bob := f.CreateAccount(ctx, "bob", models.RoleStudent)

	msg, err := store.Send(ctx, alice.ID, bob.ID, "", "ping")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// The sender cannot mark it read.
	if err := store.MarkRead(ctx, msg.ID, alice.ID); !errors.Is(err, messagestore.ErrNotRecipient) {
		t.Errorf("MarkRead by sender: got %v, want ErrNotRecipient", err)
	}

	if err := store.MarkRead(ctx, msg.ID, bob.ID); err != nil {
		t.Fatalf("MarkRead by recipient failed: %v", err)
	}

	n, err := store.CountUnread(ctx, bob.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 0 {
		t.Errorf("unread count after MarkRead: got %d, want 0", n)
	}
}

func TestCountUnread(t *testing.T) {
	store, f := setup(t)
	ctx := testutil.TestContext(t)

	_, alice := f.CreateAccount(ctx, "alice", models.RoleResearcher)
	_, bob := f.CreateAccount(ctx, "bob", models.RoleStudent)

	if _, err := store.Send(ctx, alice.ID, bob.ID, "", "one"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := store.Send(ctx, alice.ID, bob.ID, "", "two"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	n, err := store.CountUnread(ctx, bob.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 2 {
		t.Errorf("unread count: got %d, want 2", n)
	}
}
