// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so any problem is visible and startup can fail fast.

The unique indexes on participants and event_participants are the
authoritative guard for the one-row-per-pair invariant: the handlers'
read-then-write existence checks are advisory only, and a duplicate-key
error on insert is the definitive duplicate signal.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, "organizations: "+err.Error())
	}
	if err := ensureKeywords(ctx, db); err != nil {
		problems = append(problems, "keywords: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureParticipants(ctx, db); err != nil {
		problems = append(problems, "participants: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureEventParticipants(ctx, db); err != nil {
		problems = append(problems, "event_participants: "+err.Error())
	}
	if err := ensureMessages(ctx, db); err != nil {
		problems = append(problems, "messages: "+err.Error())
	}
	if err := ensureDocuments(ctx, db); err != nil {
		problems = append(problems, "documents: "+err.Error())
	}
	if err := ensureResetTokens(ctx, db); err != nil {
		problems = append(problems, "reset_tokens: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, idx ...mongo.IndexModel) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, idx)
	return err
}

func unique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "handle_ci", Value: 1}},
			Options: unique().SetName("uniq_handle_ci"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("by_email"),
		},
	)
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	// Exactly one profile per account.
	return create(ctx, db, "profiles",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: unique().SetName("uniq_user"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	)
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "organizations",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: unique().SetName("uniq_name_ci"),
		},
	)
}

func ensureKeywords(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "keywords",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: unique().SetName("uniq_code"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "label_ci", Value: 1}},
			Options: options.Index().SetName("by_label_ci"),
		},
	)
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "projects",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "posted_by", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_poster_recent"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("by_status"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "keyword_ids", Value: 1}},
			Options: options.Index().SetName("by_keyword"),
		},
	)
}

func ensureParticipants(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "participants",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "profile_id", Value: 1}},
			Options: unique().SetName("uniq_project_profile"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "profile_id", Value: 1}, {Key: "applied_at", Value: -1}},
			Options: options.Index().SetName("by_profile_recent"),
		},
	)
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "events",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "start", Value: 1}},
			Options: options.Index().SetName("by_start"),
		},
	)
}

func ensureEventParticipants(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "event_participants",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "profile_id", Value: 1}},
			Options: unique().SetName("uniq_event_profile"),
		},
	)
}

func ensureMessages(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "messages",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "sent_at", Value: -1}},
			Options: options.Index().SetName("inbox"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "sender_id", Value: 1}},
			Options: options.Index().SetName("by_sender"),
		},
	)
}

func ensureDocuments(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "documents",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "uploaded_at", Value: -1}},
			Options: options.Index().SetName("by_owner_recent"),
		},
	)
}

func ensureResetTokens(ctx context.Context, db *mongo.Database) error {
	// Tokens expire server-side via TTL on expires_at.
	return create(ctx, db, "reset_tokens",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: unique().SetName("uniq_token"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires"),
		},
	)
}
