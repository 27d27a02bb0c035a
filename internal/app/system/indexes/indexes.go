// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes here are load-bearing, not advisory: duplicate
applications, duplicate saved-job lists, duplicate connection edges, and
duplicate emails are all rejected by the database, and the stores map the
duplicate-key error to the domain conflict.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(name string, fn func(context.Context, *mongo.Database) error) {
		if err := fn(ctx, db); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	ensure("accounts", ensureAccounts)
	ensure("job_postings", ensureJobPostings)
	ensure("applications", ensureApplications)
	ensure("forum_posts", ensureForumPosts)
	ensure("comments", ensureComments)
	ensure("notifications", ensureNotifications)
	ensure("saved_jobs", ensureSavedJobs)
	ensure("connections", ensureConnections)
	ensure("messages", ensureMessages)
	ensure("reviews", ensureReviews)
	ensure("interviews", ensureInterviews)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(p *bool) bool { return p != nil && *p }

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	existing := listExisting(ctx, coll)

	for _, m := range models {
		var desiredName string
		var desiredUnique bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = boolOf(m.Options.Unique)
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if boolOf(ex.Unique) == desiredUnique {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			// Options mismatch (e.g. upgrading to unique): drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index, duplicates present", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Best-effort duplicate-detector (works cross-vendors).
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureAccounts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("accounts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One account per email, globally.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_accounts_email"),
		},
		// People-search by folded display name.
		{
			Keys:    bson.D{{Key: "display_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_accounts_nameci_id"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_accounts_role"),
		},
	})
}

func ensureJobPostings(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("job_postings")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Recruiter's "my postings" view.
		{
			Keys:    bson.D{{Key: "owner_account_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_jobs_owner_created"),
		},
		// Browse feed: open jobs, newest first.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_jobs_status_created"),
		},
		// Keyword search paths over folded title/company.
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetName("idx_jobs_titleci"),
		},
		{
			Keys:    bson.D{{Key: "company_ci", Value: 1}},
			Options: options.Index().SetName("idx_jobs_companyci"),
		},
	})
}

func ensureApplications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("applications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// At most one application per (job, applicant).
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "applicant_account_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_apps_job_applicant"),
		},
		// Student's "my applications" view.
		{
			Keys:    bson.D{{Key: "applicant_account_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_apps_applicant_created"),
		},
	})
}

func ensureForumPosts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("forum_posts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_created"),
		},
		{
			Keys:    bson.D{{Key: "author_account_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_author_created"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_category_created"),
		},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("comments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Thread view, and the range scan the cascade delete walks.
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_comments_post_created"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("notifications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipient_account_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_notifs_recipient_created"),
		},
		// Unread badge count.
		{
			Keys:    bson.D{{Key: "recipient_account_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("idx_notifs_recipient_read"),
		},
	})
}

func ensureSavedJobs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("saved_jobs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One saved-jobs list per account.
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_saved_account"),
		},
	})
}

func ensureConnections(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("connections")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One edge per unordered pair.
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_conn_pair"),
		},
		// "My connections" lookup by either endpoint.
		{
			Keys:    bson.D{{Key: "account_ids", Value: 1}},
			Options: options.Index().SetName("idx_conn_accounts"),
		},
	})
}

func ensureMessages(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("messages")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// A conversation is one indexed range scan.
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_msgs_pair_created"),
		},
		// Unread badge count for the recipient.
		{
			Keys:    bson.D{{Key: "to_account_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("idx_msgs_to_read"),
		},
	})
}

func ensureReviews(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("reviews")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "company_ci", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_reviews_company_created"),
		},
		{
			Keys:    bson.D{{Key: "author_account_id", Value: 1}},
			Options: options.Index().SetName("idx_reviews_author"),
		},
	})
}

func ensureInterviews(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("interviews")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "applicant_account_id", Value: 1}, {Key: "scheduled_time", Value: 1}},
			Options: options.Index().SetName("idx_interviews_applicant_time"),
		},
		{
			Keys:    bson.D{{Key: "application_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_interviews_application"),
		},
	})
}
