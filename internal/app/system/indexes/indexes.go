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
EnsureAll is called at startup when the Mongo backend is selected. Each
ensure* function is idempotent. Errors are aggregated so every problem is
visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"odg_projects", ensureProjects},
		{"odg_project_request_attachments", ensureAttachments},
		{"provinces", ensureProvinces},
		{"districts", ensureDistricts},
		{"villages", ensureVillages},
		{"project_events", ensureProjectEvents},
	}
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

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

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
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

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
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
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// recreate drops the index currently holding the key pattern and creates m.
func recreate(ctx context.Context, coll *mongo.Collection, oldName string, m mongo.IndexModel, unique bool) error {
	if _, err := coll.Indexes().DropOne(ctx, oldName); err != nil {
		return fmt.Errorf("drop %s failed: %w", oldName, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if unique && isDuplicateKeyErr(err) {
			return errors.New("cannot create unique index (duplicates present)")
		}
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		unique := desiredUnique != nil && *desiredUnique
		desiredSig := keySig(m.Keys.(bson.D))
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique),
		}

		start := time.Now()
		zap.L().Info("ensuring index", fields...)

		ex, ok := listExisting(ctx, coll)[desiredSig]
		switch {
		case ok && sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName):
			zap.L().Info("reusing existing index", append(fields, zap.String("took", time.Since(start).String()))...)
			continue

		case ok:
			// Name or uniqueness differs from what is wanted.
			if err := recreate(ctx, coll, ex.Name, m, unique); err != nil {
				zap.L().Warn("index recreate failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}
			zap.L().Info("index dropped and recreated",
				append(fields, zap.String("from", ex.Name), zap.String("took", time.Since(start).String()))...)
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil && isOptionsConflictErr(err) {
			if match, found := listExisting(ctx, coll)[desiredSig]; found {
				if sameBoolPtr(desiredUnique, match.Unique) {
					zap.L().Info("reusing existing index (post-conflict)", fields...)
					continue
				}
				err = recreate(ctx, coll, match.Name, m, unique)
				created = desiredName
			}
		}
		if err != nil {
			zap.L().Warn("index ensure failed",
				append(fields, zap.String("took", time.Since(start).String()), zap.Error(err))...)
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			append(fields, zap.String("created_name", created), zap.String("took", time.Since(start).String()))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("odg_projects")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Newest-first listing
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().
				SetName("idx_projects_createdat__id"),
		},
		// Waiting-approval listing filters on request_status
		{
			Keys: bson.D{
				{Key: "request_status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("idx_projects_requeststatus_createdat"),
		},
	})
}

func ensureAttachments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("odg_project_request_attachments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "request_id", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().
				SetName("idx_attachments_requestid__id"),
		},
	})
}

func ensureProvinces(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("provinces")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "code", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_provinces_code"),
		},
	})
}

func ensureDistricts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("districts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "province", Value: 1},
				{Key: "code", Value: 1},
			},
			Options: options.Index().
				SetName("idx_districts_province_code"),
		},
	})
}

func ensureVillages(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("villages")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "province", Value: 1},
				{Key: "amper", Value: 1},
				{Key: "code", Value: 1},
			},
			Options: options.Index().
				SetName("idx_villages_province_amper_code"),
		},
	})
}

func ensureProjectEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("project_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "project_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().
				SetName("idx_projectevents_projectid_timestamp"),
		},
	})
}
