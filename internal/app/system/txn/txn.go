// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a MongoDB transaction when the deployment supports
// one (replica set or sharded cluster). On a standalone server the
// transaction cannot start, so fn is run once without it and a warning is
// logged. log may be nil.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			warn(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warn(log, err)
		return fn(ctx)
	}
	return err
}

func warn(log *zap.Logger, err error) {
	if log == nil {
		log = zap.L()
	}
	log.Warn("transactions not supported; running without transaction", zap.Error(err))
}

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation: transactions need a replica set
			51,  // not a replica set member
			263: // operation not supported in a transaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(a, b string) bool {
		return strings.Contains(msg, a) && strings.Contains(msg, b)
	}
	return has("transaction", "replica set") ||
		has("session", "not supported") ||
		has("transaction", "session") ||
		has("illegal operation", "transaction")
}
