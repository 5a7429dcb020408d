package database

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	once    sync.Once
	client  *mongo.Client
	db      *mongo.Database
	connErr error
)

// Connect returns the shared database handle, dialing Mongo on first use.
// The handle is process-wide and never torn down between requests, so
// concurrent first callers race only on the sync.Once. The initial ping is
// retried with exponential backoff to ride out slow cluster wake-ups.
func Connect(uri, name string, log *zap.Logger) (*mongo.Database, error) {
	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, connErr = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if connErr != nil {
			return
		}

		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = 30 * time.Second
		connErr = backoff.Retry(func() error {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()
			if err := client.Ping(pingCtx, nil); err != nil {
				log.Warn("mongo ping failed, retrying", zap.Error(err))
				return err
			}
			return nil
		}, b)
		if connErr != nil {
			return
		}

		db = client.Database(name)
		log.Info("mongo connected", zap.String("database", name))
	})
	return db, connErr
}

// Disconnect closes the shared client. Used on shutdown only.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
