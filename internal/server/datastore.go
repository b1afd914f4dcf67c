package server

import (
	"context"
	"fmt"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	"github.com/prbeaches/directory/api/internal/config"
	mongodoc "github.com/prbeaches/directory/api/internal/infrastructure/mongo"
	"github.com/prbeaches/directory/api/internal/infrastructure/sqlstore"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

// BeachStore is the public read port plus the catalogue import used by the seeder.
type BeachStore interface {
	publicapp.BeachRepository
	Upsert(ctx context.Context, beach *domain.Beach) error
}

// ModerationStore is the moderation port plus a full aggregate rebuild.
type ModerationStore interface {
	adminapp.ReviewRepository
	RecalculateCommunity(ctx context.Context, beachID string) (domain.RatingFacet, error)
}

// Datastore bundles the repositories of the configured driver.
type Datastore struct {
	Driver       string
	Beaches      BeachStore
	Reviews      publicapp.ReviewRepository
	AdminBeaches adminapp.BeachRepository
	AdminReviews ModerationStore

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks connectivity for the health endpoint.
func (d *Datastore) Ping(ctx context.Context) error {
	return d.ping(ctx)
}

// Close releases connections.
func (d *Datastore) Close(ctx context.Context) error {
	return d.close(ctx)
}

// OpenDatastore connects the driver selected in cfg and prepares its schema or indexes.
func OpenDatastore(ctx context.Context, cfg config.DatastoreConfig) (*Datastore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverSQLite:
		store, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlDatastore(store), nil
	case config.DriverPostgres:
		store, err := sqlstore.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return sqlDatastore(store), nil
	}
	return nil, fmt.Errorf("unsupported datastore driver %q", cfg.Driver)
}

func openMongo(ctx context.Context, cfg config.DatastoreConfig) (*Datastore, error) {
	client, err := mongodoc.Connect(ctx, cfg.MongoURI, cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)

	beaches := mongodoc.NewBeachRepository(db, cfg.BeachCollection)
	reviews := mongodoc.NewReviewRepository(db, cfg.ReviewCollection)
	if err := beaches.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("beach indexes: %w", err)
	}
	if err := reviews.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("review indexes: %w", err)
	}

	return &Datastore{
		Driver:       config.DriverMongo,
		Beaches:      beaches,
		Reviews:      reviews,
		AdminBeaches: mongodoc.NewAdminBeachRepository(db, cfg.BeachCollection),
		AdminReviews: mongodoc.NewAdminReviewRepository(db, cfg.ReviewCollection, cfg.BeachCollection),
		ping:         mongodoc.Pinger{Client: client}.Ping,
		close:        client.Disconnect,
	}, nil
}

func sqlDatastore(store *sqlstore.Store) *Datastore {
	return &Datastore{
		Driver:       store.Driver(),
		Beaches:      sqlstore.NewBeachRepository(store),
		Reviews:      sqlstore.NewReviewRepository(store),
		AdminBeaches: sqlstore.NewAdminBeachRepository(store),
		AdminReviews: sqlstore.NewAdminReviewRepository(store),
		ping:         store.Ping,
		close:        func(context.Context) error { return store.Close() },
	}
}
