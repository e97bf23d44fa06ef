package storage

import (
	"context"
	"testing"

	"github.com/go-pkgz/testutils/containers"
	"github.com/stretchr/testify/require"

	"github.com/tg-censor/tg-censor/app/storage/engine"
)

// engineProvider defines a function type that provides a test database engine
type engineProvider func(t *testing.T, ctx context.Context) (db *engine.SQL, teardown func())

// database providers for each supported engine
var providers = map[string]engineProvider{
	"sqlite": func(t *testing.T, _ context.Context) (*engine.SQL, func()) {
		db, err := engine.NewSqlite(":memory:", "group1")
		require.NoError(t, err)
		return db, func() { db.Close() }
	},
	"postgres": func(t *testing.T, ctx context.Context) (*engine.SQL, func()) {
		pgContainer := containers.NewPostgresTestContainerWithDB(ctx, t, "test")
		db, err := engine.NewPostgres(ctx, pgContainer.ConnectionString(), "group1")
		require.NoError(t, err)
		// container cleanup is managed by testutils
		return db, func() { db.Close() }
	},
}

// forEachEngine runs the test body against every provider, skipping postgres in short mode
func forEachEngine(t *testing.T, fn func(t *testing.T, ctx context.Context, db *engine.SQL)) {
	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			if name == "postgres" && testing.Short() {
				t.Skip("skipping postgres test in short mode")
			}
			ctx := context.Background()
			db, teardown := provider(t, ctx)
			defer teardown()
			fn(t, ctx, db)
		})
	}
}
