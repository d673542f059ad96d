package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/database/sqlite"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

func randomTables(t *testing.T) grabbieldb.Tables {
	t.Helper()
	suffix := getRandomString(t)
	return grabbieldb.Tables{
		Images: "images_" + suffix,
		Videos: "videos_" + suffix,
	}
}

type testDB interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	MediaRepo() grabbieldb.MediaRepo
	SchemaRepo() grabbieldb.SchemaRepo
	Close() error
}

// setupTestDB opens an in-memory database with migrated media tables.
func setupTestDB(t *testing.T) (testDB, grabbieldb.Tables) {
	t.Helper()
	ctx := context.Background()
	tables := randomTables(t)

	db, err := sqlite.Connect(ctx, ":memory:", tables)
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx), "failed to migrate")

	return db, tables
}
