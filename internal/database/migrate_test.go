package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var version int
	require.NoError(t, db.Get(&version, `SELECT MAX(version) FROM schema_version`))
	assert.Equal(t, SchemaVersion, version)

	// Migrating an up-to-date database is a no-op.
	require.NoError(t, db.Migrate())
}

func TestMigrate_V1RebuildDropsActivityData(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO activities (uid, date) VALUES ('alice', '2024-05-01')`)
	require.NoError(t, err)

	// Wind the recorded version back to the legacy schema and re-run.
	_, err = db.Exec(`DELETE FROM schema_version`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO schema_version (version) VALUES (1)`)
	require.NoError(t, err)

	require.NoError(t, db.Migrate())

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM activities`))
	assert.Equal(t, 0, count, "the v1 -> v2 step is data-destroying by design")

	var version int
	require.NoError(t, db.Get(&version, `SELECT MAX(version) FROM schema_version`))
	assert.Equal(t, SchemaVersion, version)
}

func TestMigrate_RefusesNewerSchema(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`DELETE FROM schema_version`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO schema_version (version) VALUES (99)`)
	require.NoError(t, err)

	assert.Error(t, db.Migrate())
}
