package database_test

import (
	"path/filepath"
	"testing"

	"github.com/01moynul/resellerhub-golang/internal/database"
	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAndSeedAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := database.OpenDBWithPath(path)
	require.NoError(t, err)
	defer db.Close()

	// Startup sequence, twice, as a restart would do it.
	for i := 0; i < 2; i++ {
		require.NoError(t, database.Migrate(db))
		require.NoError(t, database.Seed(db))
	}

	var admins, resellers, products, settings int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM admins").Scan(&admins))
	require.NoError(t, db.QueryRow("SELECT count(*) FROM resellers").Scan(&resellers))
	require.NoError(t, db.QueryRow("SELECT count(*) FROM products").Scan(&products))
	require.NoError(t, db.QueryRow("SELECT count(*) FROM settings").Scan(&settings))

	assert.Equal(t, 1, admins)
	assert.Equal(t, 1, resellers)
	assert.Equal(t, 5, products)
	assert.Equal(t, 6, settings)
}

func TestSeedCredentialsAndDefaults(t *testing.T) {
	db, err := database.OpenDBWithPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	var hash string
	require.NoError(t, db.QueryRow(
		"SELECT password FROM admins WHERE email = 'admin@example.com'").Scan(&hash))
	pw := models.Password{Hash: hash}
	ok, err := pw.Matches("admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	var code string
	require.NoError(t, db.QueryRow(
		"SELECT referral_code FROM resellers WHERE email = 'reseller@example.com'").Scan(&code))
	assert.Len(t, code, 8)

	var bonusType string
	require.NoError(t, db.QueryRow(
		"SELECT value FROM settings WHERE key = 'referral_bonus_type'").Scan(&bonusType))
	assert.Equal(t, "fixed", bonusType)
}
