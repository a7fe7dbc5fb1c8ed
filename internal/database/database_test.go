package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SQLiteIsRepeatable(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "app.db")

	db, err := OpenDB(ctx, "sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	dialect, err := DialectFor("sqlite")
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db, dialect))
	require.NoError(t, Migrate(ctx, db, dialect))

	_, err = db.ExecContext(ctx,
		"INSERT INTO user_accounts (user_id, credits, created_at) VALUES ('u', -1, CURRENT_TIMESTAMP)")
	assert.Error(t, err, "credits must not go negative")
}

func TestDialectFor_Unknown(t *testing.T) {
	_, err := DialectFor("postgres")
	assert.Error(t, err)

	_, err = OpenDB(context.Background(), "postgres", "dsn")
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("app:secret@tcp(db:3306)/versefinder")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, "versefinder", cfg.DBName)
	assert.Equal(t, "db:3306", cfg.Addr)

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
