package database

import (
	"context"
	"testing"
	"time"

	"postboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mysqlConfig() *config.Config {
	return &config.Config{
		DBDriver:                 config.DriverMySQL,
		DBHost:                   "db.internal",
		DBPort:                   "3306",
		DBUser:                   "root",
		DBPassword:               "secret",
		DBName:                   "blog_db",
		DBTLS:                    "skip-verify",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 5,
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(mysqlConfig())

	assert.Contains(t, dsn, "root:secret@tcp(db.internal:3306)/blog_db")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tls=skip-verify")
}

func TestMySQLDSN_TLSDisabled(t *testing.T) {
	cfg := mysqlConfig()
	cfg.DBTLS = "disable"

	assert.Contains(t, MySQLDSN(cfg), "tls=false")
}

func TestPostgresDSN_SSLMode(t *testing.T) {
	tests := []struct {
		tls  string
		want string
	}{
		{"skip-verify", "sslmode=require"},
		{"true", "sslmode=require"},
		{"verify-full", "sslmode=verify-full"},
		{"disable", "sslmode=disable"},
		{"", "sslmode=disable"},
	}

	for _, tt := range tests {
		t.Run(tt.tls, func(t *testing.T) {
			cfg := mysqlConfig()
			cfg.DBDriver = config.DriverPostgres
			cfg.DBTLS = tt.tls
			assert.Contains(t, PostgresDSN(cfg), tt.want)
		})
	}
}

func TestDialector_UnknownDriver(t *testing.T) {
	cfg := mysqlConfig()
	cfg.DBDriver = "oracle"

	_, err := Dialector(cfg)
	assert.Error(t, err)
}

func TestConnect_SQLiteConfiguresPool(t *testing.T) {
	cfg := mysqlConfig()
	cfg.DBDriver = config.DriverSQLite
	cfg.DBName = "file::memory:"
	cfg.DBMaxOpenConns = 3
	cfg.DBMaxIdleConns = 1

	db, err := Connect(cfg)
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)

	ctx := context.Background()
	assert.NoError(t, Ping(ctx, db))
	assert.NoError(t, Probe(ctx, db))
}

func TestConnect_UnreachableMySQLDoesNotFail(t *testing.T) {
	cfg := mysqlConfig()
	cfg.DBHost = "127.0.0.1"
	cfg.DBPort = "1"
	cfg.DBTLS = "disable"

	db, err := Connect(cfg)
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, Probe(ctx, db))
}
