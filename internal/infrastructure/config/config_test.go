package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "fieldledger-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 30*time.Second, cfg.Cache.CurrentPeriodTTL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.ClosedPeriodTTL)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "30 3 * * *", cfg.Reconciliation.CronSchedule)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate_ConnectionPool(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.MaxIdleConns = 50
	cfg.Database.MaxOpenConns = 10

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}

func TestValidate_StorageBackend(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Storage.Backend = "s3"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.bucket")

	cfg.Storage.Bucket = "attachments"
	assert.NoError(t, cfg.validate())

	cfg.Storage.Backend = "ftp"
	err = cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestValidate_ProductionRequirements(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	assert.NoError(t, base().validate())

	cfg := base()
	cfg.JWT.Secret = ""
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.JWT.Secret = "short"
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.Database.SSLMode = "disable"
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.HTTP.CORSAllowOrigins = []string{"*"}
	assert.Error(t, cfg.validate())
}

func TestDatabaseDSN_EscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "fieldledger",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
