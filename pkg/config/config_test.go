package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/pkg/config"
)

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.App.StoreDriver)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Business.Timezone)
	assert.Equal(t, "@every 1m", cfg.Scheduler.AutoStartSpec)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.False(t, cfg.App.SeedDemo)
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("BUSINESS_TIMEZONE", "UTC")
	t.Setenv("SCHEDULER_AUTOSTART_SPEC", "*/30 * * * * *")
	t.Setenv("JWT_EXPIRATION_MINUTES", "no-es-numero")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorePostgres, cfg.App.StoreDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.App.SeedDemo)
	assert.Equal(t, "*/30 * * * * *", cfg.Scheduler.AutoStartSpec)
	assert.Equal(t, 60, cfg.JWT.Expiration, "un entero inválido cae al valor por defecto")

	loc, err := cfg.Business.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_DriverInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_Pool(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.DB.MaxConns)
	assert.Equal(t, 0, cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.False(t, cfg.DB.PreferIPv4)

	t.Setenv("DB_MAX_CONNS", "8")
	t.Setenv("DB_MIN_CONNS", "2")
	t.Setenv("DB_MAX_CONN_LIFETIME", "30m")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "nunca")
	t.Setenv("DB_PREFER_IPV4", "true")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnIdleTime, "una duración inválida cae al valor por defecto")
	assert.True(t, cfg.DB.PreferIPv4)
}

func TestLoad_PoolInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "3")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "alquileres", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/alquileres?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", db.ConnectionString())
}

func TestBusinessConfig_ZonaInvalida(t *testing.T) {
	_, err := config.BusinessConfig{Timezone: "Marte/Olympus"}.Location()
	assert.Error(t, err)
}
