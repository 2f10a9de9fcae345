package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 1440, cfg.JWT.Expiration)
	assert.Equal(t, 168, cfg.JWT.RefreshExpiration)
	assert.Equal(t, 30*time.Second, cfg.Access.CacheTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_EnvOverrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("ACCESS_CACHE_TTL_SECONDS", "0")
	v.Set("INVENTORY_DEFAULT_WAREHOUSE_ID", "wh-1")
	v.Set("HTTP_PORT", "no-es-numero")

	cfg := fromViper(v)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, time.Duration(0), cfg.Access.CacheTTL())
	assert.Equal(t, "wh-1", cfg.Inventory.DefaultWarehouseID)
	assert.Equal(t, 8080, cfg.HTTP.Port, "un valor no numérico cae al default")
}

func TestValidate_RequiresJWTSecret(t *testing.T) {
	cfg := fromViper(viper.New())
	require.Error(t, cfg.Validate())

	cfg.JWT.Secret = "s3cr3t"
	require.NoError(t, cfg.Validate())
}

func TestDSN_EscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "ayuda", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/ayuda?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
