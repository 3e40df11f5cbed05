package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "SERVER_PORT", "DB_DRIVER", "JWT_EXPIRY", "KAFKA_BROKERS", "ES_INDEX", "SEED_PRODUCTS"} {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/grocery")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, "grocerystore", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10*time.Hour, cfg.JWTExpiry)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.True(t, cfg.SeedProducts)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SEED_PRODUCTS", "false")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.SeedProducts)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{DBDriver: "postgres", DatabaseURL: "dsn", JWTSecret: []byte("s"), JWTExpiry: time.Hour}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = "" }},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = nil }},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }},
		{name: "non-positive expiry", mutate: func(c *Config) { c.JWTExpiry = 0 }},
	}

	require.NoError(t, valid.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
}
