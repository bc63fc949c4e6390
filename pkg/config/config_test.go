package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "trims and skips blanks", in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("SHOPCART_TEST_STR", "value")
	t.Setenv("SHOPCART_TEST_INT", "42")
	t.Setenv("SHOPCART_TEST_BAD_INT", "forty-two")
	t.Setenv("SHOPCART_TEST_DUR", "90s")
	t.Setenv("SHOPCART_TEST_BAD_DUR", "-5s")
	t.Setenv("SHOPCART_TEST_BOOL", "true")
	t.Setenv("SHOPCART_TEST_BAD_BOOL", "yes please")

	assert.Equal(t, "value", EnvDefault("SHOPCART_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("SHOPCART_TEST_MISSING", "def"))

	assert.Equal(t, 42, EnvIntDefault("SHOPCART_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("SHOPCART_TEST_BAD_INT", 1))

	assert.Equal(t, 90*time.Second, EnvDurationDefault("SHOPCART_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("SHOPCART_TEST_BAD_DUR", time.Minute))

	assert.True(t, EnvBoolDefault("SHOPCART_TEST_BOOL", false))
	assert.True(t, EnvBoolDefault("SHOPCART_TEST_BAD_BOOL", true))
	assert.False(t, EnvBoolDefault("SHOPCART_TEST_MISSING", false))
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "SERVER_PORT", "DATABASE_DRIVER", "JWT_TTL", "ES_INDEX", "CORS_ORIGINS", "KAFKA_BROKERS", "COOKIE_SECURE", "GOOGLE_CLIENT_ID"} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, "shopcart", cfg.ServiceName)
	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, []byte("secret"), cfg.JWTSecret)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.GoogleClientID)
}

func TestLoad_AuthSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("GOOGLE_CLIENT_ID", "client-1.apps.googleusercontent.com")

	cfg := Load()

	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "client-1.apps.googleusercontent.com", cfg.GoogleClientID)
}
