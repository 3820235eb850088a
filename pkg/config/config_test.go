package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("HR_TEST_INT", "12")
	assert.Equal(t, 12, EnvIntDefault("HR_TEST_INT", 3))

	t.Setenv("HR_TEST_INT", "twelve")
	assert.Equal(t, 3, EnvIntDefault("HR_TEST_INT", 3))
}

func TestEnvDurationDefault(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset", value: "", want: time.Minute},
		{name: "go duration", value: "15m", want: 15 * time.Minute},
		{name: "days", value: "7d", want: 7 * 24 * time.Hour},
		{name: "garbage", value: "soon", want: time.Minute},
		{name: "negative", value: "-5m", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HR_TEST_DUR", tt.value)
			assert.Equal(t, tt.want, EnvDurationDefault("HR_TEST_DUR", time.Minute))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg := Load()
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, "employees", cfg.ESIndex)
	require.True(t, cfg.CookieSecure)
}

func TestValidate(t *testing.T) {
	valid := Config{
		ServerPort:       8080,
		DatabaseURL:      "postgres://hr@localhost/hr",
		JWTAccessSecret:  []byte("access"),
		JWTRefreshSecret: []byte("refresh"),
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.DatabaseURL = ""
	bad.JWTRefreshSecret = []byte("access")
	bad.AdminEmail = "root@x.com"
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "must differ")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")

	bad = valid
	bad.JWTAccessSecret = nil
	bad.ServerPort = 0
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
	assert.Contains(t, err.Error(), "SERVER_PORT")
}
