package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 26, cfg.Payroll.StandardWorkDays)
	assert.Equal(t, "0 1 1 * *", cfg.Payroll.GenerateSchedule)
	assert.Equal(t, 10*time.Minute, cfg.Redis.ReportTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_ReportsEveryBadVariable(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_PORT", "eighty")
	t.Setenv("REPORT_CACHE_TTL", "soon")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "REPORT_CACHE_TTL")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Env: "production", Timezone: "UTC"},
		JWT:     JWTConfig{Secret: "s"},
		Payroll: PayrollConfig{StandardWorkDays: 26},
	}
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")

	cfg.Database.Password = "pw"
	assert.NoError(t, cfg.Validate())

	cfg.Payroll.StandardWorkDays = 40
	assert.Error(t, cfg.Validate())

	cfg.Payroll.StandardWorkDays = 26
	cfg.JWT.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET_KEY")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, Name: "gym", SSLMode: "disable"}}
	assert.Equal(t, "postgres://u:p@db:5432/gym?sslmode=disable", cfg.DatabaseURL())
}
