package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "GO_ENV", "FATIGUE_TIMEZONE", "OVERSIGHT_WORKERS", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "Australia/Sydney", cfg.Timezone)
	assert.Equal(t, 4, cfg.OversightWorkers)
	assert.Equal(t, "*", cfg.CORSOrigins)
}

func TestFromEnv_Workers(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"8", 8},
		{"0", 1},
		{"500", 64},
		{"many", 4},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("OVERSIGHT_WORKERS", tt.value)
			assert.Equal(t, tt.want, FromEnv().OversightWorkers)
		})
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
