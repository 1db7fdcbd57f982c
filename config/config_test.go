package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 17, cfg.Booking.OpenHour)
	assert.Equal(t, 22, cfg.Booking.LastSeatingHour)
	assert.Equal(t, 30, cfg.Booking.SlotMinutes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 50, cfg.RateLimitRequests)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("TABLEMATE_API_URL", "http://api.test")
	t.Setenv("TABLEMATE_SESSION_FILE", "/tmp/tm.json")

	cfg := LoadClient()
	assert.Equal(t, "http://api.test", cfg.APIURL)
	assert.Equal(t, "/tmp/tm.json", cfg.SessionFile)
}

func TestBookingLocation(t *testing.T) {
	assert.Equal(t, time.Local, Booking{}.Location())
	assert.Equal(t, time.Local, Booking{Timezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "UTC", Booking{Timezone: "UTC"}.Location().String())
}
