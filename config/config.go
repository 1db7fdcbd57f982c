package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Database struct {
	Driver   string // sqlite, mysql or postgres
	DSN      string
	LogLevel string // silent, error, warn, info
}

type Booking struct {
	OpenHour        int
	LastSeatingHour int
	SlotMinutes     int
	// Timezone is the restaurant's IANA zone; slots and "today" are evaluated in it.
	Timezone string
}

// Location resolves Timezone, falling back to the process' local zone.
func (b Booking) Location() *time.Location {
	if b.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type Reminder struct {
	Interval time.Duration
	Lead     time.Duration
}

type Admin struct {
	Name     string
	Email    string
	Password string
}

type Config struct {
	Port       string
	GinMode    string
	LogLevel   string
	CORSOrigin string

	Database Database

	JWTSecret string
	JWTTTL    time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration
	AuthRatePerMinute int
	AuthRateBurst     int

	Booking  Booking
	Reminder Reminder
	Admin    Admin
}

// ClientConfig is what the CLI needs to talk to a running server.
type ClientConfig struct {
	APIURL      string
	SessionFile string
}

// LoadEnv reads .env when present. Missing files are not an error.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func Load() Config {
	return Config{
		Port:       readString("PORT", "8080"),
		GinMode:    readString("GIN_MODE", "debug"),
		LogLevel:   readString("LOG_LEVEL", "info"),
		CORSOrigin: readString("CORS_ORIGIN", "http://127.0.0.1:5173"),
		Database: Database{
			Driver:   strings.ToLower(readString("DB_DRIVER", "sqlite")),
			DSN:      readString("DB_DSN", "tablemate.db"),
			LogLevel: readString("DB_LOG_LEVEL", "warn"),
		},
		JWTSecret:         readString("JWT_SECRET", "TableMateDevSecret"),
		JWTTTL:            readDuration("JWT_TTL", 24*time.Hour),
		RateLimitRequests: readInt("RATE_LIMIT_REQUESTS", 50),
		RateLimitWindow:   readDuration("RATE_LIMIT_WINDOW", time.Second),
		AuthRatePerMinute: readInt("AUTH_RATE_PER_MIN", 10),
		AuthRateBurst:     readInt("AUTH_RATE_BURST", 5),
		Booking: Booking{
			OpenHour:        readInt("BOOKING_OPEN_HOUR", 17),
			LastSeatingHour: readInt("BOOKING_LAST_SEATING_HOUR", 22),
			SlotMinutes:     readInt("BOOKING_SLOT_MINUTES", 30),
			Timezone:        readString("BOOKING_TIMEZONE", ""),
		},
		Reminder: Reminder{
			Interval: readDuration("REMINDER_INTERVAL", time.Minute),
			Lead:     readDuration("REMINDER_LEAD", 2*time.Hour),
		},
		Admin: Admin{
			Name:     readString("ADMIN_NAME", "Administrator"),
			Email:    readString("ADMIN_EMAIL", ""),
			Password: readString("ADMIN_PASSWORD", ""),
		},
	}
}

func LoadClient() ClientConfig {
	sessionFile := os.Getenv("TABLEMATE_SESSION_FILE")
	if sessionFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			sessionFile = filepath.Join(dir, "tablemate", "session.json")
		} else {
			sessionFile = ".tablemate-session.json"
		}
	}
	return ClientConfig{
		APIURL:      readString("TABLEMATE_API_URL", "http://localhost:8080"),
		SessionFile: sessionFile,
	}
}

func readString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
