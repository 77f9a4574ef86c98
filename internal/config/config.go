// Package config loads application configuration from environment
// variables.  A .env file is honoured when present so local
// development matches deployment.  Operating hours are parsed here
// once and handed to the scheduling engine explicitly; nothing else
// in the application reads scheduling configuration from the
// environment.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/iliyamo/restaurant-table-reservation/internal/schedule"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Strings for identifiers
// and secrets, ints for counts and durations.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to verify staff/client tokens
	OpenTime        string // first bookable time of day, "HH:MM"
	CloseTime       string // closing time, "HH:MM"
	SlotIntervalMin int    // slot step in minutes
}

// Load reads configuration from the environment, after loading a
// .env file when one exists.  Required variables are enforced by
// must(); missing values exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		OpenTime:        must("OPEN_TIME"),
		CloseTime:       must("CLOSE_TIME"),
		SlotIntervalMin: mustInt("SLOT_INTERVAL_MIN"),
	}
}

// Hours converts the configured opening window into the engine's
// OperatingHours value.  Malformed times are reported here; the
// window itself (close after open, positive interval) is validated
// by the engine at construction.
func (c Config) Hours() (schedule.OperatingHours, error) {
	open, err := schedule.ParseTimeOfDay(c.OpenTime)
	if err != nil {
		return schedule.OperatingHours{}, err
	}
	close_, err := schedule.ParseTimeOfDay(c.CloseTime)
	if err != nil {
		return schedule.OperatingHours{}, err
	}
	return schedule.OperatingHours{Open: open, Close: close_, Interval: c.SlotIntervalMin}, nil
}

// must retrieves a required environment variable.  If the variable
// is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
