package conf

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Conf describes one Postgres endpoint and its pool sizing. Construct it
// explicitly or via FromEnv; there is no implicit process-wide default.
type Conf struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	PW   string `json:"pw"`
	DB   string `json:"db"`
	TZ   string `json:"tz"`  // connection timezone
	DSN  string `json:"dsn"` // overrides the assembled DSN when set

	MaxConns        int32         `json:"max_conns"`
	MinConns        int32         `json:"min_conns"`
	MaxConnLifetime time.Duration `json:"max_conn_lifetime"`
}

// BuildDSN returns the configured DSN, assembling one from the individual
// fields when no override is set.
func (c *Conf) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	// NOTE: sslmode=disable is often used for local dev, adjust as needed.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		c.Host,
		c.Port,
		c.User,
		c.PW,
		c.DB,
		c.TZ,
	)
}

// FromEnv reads the standard PG* environment variables, loading a .env
// file first when one is present. DATABASE_URL, if set, wins as a DSN
// override. Unset fields fall back to local-development defaults.
func FromEnv() (*Conf, error) {
	_ = godotenv.Load() // .env is optional

	c := &Conf{
		Host:            envOr("PGHOST", "localhost"),
		User:            envOr("PGUSER", "postgres"),
		PW:              os.Getenv("PGPASSWORD"),
		DB:              envOr("PGDATABASE", "postgres"),
		TZ:              envOr("PGTZ", "UTC"),
		DSN:             os.Getenv("DATABASE_URL"),
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 3 * time.Minute,
	}

	port := envOr("PGPORT", "5432")
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("conf: invalid PGPORT %q: %w", port, err)
	}
	c.Port = p
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
