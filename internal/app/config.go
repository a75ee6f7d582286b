package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	MigrateOnStart bool

	// Session store backend. Empty means sessions live wherever the
	// principals live (Postgres when configured, memory otherwise).
	RedisAddr string

	// If true, /readyz returns 503 unless the database is configured
	// and reachable.
	ReadinessRequireDB bool

	// If true and no database is configured, a couple of demo users
	// are inserted at startup.
	SeedSampleUsers bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("ROSTER_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("ROSTER_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("ROSTER_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("ROSTER_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("ROSTER_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("ROSTER_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("ROSTER_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL:    EnvString("ROSTER_DATABASE_URL", ""),
		DBMaxConns:     EnvInt32("ROSTER_DB_MAX_CONNS", 10),
		DBMinConns:     EnvInt32("ROSTER_DB_MIN_CONNS", 0),
		MigrateOnStart: EnvBool("ROSTER_DB_MIGRATE", true),

		RedisAddr: EnvString("ROSTER_REDIS_ADDR", ""),

		ReadinessRequireDB: EnvBool("ROSTER_READINESS_REQUIRE_DB", false),

		SeedSampleUsers: EnvBool("ROSTER_SEED_SAMPLE_USERS", false),
	}
}
