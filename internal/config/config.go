package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// DevJWTSecret is the signing secret used when JWT_SECRET is not set.
// It exists so that the service can be started locally without any
// configuration.  Load refuses to fall back to it when APP_ENV is
// "prod" and logs a prominent warning everywhere else.
const DevJWTSecret = "health-record-dev-secret-change-in-production"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign session tokens
	TokenTTLDays int    // session token time-to-live in days
	BcryptCost   int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Tunables fall back
// to sensible defaults: sessions live for 7 days and passwords are hashed
// with bcrypt cost 12.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),      // environment (dev/test/prod)
		Port:         must("APP_PORT"),     // port to bind the HTTP server
		DBUser:       must("DB_USER"),      // database user
		DBPass:       os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:       must("DB_HOST"),      // database host
		DBPort:       must("DB_PORT"),      // database port
		DBName:       must("DB_NAME"),      // database name
		JWTSecret:    signingSecret(),      // secret used for signing session tokens
		TokenTTLDays: envIntOr("TOKEN_TTL_DAYS", 7),
		BcryptCost:   envIntOr("BCRYPT_COST", 12),
	}
}

// signingSecret resolves the JWT signing secret.  An explicitly configured
// secret is always used as-is.  When the variable is unset the development
// fallback is returned, except in the prod environment where starting with
// a publicly known secret would make every session forgeable.
func signingSecret() string {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	if os.Getenv("APP_ENV") == "prod" {
		log.Fatal("JWT_SECRET must be set when APP_ENV=prod")
	}
	log.Println("WARNING: JWT_SECRET not set, using insecure development fallback")
	return DevJWTSecret
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envIntOr reads an optional integer environment variable, returning def
// when the variable is unset.  A present but malformed value is a fatal
// configuration error rather than a silent fallback.
func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
