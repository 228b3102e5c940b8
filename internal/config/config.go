package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strings" // strings normalizes enum-like values
    "time"    // time parses durations

    "github.com/joho/godotenv" // godotenv loads a local .env file
)

// Store drivers.
const (
    StoreMySQL  = "mysql"
    StoreMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database settings are only required when the
// MySQL store is selected.
type Config struct {
    Env         string        // application environment (e.g. "dev", "prod")
    Port        string        // HTTP port to listen on
    StoreDriver string        // "mysql" or "memory"
    DBUser      string        // database username
    DBPass      string        // database password (optional)
    DBHost      string        // database host address
    DBPort      string        // database port number
    DBName      string        // database name
    AutoMigrate bool          // create missing tables at startup
    JWTSecret   string        // secret used to verify access tokens
    AccessTTL   time.Duration // lifetime of tokens minted by cmd/token
    LogLevel    string        // logrus level name
    LogFormat   string        // "text" or "json"
    AMQPURL     string        // RabbitMQ URL; empty disables lifecycle events
    AuditDir    string        // directory the audit consumer writes to
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when it
// exists; real environment variables win over it.  Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
    _ = godotenv.Load() // a missing .env is not an error

    c := Config{
        Env:         getenv("APP_ENV", "dev"),
        Port:        getenv("APP_PORT", "8080"),
        StoreDriver: strings.ToLower(getenv("STORE_DRIVER", StoreMySQL)),
        JWTSecret:   must("JWT_SECRET"),
        AccessTTL:   envDur("ACCESS_TOKEN_TTL", 24*time.Hour),
        LogLevel:    getenv("LOG_LEVEL", "info"),
        LogFormat:   getenv("LOG_FORMAT", "text"),
        AMQPURL:     os.Getenv("AMQP_URL"),
        AuditDir:    getenv("AUDIT_DIR", "logs"),
        AutoMigrate: envBool("DB_AUTO_MIGRATE", false),
    }
    switch c.StoreDriver {
    case StoreMySQL:
        c.DBUser = must("DB_USER")           // database user
        c.DBPass = os.Getenv("DB_PASS")      // database password (empty allowed)
        c.DBHost = must("DB_HOST")           // database host
        c.DBPort = getenv("DB_PORT", "3306") // database port
        c.DBName = must("DB_NAME")           // database name
    case StoreMemory:
    default:
        log.Fatalf("invalid STORE_DRIVER %q (want mysql or memory)", c.StoreDriver)
    }
    return c
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
