package config // package config loads application configuration from environment variables

import (
    "encoding/hex"
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, durations
// for intervals.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port to listen on
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    JWTSecret       string        // secret used to verify caller identity tokens
    QRSecretKey     []byte        // 256-bit key for the confirmation artifact cipher
    WebhookSecret   string        // shared secret for payment webhook signatures
    PaymentAPIBase  string        // base URL of the payment provider API
    PaymentAPIKey   string        // secret key for outbound payment provider calls
    MatcherInterval time.Duration // waitlist matcher run interval
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        DBUser:          must("DB_USER"),
        DBPass:          os.Getenv("DB_PASS"), // empty allowed
        DBHost:          must("DB_HOST"),
        DBPort:          must("DB_PORT"),
        DBName:          must("DB_NAME"),
        JWTSecret:       must("JWT_SECRET"),
        QRSecretKey:     mustKey("QR_SECRET_KEY"),
        WebhookSecret:   must("PAYMENT_WEBHOOK_SECRET"),
        PaymentAPIBase:  getenvDefault("PAYMENT_API_BASE", "https://api.stripe.com"),
        PaymentAPIKey:   must("PAYMENT_API_KEY"),
        MatcherInterval: mustDuration("WAITLIST_MATCH_INTERVAL", 5*time.Minute),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustKey decodes a hex-encoded 32-byte key provisioned by the
// operator. Anything but exactly 256 bits is a fatal misconfiguration
// because AES-256-GCM would reject it at first use.
func mustKey(key string) []byte {
    raw, err := hex.DecodeString(must(key))
    if err != nil {
        log.Fatalf("invalid hex for %s: %v", key, err)
    }
    if len(raw) != 32 {
        log.Fatalf("%s must decode to 32 bytes, got %d", key, len(raw))
    }
    return raw
}

// mustDuration parses an optional duration variable, falling back to
// the given default when unset. An unparsable value is fatal rather
// than silently defaulted.
func mustDuration(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        log.Fatalf("invalid duration for %s: %q", key, v)
    }
    return d
}

func getenvDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// atoi is kept for the rate limit loader in ratelimit.go.
func atoi(s string, def int) int {
    n, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return n
}
