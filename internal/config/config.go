package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the booking server.  Each field
// corresponds to an environment variable; optional groups (schedule, mail,
// rate limit, cache) have their own loaders with defaults.
type Config struct {
	Env           string // application environment (development, production)
	Port          string // HTTP port to listen on
	DBDriver      string // "mysql" or "postgres"
	DBUser        string // database username (mysql)
	DBPass        string // database password (optional)
	DBHost        string // database host address (mysql)
	DBPort        string // database port number (mysql)
	DBName        string // database name (mysql)
	DBDSN         string // full connection string (postgres)
	SessionKey    string // HMAC secret for the session cookie
	SessionTTL    time.Duration
	CodeTTL       time.Duration // verification code lifetime
	BcryptCost    int           // bcrypt cost used to hash verification codes
	DefaultLang   string        // locale used for unknown language codes
	CSRFEnabled   bool
	CORSOrigins   []string
	RabbitURL     string // empty disables event publishing
	NotifyTimeout time.Duration
}

// Load reads .env (when present) and the process environment.  Required
// variables are enforced by must() and missing values stop the program.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := Config{
		Env:           envStr("APP_ENV", "development"),
		Port:          must("APP_PORT"),
		DBDriver:      strings.ToLower(envStr("DB_DRIVER", "mysql")),
		DBPass:        os.Getenv("DB_PASS"),
		SessionKey:    must("SESSION_SECRET"),
		SessionTTL:    envDur("SESSION_TTL", 24*time.Hour),
		CodeTTL:       envDur("VERIFY_CODE_TTL", 10*time.Minute),
		BcryptCost:    envInt("VERIFY_CODE_BCRYPT_COST", 10),
		DefaultLang:   envStr("DEFAULT_LANG", "fr"),
		CSRFEnabled:   envBool("CSRF_ENABLED", true),
		CORSOrigins:   splitList(envStr("CORS_ORIGINS", "*")),
		RabbitURL:     rabbitURL(),
		NotifyTimeout: envDur("NOTIFY_TIMEOUT", 10*time.Second),
	}
	switch cfg.DBDriver {
	case "postgres":
		cfg.DBDSN = must("DB_DSN")
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// rabbitURL honours RABBITMQ_URL then AMQP_URL.  Publishing is disabled
// when neither is set.
func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
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

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
