package config

import (
	"errors"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAccessTokenTTL = 720 * time.Minute

var ErrMissingSecret = errors.New("SECRET_KEY is required")

type Config struct {
	APIPort string
	LogMode string

	SecretKey      []byte
	AccessTokenTTL time.Duration
	GoogleClientID string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	// DBURL is the one DSN used by both the connection pool and migrations.
	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	VoteTallyQueue          string
	VoteTallyLockTTLSeconds int
}

// GoogleLoginEnabled reports whether an expected audience is configured.
func (c *Config) GoogleLoginEnabled() bool {
	return c.GoogleClientID != ""
}

// Load reads .env (if any) and the process environment once.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	e := env{lookup: lookup}

	cfg := &Config{
		APIPort:                 e.get("API_PORT", "8080"),
		LogMode:                 e.get("LOG_MODE", "dev"),
		SecretKey:               []byte(e.get("SECRET_KEY", "")),
		AccessTokenTTL:          time.Duration(e.getInt("ACCESS_TOKEN_EXPIRE_MINUTES", int(DefaultAccessTokenTTL/time.Minute))) * time.Minute,
		GoogleClientID:          strings.TrimSpace(e.get("GOOGLE_CLIENT_ID", "")),
		DBHost:                  e.get("DB_HOST", "localhost"),
		DBPort:                  e.get("DB_PORT", "5432"),
		DBUser:                  e.get("DB_USER", "postgres"),
		DBPassword:              e.get("DB_PASSWORD", "password"),
		DBName:                  e.get("DB_NAME", "p2v"),
		DBSslMode:               e.get("DB_SSLMODE", "disable"),
		RedisAddr:               e.get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           e.get("REDIS_PASSWORD", ""),
		RedisDB:                 e.getInt("REDIS_DB", 0),
		VoteTallyQueue:          e.get("VOTE_TALLY_QUEUE", "vote_tally_queue"),
		VoteTallyLockTTLSeconds: e.getInt("VOTE_TALLY_LOCK_TTL_SECONDS", 30),
	}

	if len(cfg.SecretKey) == 0 {
		return nil, ErrMissingSecret
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = DefaultAccessTokenTTL
	}

	cfg.DBURL = strings.TrimSpace(e.get("DATABASE_URL", ""))
	if cfg.DBURL == "" {
		cfg.DBURL = cfg.partsURL()
	}

	return cfg, nil
}

// partsURL assembles a postgres URL from the DB_* settings.
func (c *Config) partsURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSslMode}}.Encode(),
	}
	return u.String()
}

type env struct {
	lookup func(string) (string, bool)
}

func (e env) get(key, fallback string) string {
	if value, exists := e.lookup(key); exists {
		return value
	}
	return fallback
}

func (e env) getInt(key string, fallback int) int {
	valueStr := e.get(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
