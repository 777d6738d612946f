package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ServiceName = "news"
	envPrefix   = "NEWS_"

	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Addr     string
	DiagAddr string
	Routes   bool

	Store         string
	MongoURI      string
	MongoDatabase string
	// Seed loads the fixture data into the memory store at startup.
	Seed bool

	JWTSecret string

	Development bool
	LogLevel    string

	RateLimitRPS   float64
	RateLimitBurst int

	ShutdownTimeout time.Duration
}

// LoadDotEnv reads .env files into the environment when they exist. A missing
// file is not an error.
func LoadDotEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// Load parses args into a Config. Flag defaults come from NEWS_* environment
// variables.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	var c Config

	fs.StringVar(&c.Addr, "addr", GetEnv("ADDR", ":3333"), "application address")
	fs.StringVar(&c.DiagAddr, "diag_addr", GetEnv("DIAG_ADDR", ":9999"), "diagnostics address (metrics)")
	fs.BoolVar(&c.Routes, "routes", GetEnvBool("ROUTES", false), "print router documentation and exit")
	fs.StringVar(&c.Store, "store", GetEnv("STORE", StoreMongo), "article store: mongo or memory")
	fs.StringVar(&c.MongoURI, "mongo_uri", GetEnv("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection string")
	fs.StringVar(&c.MongoDatabase, "mongo_db", GetEnv("MONGO_DB", "news"), "MongoDB database name")
	fs.BoolVar(&c.Seed, "seed", GetEnvBool("SEED", false), "load fixture data into the memory store")
	fs.StringVar(&c.JWTSecret, "jwt_secret", GetEnv("JWT_SECRET", ""), "HMAC secret for access tokens")
	fs.BoolVar(&c.Development, "dev", GetEnvBool("DEV", false), "development logging")
	fs.StringVar(&c.LogLevel, "log_level", GetEnv("LOG_LEVEL", "info"), "log level")
	fs.Float64Var(&c.RateLimitRPS, "rate_limit_rps", GetEnvFloat("RATE_LIMIT_RPS", 5), "sustained writes per second per client")
	fs.IntVar(&c.RateLimitBurst, "rate_limit_burst", GetEnvInt("RATE_LIMIT_BURST", 20), "write burst per client")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown_timeout", GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second), "graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []string

	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, "mongo_uri is required for the mongo store")
		}
		if c.MongoDatabase == "" {
			errs = append(errs, "mongo_db is required for the mongo store")
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Sprintf("unknown store %q", c.Store))
	}
	if c.JWTSecret == "" && !c.Routes {
		errs = append(errs, "jwt_secret is required")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, "rate limit must be positive")
	}

	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}

	return nil
}

// GetEnv returns NEWS_<key> or def.
func GetEnv(key, def string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}

	return def
}

func GetEnvBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(GetEnv(key, "")); err == nil {
		return b
	}

	return def
}

func GetEnvInt(key string, def int) int {
	if n, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return n
	}

	return def
}

func GetEnvFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(GetEnv(key, ""), 64); err == nil {
		return f
	}

	return def
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(GetEnv(key, "")); err == nil {
		return d
	}

	return def
}
