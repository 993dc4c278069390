package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Relational drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverLibSQL   = "libsql"
)

// Document store engines
const (
	DocumentStoreMemory  = "memory"
	DocumentStoreSurreal = "surrealdb"
)

// AnalysisEngineMock is the only analysis engine shipped
const AnalysisEngineMock = "mock"

// Page size defaults for the HTTP surface
const (
	DefaultPageSize    = 50
	DefaultMaxPageSize = 200
)

type Config struct {
	ServerPort  string
	Environment string
	// Relational store
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	TursoDatabaseURL string
	TursoAuthToken   string
	// Document store
	DocumentStore    string
	SurrealURL       string
	SurrealNamespace string
	SurrealDatabase  string
	SurrealUser      string
	SurrealPass      string
	SurrealMigrate   bool
	// Analysis
	AnalysisEngine string
	// Logging
	LogLevel  string
	LogFormat string
	// HTTP
	AllowedOrigins  []string
	DefaultPageSize int
	MaxPageSize     int
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:           getEnv("DB_PATH", "db/app.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		TursoDatabaseURL: getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:   getEnvSecret("TURSO_AUTH_TOKEN"),
		DocumentStore:    strings.ToLower(getEnv("DOCUMENT_STORE", DocumentStoreMemory)),
		SurrealURL:       getEnv("SURREAL_URL", "ws://localhost:8000"),
		SurrealNamespace: getEnv("SURREAL_NAMESPACE", "legal"),
		SurrealDatabase:  getEnv("SURREAL_DATABASE", "cases"),
		SurrealUser:      getEnv("SURREAL_USER", ""),
		SurrealPass:      getEnvSecret("SURREAL_PASS"),
		SurrealMigrate:   getEnvBool("SURREAL_MIGRATE", true),
		AnalysisEngine:   strings.ToLower(getEnv("ANALYSIS_ENGINE", AnalysisEngineMock)),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		DefaultPageSize:  getEnvInt("DEFAULT_PAGE_SIZE", DefaultPageSize),
		MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", DefaultMaxPageSize),
	}
}

// Validate rejects engine names the process cannot start with
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	case DriverLibSQL:
		if c.TursoDatabaseURL == "" {
			return fmt.Errorf("DB_DRIVER=libsql requires TURSO_DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (want sqlite, postgres or libsql)", c.DBDriver)
	}
	if c.DBDriver == DriverPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires DATABASE_URL")
	}

	switch c.DocumentStore {
	case DocumentStoreMemory, DocumentStoreSurreal:
	default:
		return fmt.Errorf("unknown DOCUMENT_STORE %q (want memory or surrealdb)", c.DocumentStore)
	}

	if c.AnalysisEngine != AnalysisEngineMock {
		return fmt.Errorf("unknown ANALYSIS_ENGINE %q (want mock)", c.AnalysisEngine)
	}

	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.DefaultPageSize, c.MaxPageSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvSecret reads a credential without logging it
func getEnvSecret(key string) string {
	return os.Getenv(key)
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %d", key, defaultValue)
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
