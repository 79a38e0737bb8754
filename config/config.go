// Package config reads the tbk configuration from the environment,
// optionally loaded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreJSONL    = "jsonl"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreSheets   = "sheets"
)

// Config represents the full configuration surface.
type Config struct {
	Store     StoreConfig
	Server    ServerConfig
	Cache     CacheConfig
	Events    EventsConfig
	Reporting ReportingConfig
	AI        AIConfig
	LogLevel  string
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Kind         string
	DataDir      string
	LedgerFile   string
	ReceiptsFile string
	SQLDSN       string
	SQLTables    SQLTables
	Mongo        MongoDBConfig
	Sheets       SheetsConfig
}

// SQLTables names the tables of the postgres and sqlite stores.
type SQLTables struct {
	Ledger   string
	Receipts string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to read Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	LedgerRange     string
	ReceiptsRange   string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// CacheConfig holds the Redis report cache options. The cache is disabled
// when Addr is empty.
type CacheConfig struct {
	Addr string
	TTL  time.Duration
}

// EventsConfig holds the Kafka publisher options. Publishing is disabled
// when Brokers is empty.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	Currency     string
	CronSchedule string
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	GeminiKey string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// missing .env files are fine: configuration may come from the environment.
		_ = godotenv.Load()
	}

	ttl, err := time.ParseDuration(getenvWithDefault("TBK_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TBK_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Store: StoreConfig{
			Kind:         getenvWithDefault("TBK_STORE", StoreJSONL),
			DataDir:      getenvWithDefault("TBK_DATA_DIR", "."),
			LedgerFile:   getenvWithDefault("TBK_LEDGER_FILE", "ledger.jsonl"),
			ReceiptsFile: getenvWithDefault("TBK_RECEIPTS_FILE", "receipts.jsonl"),
			SQLDSN:       os.Getenv("TBK_SQL_DSN"),
			SQLTables: SQLTables{
				Ledger:   getenvWithDefault("TBK_SQL_LEDGER_TABLE", "ledger_entries"),
				Receipts: getenvWithDefault("TBK_SQL_RECEIPTS_TABLE", "stock_receipts"),
			},
			Mongo: MongoDBConfig{
				URI:    getenvWithDefault("TBK_MONGO_URI", "mongodb://localhost:27017"),
				DBName: getenvWithDefault("TBK_MONGO_DB", "tradebook"),
			},
			Sheets: SheetsConfig{
				CredentialsPath: os.Getenv("TBK_SHEETS_CREDENTIALS"),
				SpreadsheetID:   os.Getenv("TBK_SHEETS_ID"),
				LedgerRange:     getenvWithDefault("TBK_SHEETS_LEDGER_RANGE", "Ledger!A:Z"),
				ReceiptsRange:   getenvWithDefault("TBK_SHEETS_RECEIPTS_RANGE", "Stock!A:Z"),
			},
		},
		Server: ServerConfig{
			Port: getenvWithDefault("TBK_PORT", "8080"),
		},
		Cache: CacheConfig{
			Addr: os.Getenv("TBK_REDIS_ADDR"),
			TTL:  ttl,
		},
		Events: EventsConfig{
			Brokers: splitList(os.Getenv("TBK_KAFKA_BROKERS")),
			Topic:   getenvWithDefault("TBK_KAFKA_TOPIC", "tradebook.reports"),
		},
		Reporting: ReportingConfig{
			Currency:     os.Getenv("TBK_CURRENCY"),
			CronSchedule: getenvWithDefault("TBK_CRON", "@every 15m"),
		},
		AI: AIConfig{
			GeminiKey: os.Getenv("GEMINI_API_KEY"),
		},
		LogLevel: getenvWithDefault("TBK_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that the fields required by the selected store are
// populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Store.Kind {
	case StoreJSONL:
		if c.Store.DataDir == "" {
			return errors.New("TBK_DATA_DIR must not be empty")
		}
	case StorePostgres, StoreSQLite:
		if c.Store.SQLDSN == "" {
			return errors.New("TBK_SQL_DSN must be provided")
		}
	case StoreMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.DBName == "" {
			return errors.New("TBK_MONGO_URI and TBK_MONGO_DB must be provided")
		}
	case StoreSheets:
		switch {
		case c.Store.Sheets.CredentialsPath == "":
			return errors.New("TBK_SHEETS_CREDENTIALS must be provided")
		case c.Store.Sheets.SpreadsheetID == "":
			return errors.New("TBK_SHEETS_ID must be provided")
		}
	default:
		return fmt.Errorf("unknown TBK_STORE %q", c.Store.Kind)
	}
	if c.Server.Port == "" {
		return errors.New("TBK_PORT must not be empty")
	}
	if c.Cache.TTL < 0 {
		return errors.New("TBK_CACHE_TTL must not be negative")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var res []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
