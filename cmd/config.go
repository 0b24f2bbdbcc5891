package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig.
const (
	EnvData          = "WLT_DATA"
	EnvStore         = "WLT_STORE"
	EnvAccount       = "WLT_ACCOUNT"
	EnvEmail         = "WLT_EMAIL"
	EnvLogLevel      = "WLT_LOG_LEVEL"
	EnvLogPretty     = "WLT_LOG_PRETTY"
	EnvAddr          = "WLT_ADDR"
	EnvFinnhubKey    = "FINNHUB_API_KEY"
	EnvFinnhubSuffix = "FINNHUB_SUFFIX"
	EnvQuoteTTL      = "FINNHUB_TTL"
)

// Store kinds.
const (
	StoreSQLite = "sqlite"
	StoreDir    = "dir"
	StoreMemory = "memory"
)

// Config holds the wlt configuration.
type Config struct {
	Data    string // sqlite file or directory, depending on Store
	Store   string // sqlite, dir or memory
	Account string // account scoping the sqlite documents
	Email   string // active account email, imports must match it

	LogLevel  string
	LogPretty bool

	Addr string // listen address of the serve command

	FinnhubKey    string
	FinnhubSuffix string
	QuoteTTL      time.Duration
}

// LoadConfig reads the configuration from the environment, after loading a
// .env file from the working directory when there is one.
func LoadConfig() Config {
	_ = godotenv.Load()

	store := getEnv(EnvStore, StoreSQLite)
	data := getEnv(EnvData, "")
	if data == "" {
		data = defaultData(store)
	}
	return Config{
		Data:          data,
		Store:         store,
		Account:       getEnv(EnvAccount, "default"),
		Email:         getEnv(EnvEmail, ""),
		LogLevel:      getEnv(EnvLogLevel, "warn"),
		LogPretty:     getEnvAsBool(EnvLogPretty, true),
		Addr:          getEnv(EnvAddr, ":8080"),
		FinnhubKey:    getEnv(EnvFinnhubKey, ""),
		FinnhubSuffix: getEnv(EnvFinnhubSuffix, ".CA"),
		QuoteTTL:      getEnvAsDuration(EnvQuoteTTL, time.Minute),
	}
}

func defaultData(store string) string {
	if store == StoreDir {
		return ".wallet"
	}
	return "wallet.db"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
