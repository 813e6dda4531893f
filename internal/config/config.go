package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env    string
	Port   string
	UIPath string
	Users  string

	// Ledger
	AccountName   string
	PrivateKey    string
	RPCServer     string
	LedgerTimeout time.Duration
	ExpireSeconds int
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Env:    getEnv("ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		UIPath: getEnv("UI_PATH", "./ui/build"),
		Users:  getEnv("USERS", "admin:admin"),

		// Ledger
		AccountName: os.Getenv("EOS_ACCOUNT_NAME"),
		PrivateKey:  os.Getenv("EOS_PRIVATE_KEY"),
		RPCServer:   getEnv("EOS_RPC_SERVER", "https://api.testnet.eos.io"),
	}

	if config.AccountName == "" {
		return nil, fmt.Errorf("EOS_ACCOUNT_NAME is required")
	}

	timeoutStr := getEnv("LEDGER_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		log.Printf("Warning: invalid LEDGER_TIMEOUT value '%s', falling back to 30s\n", timeoutStr)
		timeout = 30 * time.Second
	}
	config.LedgerTimeout = timeout

	config.ExpireSeconds = getEnvInt("LEDGER_EXPIRE_SECONDS", 30)

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves a positive integer environment variable, falling back
// to the default when it is unset or malformed.
func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
