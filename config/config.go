package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"botoclock/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken    string
	CommandPrefixes []string // Text prefixes the bot answers to, besides a mention

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Clock configuration
	MaxClocksPerGuild      int     // Quota of clocks per guild
	WorkerPoolSize         int     // Event handlers allowed to run at once
	ClockRefreshEnabled    bool    // Periodically re-render every clock
	ClockRefreshSchedule   string  // Cron expression for the refresh worker
	PlatformEditsPerSecond float64 // Rename/edit rate towards Discord
	SweepOnGuildCreate     bool    // Drop stale clocks whenever a guild becomes available

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables publishing

	// Observability configuration
	OTelEnabled          bool
	OTelExporterType     string // "console", "otlp" or "none"
	OTelOTLPEndpoint     string
	OTelServiceName      string
	OTelExportIntervalMS int

	// Logging configuration
	LogLevel  string
	LogFormat string // "text" or "json"

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// PrimaryPrefix is the prefix shown in help text and the bot presence
func (c *Config) PrimaryPrefix() string {
	if len(c.CommandPrefixes) == 0 {
		return "?t"
	}
	return c.CommandPrefixes[0]
}

// LoadDotEnv loads a .env file into the environment when one is present.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// load loads configuration from environment variables
func load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	config := &Config{
		// Discord
		DiscordToken:    os.Getenv("DISCORD_TOKEN"),
		CommandPrefixes: parsePrefixes(getEnvWithDefault("COMMAND_PREFIXES", "timezone,?t")),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Clocks
		WorkerPoolSize:         20,
		ClockRefreshEnabled:    os.Getenv("CLOCK_REFRESH_ENABLED") == "true",
		ClockRefreshSchedule:   getEnvWithDefault("CLOCK_REFRESH_SCHEDULE", "*/10 * * * *"),
		PlatformEditsPerSecond: 1,
		SweepOnGuildCreate:     os.Getenv("SWEEP_ON_GUILD_CREATE") == "true",

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Observability
		OTelEnabled:          os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:     getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:     getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:      getEnvWithDefault("OTEL_SERVICE_NAME", "botoclock"),
		OTelExportIntervalMS: 60000,

		// Logging
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if maxChannels := os.Getenv("MAX_CHANNELS"); maxChannels != "" {
		parsed, err := strconv.Atoi(maxChannels)
		if err != nil {
			return nil, fmt.Errorf("MAX_CHANNELS must be an integer: %w", err)
		}
		config.MaxClocksPerGuild = parsed
	}
	if poolSize := os.Getenv("WORKER_POOL_SIZE"); poolSize != "" {
		if parsed, err := strconv.Atoi(poolSize); err == nil && parsed > 0 {
			config.WorkerPoolSize = parsed
		}
	}
	if rate := os.Getenv("PLATFORM_EDITS_PER_SECOND"); rate != "" {
		if parsed, err := strconv.ParseFloat(rate, 64); err == nil && parsed > 0 {
			config.PlatformEditsPerSecond = parsed
		}
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMS = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.MaxClocksPerGuild <= 0 {
			return nil, fmt.Errorf("MAX_CHANNELS is required and must be positive")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// parsePrefixes splits a comma-separated prefix list, dropping blanks
func parsePrefixes(raw string) []string {
	var prefixes []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:            "test",
		CommandPrefixes:        []string{"timezone", "?t"},
		MaxClocksPerGuild:      5,
		WorkerPoolSize:         20,
		ClockRefreshSchedule:   "*/10 * * * *",
		PlatformEditsPerSecond: 1,
		LogLevel:               "info",
		LogFormat:              "text",
	}
}
