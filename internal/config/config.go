// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"poscounter/internal/logger"
)

// Config is the resolved runtime configuration.
type Config struct {
	Environment   string
	ServerHost    string
	ServerPort    string
	DBPath        string
	CatalogPath   string
	LogsDirectory string
	LogFileFormat string
	LogLevel      string
	TimeZone      string
	SessionTTL    time.Duration
}

var v = viper.New()

func init() {
	setDefaults(v)
}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault("ENVIRONMENT", "dev")
	vp.SetDefault("SERVER_HOST", "127.0.0.1")
	vp.SetDefault("SERVER_PORT", "5051")
	vp.SetDefault("DB_PATH", "./data/pos.db")
	vp.SetDefault("CATALOG_PATH", "")
	vp.SetDefault("LOGS_DIRECTORY", "./logs")
	vp.SetDefault("LOG_FILE_FORMAT", "server_%s.log")
	vp.SetDefault("LOG_LEVEL", "info")
	vp.SetDefault("TIME_ZONE", "Asia/Kolkata")
	vp.SetDefault("SESSION_TTL", "12h")
	vp.AutomaticEnv()
}

//
// --- Utility Helpers ---
//

// Helper: get a setting based on ENVIRONMENT (dev or prod), falling back
// to the unqualified key and then its default.
func GetEnvBasedSetting(base string) string {
	env := strings.ToUpper(v.GetString("ENVIRONMENT"))
	if qualified := v.GetString(fmt.Sprintf("%s_%s", base, env)); qualified != "" {
		return qualified
	}
	return v.GetString(base)
}

// Helper: log which environment is running
func LogCurrentEnvironment() {
	if strings.EqualFold(v.GetString("ENVIRONMENT"), "dev") {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in production environment")
	}
}

//
// --- Loaders ---
//

// LoadEnv reads .env file into the process environment.
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}
}

// Load resolves every setting from the environment.
func Load() (Config, error) {
	ttlRaw := GetEnvBasedSetting("SESSION_TTL")
	ttl, err := time.ParseDuration(ttlRaw)
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %q", ttlRaw)
	}

	cfg := Config{
		Environment:   v.GetString("ENVIRONMENT"),
		ServerHost:    GetEnvBasedSetting("SERVER_HOST"),
		ServerPort:    GetEnvBasedSetting("SERVER_PORT"),
		DBPath:        GetEnvBasedSetting("DB_PATH"),
		CatalogPath:   GetEnvBasedSetting("CATALOG_PATH"),
		LogsDirectory: GetEnvBasedSetting("LOGS_DIRECTORY"),
		LogFileFormat: GetEnvBasedSetting("LOG_FILE_FORMAT"),
		LogLevel:      GetEnvBasedSetting("LOG_LEVEL"),
		TimeZone:      GetEnvBasedSetting("TIME_ZONE"),
		SessionTTL:    ttl,
	}
	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("DB_PATH must not be empty")
	}
	return cfg, nil
}

// LoggerConfig returns a logger.Config struct populated from cfg
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		LogsDirectory: c.LogsDirectory,
		LogFileFormat: c.LogFileFormat,
		TimeZone:      c.TimeZone,
		Level:         c.LogLevel,
	}
}

// Address builds the listen address.
func (c Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// Location loads the configured zone, falling back to Local.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		logger.LogWarn("Unknown TIME_ZONE %q, using Local: %v", c.TimeZone, err)
		return time.Local
	}
	return loc
}
