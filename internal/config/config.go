package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// App
	Env    string `mapstructure:"APP_ENV"` // development | production
	LogDir string `mapstructure:"LOG_DIR"`

	// Database
	DBPath string `mapstructure:"DB_PATH"`

	// Business
	TipPct               int  `mapstructure:"TIP_PCT"`
	OccupancyHorizonDays int  `mapstructure:"OCCUPANCY_HORIZON_DAYS"`
	AssumeCentury        bool `mapstructure:"ASSUME_CENTURY"`
	CapConsumosDiscount  bool `mapstructure:"CAP_CONSUMOS_FLAT_DISCOUNT"`
	GroupStockPool       bool `mapstructure:"GROUP_STOCK_POOL"`

	// Auth
	SessionTTLSeconds int `mapstructure:"SESSION_TTL_SECONDS"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for a single-machine reception desk
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_DIR", "logs")
	viper.SetDefault("DB_PATH", "hostal.db")
	viper.SetDefault("TIP_PCT", 10)
	viper.SetDefault("OCCUPANCY_HORIZON_DAYS", 20)
	viper.SetDefault("ASSUME_CENTURY", true)
	viper.SetDefault("CAP_CONSUMOS_FLAT_DISCOUNT", true)
	viper.SetDefault("GROUP_STOCK_POOL", true)
	viper.SetDefault("SESSION_TTL_SECONDS", 300)

	// Optional .env file for local use — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
