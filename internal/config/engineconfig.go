package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Exchange    ExchangeConfig `mapstructure:"exchange"`
	Engine      EngineConfig   `mapstructure:"engine"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ExchangeConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type EngineConfig struct {
	Symbols      []string `mapstructure:"symbols"`
	Timeframe    string   `mapstructure:"timeframe"`
	Strategies   []string `mapstructure:"strategies"`
	Relax        bool     `mapstructure:"relax"`
	KlineLimit   int      `mapstructure:"kline_limit"`
	WarmupBars   int      `mapstructure:"warmup_bars"`
	ScoreQuality bool     `mapstructure:"score_quality"`
}

// Load reads configuration from configs/config.yaml and the environment.
// Environment variables override file values (dots replaced with
// underscores, e.g. ENGINE_TIMEFRAME).
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Engine.Timeframe {
	case "4h", "1d", "1w":
	default:
		return fmt.Errorf("unsupported timeframe %q (want 4h, 1d or 1w)", c.Engine.Timeframe)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if len(c.Engine.Symbols) == 0 {
		return fmt.Errorf("engine.symbols must not be empty")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("exchange.base_url", "https://api.binance.com")
	viper.SetDefault("exchange.timeout_seconds", 20)

	viper.SetDefault("engine.symbols", []string{
		"BTC/USDT", "ETH/USDT", "BNB/USDT", "SOL/USDT", "XRP/USDT", "DOGE/USDT",
	})
	viper.SetDefault("engine.timeframe", "4h")
	viper.SetDefault("engine.strategies", []string{})
	viper.SetDefault("engine.relax", false)
	viper.SetDefault("engine.kline_limit", 300)
	viper.SetDefault("engine.warmup_bars", 0)
	viper.SetDefault("engine.score_quality", true)
}
