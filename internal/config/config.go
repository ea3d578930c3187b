package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	ReadLimit  int64         `mapstructure:"read_limit" validate:"gt=0"`
	PingPeriod time.Duration `mapstructure:"ping_period" validate:"gt=0"`

	// Exactly one identity verification strategy per deployment.
	AuthStrategy    string        `mapstructure:"auth_strategy" validate:"oneof=token provider"`
	TokenSecret     string        `mapstructure:"token_secret" validate:"required_if=AuthStrategy token"`
	TokenIssuer     string        `mapstructure:"token_issuer"`
	ProviderURL     string        `mapstructure:"provider_url" validate:"required_if=AuthStrategy provider"`
	ProviderTimeout time.Duration `mapstructure:"provider_timeout" validate:"gt=0"`

	StoreMode    string        `mapstructure:"store_mode" validate:"oneof=http memory"`
	StoreURL     string        `mapstructure:"store_url" validate:"required_if=StoreMode http"`
	StoreTimeout time.Duration `mapstructure:"store_timeout" validate:"gt=0"`

	JoinRateLimit    int           `mapstructure:"join_rate_limit" validate:"gt=0"`
	JoinRateInterval time.Duration `mapstructure:"join_rate_interval" validate:"gt=0"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("auth_strategy", "token")
	v.SetDefault("provider_timeout", "5s")
	v.SetDefault("store_mode", "http")
	v.SetDefault("store_timeout", "5s")
	v.SetDefault("join_rate_limit", 10)
	v.SetDefault("join_rate_interval", "1m")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
