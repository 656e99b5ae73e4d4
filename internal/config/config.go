package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Host        string `mapstructure:"HOST"`
		Port        string `mapstructure:"PORT"`
		DatabaseURL string `mapstructure:"DATABASE_URL"`
	}
)

func NewConfig() (*Config, error) {
	viper.SetEnvPrefix("PORTFOLIO")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_URL", "")

	envs := []string{"HOST", "PORT", "DATABASE_URL"}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	return nil
}
