package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type LogConfig struct {
	Level   string   `env:"LOG_LEVEL, default=info"`
	Format  string   `env:"LOG_FORMAT, default=text"`
	Outputs []string `env:"LOG_OUTPUTS, default=stderr"`
}

func NewLogConfigFromEnv() (*LogConfig, error) {
	var cfg LogConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
