package config

import (
	"context"
	"fmt"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/sethvargo/go-envconfig"
)

type CodecConfig struct {
	ModeName string `env:"C2_MODE, default=3200"`
	SideInfo bool   `env:"C2_SIDE_INFO, default=false"`

	// Mode is parsed from ModeName.
	Mode codec2.Mode
}

func NewCodecConfigFromEnv() (*CodecConfig, error) {
	var cfg CodecConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	mode, err := codec2.ParseMode(cfg.ModeName)
	if err != nil {
		return nil, fmt.Errorf("invalid C2_MODE: %w", err)
	}
	cfg.Mode = mode

	return &cfg, nil
}
