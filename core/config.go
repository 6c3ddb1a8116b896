package core

import (
	"fmt"
	"strings"
)

type ActivityConfig struct {
	TTLSeconds int `koanf:"ttl_seconds" mapstructure:"ttl_seconds"`
	RowCap     int `koanf:"row_cap" mapstructure:"row_cap"`
	BufferSize int `koanf:"buffer_size" mapstructure:"buffer_size"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Activity    ActivityConfig `koanf:"activity" mapstructure:"activity"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "relay",
		Activity: ActivityConfig{
			TTLSeconds: 30 * 24 * 3600,
			RowCap:     10000,
			BufferSize: 128,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Activity.TTLSeconds < 0 {
		return fmt.Errorf("core: activity.ttl_seconds must be >= 0")
	}
	if c.Activity.RowCap < 0 {
		return fmt.Errorf("core: activity.row_cap must be >= 0")
	}
	if c.Activity.BufferSize < 0 {
		return fmt.Errorf("core: activity.buffer_size must be >= 0")
	}
	return nil
}
