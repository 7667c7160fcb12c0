package kafka

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// LoadEnv дополняет cfg значениями из переменных окружения (caarlos0/env).
// Незаданные переменные оставляют уже выставленные в cfg значения.
func LoadEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse kafka env: %w", err)
	}
	return nil
}
