package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"grima/internal/config"
)

// LoadConfig reads a yaml config file. Environment references like
// ${DB_PASSWORD} are expanded before parsing, so secrets stay out of the
// file itself.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg config.Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}
