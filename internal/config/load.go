package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables with the STUDYGEN_
// prefix (e.g. STUDYGEN_SERVER_PORT, STUDYGEN_BATCH_TASK_TIMEOUT), applying
// defaults for anything unset, and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("STUDYGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// A variable explicitly set to "" overrides the default, so required
	// fields blanked out in the environment fail validation instead of
	// silently falling back.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.api_key", "")

	v.SetDefault("batch.base_stagger_delay", "400ms")
	v.SetDefault("batch.batch_timeout", "5m")
	v.SetDefault("batch.task_timeout", "90s")
	v.SetDefault("batch.max_retries", 2)
	v.SetDefault("batch.retry_base_delay", "2s")

	v.SetDefault("llm.model_name", "gemini-2.5-flash")
}
