package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server Server `mapstructure:"server" validate:"required"`
	Batch  Batch  `mapstructure:"batch"  validate:"required"`
	LLM    LLM    `mapstructure:"llm"    validate:"required"`
}

// Server contains all HTTP server related configuration settings.
type Server struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// APIKey guards the /api routes via the X-API-Key header. Empty disables
	// the check (local development).
	APIKey string `mapstructure:"api_key"`
}

// Batch contains the orchestration tuning knobs.
type Batch struct {
	// BaseStaggerDelay is divided by the credential count to pace dispatches.
	BaseStaggerDelay time.Duration `mapstructure:"base_stagger_delay" validate:"required,gt=0"`

	// BatchTimeout bounds one whole batch before stragglers are marked timed out.
	BatchTimeout time.Duration `mapstructure:"batch_timeout" validate:"required,gt=0"`

	// TaskTimeout bounds a single external call attempt.
	TaskTimeout time.Duration `mapstructure:"task_timeout" validate:"required,gt=0"`

	// MaxRetries is the per-task retry budget for transient failures.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`

	// RetryBaseDelay seeds the exponential backoff between retries.
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" validate:"required,gt=0"`
}

// LLM contains the generative-service integration settings. API keys are
// loaded separately from the GEMINI_API_KEY environment family, not through
// viper, so they never end up in config files.
type LLM struct {
	ModelName string `mapstructure:"model_name" validate:"required"`
}
