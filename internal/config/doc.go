// Package config defines the application's configuration structure and
// loading. Settings come from environment variables with sensible defaults;
// generative-service API keys are deliberately excluded and loaded by the
// credential package.
package config
