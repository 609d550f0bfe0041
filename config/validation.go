package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs ValidationErrors

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "is required for postgres"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "is required for postgres"})
		}
		if cfg.DBPassword == "" && env != Development && env != Test {
			errs = append(errs, ValidationError{"db_password", "secret is required"})
		}
	case "sqlite":
		if env == Production {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not allowed in production"})
		}
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"jwt_secret", "secret is required"})
	}
	if env == Production && cfg.RedisPassword == "" {
		errs = append(errs, ValidationError{"redis_password", "secret is required"})
	}

	switch cfg.LLM.Provider {
	case ProviderDeepSeek:
		if cfg.LLM.DeepSeekKey == "" && env == Production {
			errs = append(errs, ValidationError{"DEEPSEEK_API_KEY", "is required when LLM_PROVIDER=deepseek"})
		}
	case ProviderBedrock:
		if cfg.LLM.BedrockModelID == "" {
			errs = append(errs, ValidationError{"BEDROCK_MODEL_ID", "is required when LLM_PROVIDER=bedrock"})
		}
	default:
		errs = append(errs, ValidationError{"LLM_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.LLM.Provider)})
	}

	if cfg.Planner.DefaultDuration < 1 {
		errs = append(errs, ValidationError{"PLAN_DEFAULT_DURATION", "must be at least 1"})
	}
	if cfg.Planner.MaxDuration < cfg.Planner.DefaultDuration {
		errs = append(errs, ValidationError{"PLAN_MAX_DURATION", "must not be below PLAN_DEFAULT_DURATION"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
