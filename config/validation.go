package config

import "fmt"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is complete enough to start.
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return ValidationError{Field: "JWT_SECRET", Message: "is required"}
	}
	if cfg.ServerPort == "" {
		return ValidationError{Field: "SERVER_PORT", Message: "is required"}
	}
	switch cfg.StorageBackend {
	case "local":
		if cfg.StoragePath == "" {
			return ValidationError{Field: "STORAGE_PATH", Message: "is required for the local storage backend"}
		}
	case "s3":
		if cfg.S3Bucket == "" {
			return ValidationError{Field: "S3_BUCKET", Message: "is required for the s3 storage backend"}
		}
	default:
		return ValidationError{Field: "STORAGE_BACKEND", Message: fmt.Sprintf("unknown backend %q", cfg.StorageBackend)}
	}
	return nil
}
