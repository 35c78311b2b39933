package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RateLimitPerMinute caps unauthenticated auth-endpoint requests per
	// client. Zero disables rate limiting.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// The token secret is supplied via process configuration and injected
// where needed; it is never read from a process-global.
type AuthConfig struct {
	TokenSecret string `mapstructure:"token_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes bounds a token's cryptographic validity. Zero
	// means tokens never expire on their own and only revocation ends a
	// session.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gte=0"`
}

// UploadConfig contains limits for avatar uploads.
type UploadConfig struct {
	// MaxAvatarBytes caps the accepted avatar size. Defaults to 1 MB.
	MaxAvatarBytes int64 `mapstructure:"max_avatar_bytes" validate:"gte=0"`
}
