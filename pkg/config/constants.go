package config

// Environment variable names referenced outside the envconfig tags
// (tests, operational docs).
const (
	EnvAppEnv     = "SARISTORE_APP_ENV"
	EnvPort       = "SARISTORE_APP_PORT"
	EnvDBDSN      = "SARISTORE_DB_DSN"
	EnvRedisURL   = "SARISTORE_REDIS_URL"
	EnvJWTSecret  = "SARISTORE_JWT_SECRET"
	EnvGeminiKeys = "SARISTORE_GEMINI_API_KEYS"
)
