package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied to every environment variable the service reads.
const EnvPrefix = "SARISTORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	Mail         MailConfig
	Gemini       GeminiConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SARISTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"SARISTORE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SARISTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SARISTORE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"SARISTORE_CORS_ORIGINS" default:"http://localhost:3000"`
}

// CORSOriginList splits the configured comma-separated origins.
func (a AppConfig) CORSOriginList() []string {
	parts := strings.Split(a.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SARISTORE_DB_DSN" required:"true"`
	Driver string `envconfig:"SARISTORE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"SARISTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SARISTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SARISTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SARISTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SARISTORE_REDIS_URL"`
	Address      string        `envconfig:"SARISTORE_REDIS_ADDR"`
	Password     string        `envconfig:"SARISTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SARISTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SARISTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SARISTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SARISTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SARISTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SARISTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SARISTORE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SARISTORE_JWT_ISSUER" default:"saristore"`
	ExpirationMinutes      int    `envconfig:"SARISTORE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SARISTORE_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SARISTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SARISTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SARISTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SARISTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SARISTORE_ARGON_KEY_LEN" default:"32"`
}

// CartConfig controls guest cart persistence in Redis.
type CartConfig struct {
	TTL time.Duration `envconfig:"SARISTORE_CART_TTL" default:"60m"`
}

type MailConfig struct {
	SMTPHost    string `envconfig:"SARISTORE_SMTP_HOST"`
	SMTPPort    int    `envconfig:"SARISTORE_SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"SARISTORE_SMTP_USER"`
	SMTPPass    string `envconfig:"SARISTORE_SMTP_PASS"`
	SenderName  string `envconfig:"SARISTORE_MAIL_SENDER_NAME" default:"SariStore"`
	SenderEmail string `envconfig:"SARISTORE_MAIL_SENDER_EMAIL"`
}

// GeminiConfig carries the generative API credential pool. Keys is a
// comma-separated list; the gateway rotates through them in order.
type GeminiConfig struct {
	Keys    string        `envconfig:"SARISTORE_GEMINI_API_KEYS"`
	Model   string        `envconfig:"SARISTORE_GEMINI_MODEL" default:"gemini-1.5-flash"`
	BaseURL string        `envconfig:"SARISTORE_GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `envconfig:"SARISTORE_GEMINI_TIMEOUT" default:"30s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SARISTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SARISTORE_AUTO_MIGRATE" default:"false"`
}
