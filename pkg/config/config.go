package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Google  GoogleConfig
	Sheets  SheetsConfig
	Plan    PlanConfig
	Redis   RedisConfig
	GCS     GCSConfig
	Intake  IntakeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Google.ensureCredentials(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KANDANG_APP_ENV" required:"true"`
	Port         string `envconfig:"KANDANG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KANDANG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KANDANG_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"KANDANG_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type GoogleConfig struct {
	CredentialsJSON string `envconfig:"KANDANG_GOOGLE_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"KANDANG_GOOGLE_APPLICATION_CREDENTIALS"`
}

func (g GoogleConfig) ensureCredentials() error {
	if g.CredentialsJSON == "" && g.CredentialsFile == "" {
		return fmt.Errorf("either %s or %s is required", EnvGoogleCredentialsJSON, EnvGoogleCredentialsFile)
	}
	return nil
}

type SheetsConfig struct {
	SpreadsheetID string        `envconfig:"KANDANG_SPREADSHEET_ID" required:"true"`
	InboundRange  string        `envconfig:"KANDANG_INBOUND_RANGE" default:"Form Masuk"`
	OutboundRange string        `envconfig:"KANDANG_OUTBOUND_RANGE" default:"Form Keluar"`
	RetryAttempts int           `envconfig:"KANDANG_LEDGER_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"KANDANG_LEDGER_RETRY_DELAY" default:"2s"`
	CallTimeout   time.Duration `envconfig:"KANDANG_LEDGER_CALL_TIMEOUT" default:"30s"`
	ReadCacheTTL  time.Duration `envconfig:"KANDANG_LEDGER_READ_CACHE_TTL" default:"30s"`
}

type PlanConfig struct {
	Path string `envconfig:"KANDANG_ORDER_PLAN_PATH" default:"config/orders.json"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KANDANG_REDIS_URL"`
	Address      string        `envconfig:"KANDANG_REDIS_ADDR"`
	Password     string        `envconfig:"KANDANG_REDIS_PASSWORD"`
	DB           int           `envconfig:"KANDANG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KANDANG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KANDANG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KANDANG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KANDANG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KANDANG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a cache backend was configured at all; the read
// cache is optional and the service runs without it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type GCSConfig struct {
	BucketName string `envconfig:"KANDANG_GCS_BUCKET_NAME"`
}

// Enabled reports whether receipt storage is configured.
func (g GCSConfig) Enabled() bool {
	return g.BucketName != ""
}

type IntakeConfig struct {
	Timezone string `envconfig:"KANDANG_TIMEZONE" default:"Asia/Jakarta"`
}

// Location resolves the configured intake timezone, falling back to UTC on
// bad input so submissions keep working.
func (i IntakeConfig) Location() *time.Location {
	loc, err := time.LoadLocation(i.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
