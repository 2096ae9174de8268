package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "bakemart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BAKEMART_DB_DSN"
	EnvDBHost = "BAKEMART_DB_HOST"
	EnvDBUser = "BAKEMART_DB_USER"
	EnvDBName = "BAKEMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Gateway      GatewayConfig
	Delivery     DeliveryConfig
	OTP          OTPRateLimitConfig
	Mail         MailConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAKEMART_APP_ENV" required:"true"`
	Port         string `envconfig:"BAKEMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BAKEMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAKEMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAKEMART_DB_DSN"`
	Driver string `envconfig:"BAKEMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAKEMART_DB_HOST"`
	LegacyPort     int    `envconfig:"BAKEMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAKEMART_DB_USER"`
	LegacyPassword string `envconfig:"BAKEMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAKEMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAKEMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAKEMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAKEMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAKEMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAKEMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAKEMART_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"BAKEMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAKEMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAKEMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAKEMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAKEMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAKEMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAKEMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAKEMART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// GatewayConfig holds the shared secret used to recompute online payment
// signatures. The gateway's own transaction processing stays external.
type GatewayConfig struct {
	KeySecret string `envconfig:"BAKEMART_GATEWAY_KEY_SECRET" required:"true"`
}

// DeliveryConfig is the fallback fee policy when a location cannot be
// resolved: free above the threshold, flat fee otherwise. Amounts in paise.
type DeliveryConfig struct {
	FreeAboveSubtotal int64 `envconfig:"BAKEMART_DELIVERY_FREE_ABOVE" default:"50000"`
	FlatFee           int64 `envconfig:"BAKEMART_DELIVERY_FLAT_FEE" default:"5000"`
}

// OTPRateLimitConfig bounds OTP verification attempts per order per window.
type OTPRateLimitConfig struct {
	Window time.Duration `envconfig:"BAKEMART_OTP_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"BAKEMART_OTP_RATE_LIMIT_ATTEMPTS" default:"5"`
}

type MailConfig struct {
	Host        string `envconfig:"BAKEMART_SMTP_HOST"`
	Port        int    `envconfig:"BAKEMART_SMTP_PORT" default:"587"`
	Username    string `envconfig:"BAKEMART_SMTP_USERNAME"`
	Password    string `envconfig:"BAKEMART_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"BAKEMART_SMTP_FROM_EMAIL"`
}

// Enabled reports whether outbound mail is configured at all.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAKEMART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
