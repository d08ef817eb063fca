package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Payment     PaymentConfig     `mapstructure:"payment"`
	WhatsApp    WhatsAppConfig    `mapstructure:"whatsapp"`
	Email       EmailConfig       `mapstructure:"email"`
	Certificate CertificateConfig `mapstructure:"certificate"`
	Limits      LimitsConfig      `mapstructure:"limits"`
	Worker      WorkerConfig      `mapstructure:"worker"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// PaymentConfig holds the gateway credentials used to verify incoming
// payment signatures.
type PaymentConfig struct {
	KeySecret string `mapstructure:"key_secret"`
}

// WhatsAppConfig holds the chat gateway credentials and routing numbers.
type WhatsAppConfig struct {
	AccountSID         string `mapstructure:"account_sid"`
	AuthToken          string `mapstructure:"auth_token"`
	APIBaseURL         string `mapstructure:"api_base_url"`
	FromNumber         string `mapstructure:"from_number"`
	StatusCallbackURL  string `mapstructure:"status_callback_url"`
	AdminNumber        string `mapstructure:"admin_number"`
	DefaultCountryCode string `mapstructure:"default_country_code"`
}

// EmailConfig holds the transactional email provider settings.
type EmailConfig struct {
	APIURL       string `mapstructure:"api_url"`
	APIKey       string `mapstructure:"api_key"`
	FromAddress  string `mapstructure:"from_address"`
	AdminAddress string `mapstructure:"admin_address"`
}

// CertificateConfig points at the certificate rendering service.
type CertificateConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Enabled bool          `mapstructure:"enabled"`
}

// LimitsConfig tunes outbound message throttling and callback dedupe.
type LimitsConfig struct {
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	PerMinute     int           `mapstructure:"per_minute"`
	DedupeTTL     time.Duration `mapstructure:"dedupe_ttl"`
}

// WorkerConfig sizes the background task pool.
type WorkerConfig struct {
	PoolSize  int `mapstructure:"pool_size"`
	QueueSize int `mapstructure:"queue_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: TRS_ (Temple Receipt Service).
// Nested keys use underscore: TRS_DATABASE_HOST, TRS_WHATSAPP_AUTH_TOKEN, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "temple_receipts")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "temple-receipt-service")
	v.SetDefault("payment.key_secret", "")
	v.SetDefault("whatsapp.account_sid", "")
	v.SetDefault("whatsapp.auth_token", "")
	v.SetDefault("whatsapp.api_base_url", "https://api.twilio.com")
	v.SetDefault("whatsapp.from_number", "")
	v.SetDefault("whatsapp.status_callback_url", "")
	v.SetDefault("whatsapp.admin_number", "")
	v.SetDefault("whatsapp.default_country_code", "+91")
	v.SetDefault("email.api_url", "")
	v.SetDefault("email.api_key", "")
	v.SetDefault("email.from_address", "")
	v.SetDefault("email.admin_address", "")
	v.SetDefault("certificate.base_url", "")
	v.SetDefault("certificate.timeout", "5s")
	v.SetDefault("certificate.enabled", true)
	v.SetDefault("limits.rate_per_second", 1.0)
	v.SetDefault("limits.burst", 5)
	v.SetDefault("limits.per_minute", 30)
	v.SetDefault("limits.dedupe_ttl", "24h")
	v.SetDefault("worker.pool_size", 4)
	v.SetDefault("worker.queue_size", 256)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: TRS_DATABASE_HOST -> database.host
	v.SetEnvPrefix("TRS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
