package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cashfree environments.
const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Log         LogConfig         `mapstructure:"log"`
	Cashfree    CashfreeConfig    `mapstructure:"cashfree"`
	Payout      PayoutConfig      `mapstructure:"payout"`
	Beneficiary BeneficiaryConfig `mapstructure:"beneficiary"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Reconciler  ReconcilerConfig  `mapstructure:"reconciler"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
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

// JWTConfig configures operator bearer tokens.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// CashfreeConfig holds the payout API endpoints and credentials.
type CashfreeConfig struct {
	Environment   string        `mapstructure:"environment"` // sandbox, production
	SandboxURL    string        `mapstructure:"sandbox_url"`
	ProductionURL string        `mapstructure:"production_url"`
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	APIVersion    string        `mapstructure:"api_version"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// PayoutConfig controls the trigger gate and transfer defaults.
type PayoutConfig struct {
	TriggerStates          []string      `mapstructure:"trigger_states"`
	TransferMode           string        `mapstructure:"transfer_mode"`
	RemarksPrefix          string        `mapstructure:"remarks_prefix"`
	LockTTL                time.Duration `mapstructure:"lock_ttl"`
	OutcomeCacheTTL        time.Duration `mapstructure:"outcome_cache_ttl"`
	RequireVerifiedAccount bool          `mapstructure:"require_verified_account"` // refuse accounts the supplier system has not verified
}

// BeneficiaryConfig holds the contact policy used when registering beneficiaries.
type BeneficiaryConfig struct {
	AllowPlaceholderContact bool   `mapstructure:"allow_placeholder_contact"`
	PlaceholderEmail        string `mapstructure:"placeholder_email"`
	PlaceholderPhone        string `mapstructure:"placeholder_phone"`
	CountryCode             string `mapstructure:"country_code"`
	Address                 string `mapstructure:"address"`
	City                    string `mapstructure:"city"`
	State                   string `mapstructure:"state"`
	PostalCode              string `mapstructure:"postal_code"`
}

type WebhookConfig struct {
	Secret           string        `mapstructure:"secret"` // falls back to cashfree.client_secret
	RequireSignature bool          `mapstructure:"require_signature"`
	Tolerance        time.Duration `mapstructure:"tolerance"`
	RateLimit        int64         `mapstructure:"rate_limit"` // requests per minute per client IP
}

type KafkaConfig struct {
	Brokers      string `mapstructure:"brokers"` // comma separated; empty disables kafka
	TriggerTopic string `mapstructure:"trigger_topic"`
	GroupID      string `mapstructure:"group_id"`
	OutcomeTopic string `mapstructure:"outcome_topic"`
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return strings.TrimSpace(k.Brokers) != ""
}

// BrokerList splits Brokers on commas, dropping blanks.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

type ReconcilerConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	MinAge    time.Duration `mapstructure:"min_age"`
	BatchSize int           `mapstructure:"batch_size"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// WebhookSecret returns the secret used to verify inbound notifications.
func (c *Config) WebhookSecret() string {
	if c.Webhook.Secret != "" {
		return c.Webhook.Secret
	}
	return c.Cashfree.ClientSecret
}

// Validate checks settings that would make the service misbehave at runtime.
// Missing Cashfree credentials are not checked here; they fail per call.
func (c *Config) Validate() error {
	var errs []error
	switch c.Cashfree.Environment {
	case EnvSandbox, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("cashfree.environment must be %q or %q, got %q", EnvSandbox, EnvProduction, c.Cashfree.Environment))
	}
	if c.Cashfree.Timeout <= 0 {
		errs = append(errs, errors.New("cashfree.timeout must be positive"))
	}
	if len(c.Payout.TriggerStates) == 0 {
		errs = append(errs, errors.New("payout.trigger_states must not be empty"))
	}
	if !c.Webhook.RequireSignature && c.Cashfree.Environment == EnvProduction {
		errs = append(errs, errors.New("webhook.require_signature cannot be disabled in production"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: PAYOUT_.
// Nested keys use underscore: PAYOUT_DATABASE_HOST, PAYOUT_CASHFREE_CLIENT_ID, etc.
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
	v.SetDefault("database.dbname", "supplier_payouts")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "supplier-payout-gateway")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("cashfree.environment", EnvSandbox)
	v.SetDefault("cashfree.sandbox_url", "https://sandbox.cashfree.com/payout")
	v.SetDefault("cashfree.production_url", "https://api.cashfree.com/payout")
	v.SetDefault("cashfree.client_id", "")
	v.SetDefault("cashfree.client_secret", "")
	v.SetDefault("cashfree.api_version", "2024-01-01")
	v.SetDefault("cashfree.timeout", "15s")

	v.SetDefault("payout.trigger_states", []string{"queued", "queue for payout", "queued for payout"})
	v.SetDefault("payout.transfer_mode", "banktransfer")
	v.SetDefault("payout.remarks_prefix", "TK")
	v.SetDefault("payout.lock_ttl", "2m")
	v.SetDefault("payout.outcome_cache_ttl", "24h")
	v.SetDefault("payout.require_verified_account", true)

	v.SetDefault("beneficiary.allow_placeholder_contact", true)
	v.SetDefault("beneficiary.placeholder_email", "default@example.com")
	v.SetDefault("beneficiary.placeholder_phone", "9999999999")
	v.SetDefault("beneficiary.country_code", "+91")
	v.SetDefault("beneficiary.address", "India")
	v.SetDefault("beneficiary.city", "Delhi")
	v.SetDefault("beneficiary.state", "Delhi")
	v.SetDefault("beneficiary.postal_code", "110001")

	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.require_signature", true)
	v.SetDefault("webhook.tolerance", "5m")
	v.SetDefault("webhook.rate_limit", 600)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.trigger_topic", "payout.trigger-events")
	v.SetDefault("kafka.group_id", "supplier-payout-gateway")
	v.SetDefault("kafka.outcome_topic", "payout.outcomes")

	v.SetDefault("reconciler.enabled", true)
	v.SetDefault("reconciler.interval", "1h")
	v.SetDefault("reconciler.min_age", "10m")
	v.SetDefault("reconciler.batch_size", 100)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "supplier-payout-gateway")
	v.SetDefault("tracing.otlp_endpoint", "localhost:4317")
	v.SetDefault("tracing.sample_ratio", 1.0)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: PAYOUT_DATABASE_HOST -> database.host
	v.SetEnvPrefix("PAYOUT")
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
