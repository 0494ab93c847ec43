// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Node      NodeConfig      `mapstructure:"node"`
	Watchdog  WatchdogConfig  `mapstructure:"watchdog"`
	Alert     AlertConfig     `mapstructure:"alert"`
	Server    ServerConfig    `mapstructure:"server"`
	Supply    SupplyConfig    `mapstructure:"supply"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	HealthPort  int    `mapstructure:"health_port"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// NodeConfig describes how to reach the node's RPC endpoint.
type NodeConfig struct {
	Host           string        `mapstructure:"host"`
	RPCPort        int           `mapstructure:"rpc_port"`
	Network        string        `mapstructure:"network"`
	DataDir        string        `mapstructure:"data_dir"` // overrides the cookie hint when set
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// URL returns the JSON-RPC endpoint.
func (c NodeConfig) URL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.RPCPort)
}

// WatchdogConfig holds supervisor intervals.
type WatchdogConfig struct {
	RPCInterval   time.Duration `mapstructure:"rpc_interval"`
	ChainInterval time.Duration `mapstructure:"chain_interval"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
}

// AlertConfig holds the SMTP settings for admin alerts. Alerting is
// disabled when Host, From or Admin is empty.
type AlertConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	SMTPUser string `mapstructure:"smtp_user"`
	SMTPPass string `mapstructure:"smtp_pass"`
	SMTPMode string `mapstructure:"smtp_mode"` // smtps, starttls, opportunistic, plaintext
	From     string `mapstructure:"from_email"`
	Admin    string `mapstructure:"admin_email"`
}

// Enabled reports whether enough settings are present to send mail.
func (c AlertConfig) Enabled() bool {
	return c.SMTPHost != "" && c.From != "" && c.Admin != ""
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
}

// SupplyConfig holds the emission schedule constants.
type SupplyConfig struct {
	PremineCoins        int64  `mapstructure:"premine_coins"`
	GenesisSubsidyCoins int64  `mapstructure:"genesis_subsidy_coins"`
	BlocksPerGeneration uint64 `mapstructure:"blocks_per_generation"`
	RebootOffset        uint64 `mapstructure:"reboot_offset"`
	BurnedCoins         string `mapstructure:"burned_coins"`
}

// BurnedDecimal parses BurnedCoins.
func (c SupplyConfig) BurnedDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(c.BurnedCoins)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"` // zipkin, otlp-grpc, otlp-http, console, none
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"` // k1=v1,k2=v2
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("EXPLORER")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "EXPLORER_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "EXPLORER_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "EXPLORER_LOG_LEVEL", "LOG_LEVEL")

	// Node
	v.BindEnv("node.host", "EXPLORER_NODE_HOST")
	v.BindEnv("node.rpc_port", "EXPLORER_NODE_RPC_PORT", "NEPTUNE_RPC_PORT")
	v.BindEnv("node.network", "EXPLORER_NODE_NETWORK")
	v.BindEnv("node.data_dir", "EXPLORER_NODE_DATA_DIR")

	// Alert
	v.BindEnv("alert.smtp_host", "EXPLORER_SMTP_HOST", "SMTP_HOST")
	v.BindEnv("alert.smtp_port", "EXPLORER_SMTP_PORT", "SMTP_PORT")
	v.BindEnv("alert.smtp_user", "EXPLORER_SMTP_USER", "SMTP_USER")
	v.BindEnv("alert.smtp_pass", "EXPLORER_SMTP_PASS", "SMTP_PASS")
	v.BindEnv("alert.smtp_mode", "EXPLORER_SMTP_MODE", "SMTP_MODE")
	v.BindEnv("alert.from_email", "EXPLORER_SMTP_FROM", "SMTP_FROM_EMAIL")
	v.BindEnv("alert.admin_email", "EXPLORER_ADMIN_EMAIL", "ADMIN_EMAIL")

	// Server
	v.BindEnv("server.port", "EXPLORER_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "EXPLORER_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "EXPLORER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.trace_provider", "EXPLORER_OTEL_PROVIDER")
	v.BindEnv("telemetry.otlp_endpoint", "EXPLORER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "EXPLORER_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "chain-explorer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.health_port", 8081)

	// Node defaults
	v.SetDefault("node.host", "127.0.0.1")
	v.SetDefault("node.rpc_port", 9799)
	v.SetDefault("node.network", "main")
	v.SetDefault("node.request_timeout", "10s")

	// Watchdog defaults
	v.SetDefault("watchdog.rpc_interval", "60s")
	v.SetDefault("watchdog.chain_interval", "3600s")
	v.SetDefault("watchdog.probe_timeout", "10s")

	// Alert defaults
	v.SetDefault("alert.smtp_port", 465)
	v.SetDefault("alert.smtp_mode", "smtps")

	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.rate_limit_per_minute", 600)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	// Supply defaults
	v.SetDefault("supply.premine_coins", 831_600)
	v.SetDefault("supply.genesis_subsidy_coins", 128)
	v.SetDefault("supply.blocks_per_generation", 160_815)
	v.SetDefault("supply.reboot_offset", 21_310)
	v.SetDefault("supply.burned_coins", "1526642.2")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "chain-explorer")
	v.SetDefault("telemetry.trace_provider", "none")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Node.Host == "" {
		return fmt.Errorf("node.host is required")
	}
	if c.Node.RPCPort <= 0 || c.Node.RPCPort > 65535 {
		return fmt.Errorf("invalid node.rpc_port: %d", c.Node.RPCPort)
	}
	if _, err := url.Parse(c.Node.URL()); err != nil {
		return fmt.Errorf("invalid node url: %w", err)
	}
	switch c.Node.Network {
	case "main", "testnet", "regtest":
	default:
		return fmt.Errorf("invalid node.network: %s", c.Node.Network)
	}
	if c.Watchdog.RPCInterval <= 0 || c.Watchdog.ChainInterval <= 0 {
		return fmt.Errorf("watchdog intervals must be positive")
	}
	if c.Watchdog.ProbeTimeout <= 0 {
		return fmt.Errorf("watchdog.probe_timeout must be positive")
	}
	switch c.Alert.SMTPMode {
	case "smtps", "starttls", "opportunistic", "plaintext":
	default:
		return fmt.Errorf("invalid alert.smtp_mode: %s", c.Alert.SMTPMode)
	}
	if c.Supply.BlocksPerGeneration == 0 {
		return fmt.Errorf("supply.blocks_per_generation must be positive")
	}
	if _, err := c.Supply.BurnedDecimal(); err != nil {
		return fmt.Errorf("invalid supply.burned_coins: %w", err)
	}
	return nil
}
