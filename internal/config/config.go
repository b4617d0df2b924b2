package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string `mapstructure:"port"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	StateDSN      string `mapstructure:"state_dsn"`
	LogFile       string `mapstructure:"log_file"`

	// Remote managed backend (auth + data + storage).
	BackendURL    string `mapstructure:"backend_url"`
	BackendAPIKey string `mapstructure:"backend_api_key"`
	StorageBucket string `mapstructure:"storage_bucket"`

	// Payment edge endpoints live under the backend's functions host.
	PaymentInitURL   string `mapstructure:"payment_init_url"`
	PaymentVerifyURL string `mapstructure:"payment_verify_url"`

	// SealKey protects persisted tokens at rest (32 bytes, hex or raw).
	SealKey string `mapstructure:"seal_key"`
}

// Load reads the config file (when given), environment variables and
// defaults, in that order of increasing precedence for env over file.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("delice")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("delice")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("state_dsn", "delice-state.db")
	v.SetDefault("log_file", "./delice.log")

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine; env + defaults carry the day.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("backend_url is required")
	}
	if cfg.PaymentInitURL == "" {
		cfg.PaymentInitURL = cfg.BackendURL + "/functions/v1/paystack-init"
	}
	if cfg.PaymentVerifyURL == "" {
		cfg.PaymentVerifyURL = cfg.BackendURL + "/functions/v1/paystack-verify"
	}
	return cfg, nil
}

// CallbackURL is the route the hosted payment page redirects back to.
func (c Config) CallbackURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/payments/callback"
}
