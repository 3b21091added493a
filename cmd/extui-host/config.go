package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/SanjoDeundiak/extui/pkg/lib/host"
	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

const (
	defaultAddress      = "localhost:50051"
	defaultIdleInterval = 50 * time.Millisecond
	envPrefix           = "EXTUI"
)

// Config holds the daemon configuration.
type Config struct {
	Address        string    `mapstructure:"address"`
	MetricsAddress string    `mapstructure:"metrics_address"`
	LogLevel       string    `mapstructure:"log_level"`
	TLS            TLSConfig `mapstructure:"tls"`
	UI             UIConfig  `mapstructure:"ui"`
	// OSCPort is delivered to the bridge at startup and whenever the config
	// file changes. Negative means not configured.
	OSCPort int `mapstructure:"osc_port"`
}

// TLSConfig holds PEM encoded material for mutual TLS.
type TLSConfig struct {
	Insecure bool   `mapstructure:"insecure"`
	Key      string `mapstructure:"key"`
	Cert     string `mapstructure:"cert"`
	CA       string `mapstructure:"ca"`
}

// UIConfig describes the external UI and how it is supervised.
type UIConfig struct {
	Command          string        `mapstructure:"command"`
	Descriptor       string        `mapstructure:"descriptor"`
	Backend          string        `mapstructure:"backend"`
	TerminateTimeout time.Duration `mapstructure:"terminate_timeout"`
	IdleInterval     time.Duration `mapstructure:"idle_interval"`
}

// newViper returns a viper instance with defaults and EXTUI_* environment
// overrides. configFile may be empty.
func newViper(configFile string) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees environment overrides.
	v.SetDefault("address", defaultAddress)
	v.SetDefault("metrics_address", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("tls.insecure", false)
	v.SetDefault("tls.key", "")
	v.SetDefault("tls.cert", "")
	v.SetDefault("tls.ca", "")
	v.SetDefault("ui.command", launch.DefaultCommand)
	v.SetDefault("ui.descriptor", host.URIPrefix+"ui1_ui")
	v.SetDefault("ui.backend", string(runner.BackendExec))
	v.SetDefault("ui.terminate_timeout", runner.DefaultTerminateTimeout)
	v.SetDefault("ui.idle_interval", defaultIdleInterval)
	v.SetDefault("osc_port", -1)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("extui")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/extui")
		v.AddConfigPath(".")
	}
	return v
}

// loadConfig reads the config file, if any, and validates the result.
func loadConfig(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return errors.New("address must not be empty")
	}
	if c.OSCPort > math.MaxUint16 {
		return fmt.Errorf("osc_port %d out of range", c.OSCPort)
	}
	if _, ok := host.LookupDescriptor(c.UI.Descriptor); !ok {
		return fmt.Errorf("unknown ui descriptor %q", c.UI.Descriptor)
	}
	if _, err := runner.ParseBackend(c.UI.Backend); err != nil {
		return err
	}
	if c.UI.IdleInterval <= 0 {
		return fmt.Errorf("ui.idle_interval must be positive, got %v", c.UI.IdleInterval)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if !c.TLS.Insecure && (c.TLS.Key == "" || c.TLS.Cert == "" || c.TLS.CA == "") {
		return fmt.Errorf("missing TLS material; set tls.key, tls.cert and tls.ca (%s_TLS_KEY, %s_TLS_CERT, %s_TLS_CA) or tls.insecure",
			envPrefix, envPrefix, envPrefix)
	}
	return nil
}

// oscPort returns the configured port, if any.
func (c Config) oscPort() (uint16, bool) {
	if c.OSCPort < 0 || c.OSCPort > math.MaxUint16 {
		return 0, false
	}
	return uint16(c.OSCPort), true
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
