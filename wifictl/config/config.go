package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/asnowfix/wifictl/internal/simulator"
	"github.com/asnowfix/wifictl/wifictl/options"
)

// Config is the merged configuration: flags, then WIFICTL_* environment,
// then wifictl.yaml.
type Config struct {
	Device       string        `mapstructure:"device" yaml:"device,omitempty" json:"device,omitempty"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" json:"poll_interval"`
	RateLimit    time.Duration `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	Simulator    Simulator     `mapstructure:"simulator" yaml:"simulator" json:"simulator"`
}

type Simulator struct {
	Listen      string              `mapstructure:"listen" yaml:"listen" json:"listen"`
	HostSymname string              `mapstructure:"host_symname" yaml:"host_symname" json:"host_symname"`
	JoinDelay   time.Duration       `mapstructure:"join_delay" yaml:"join_delay" json:"join_delay"`
	Connected   string              `mapstructure:"connected" yaml:"connected,omitempty" json:"connected,omitempty"`
	Profiles    []string            `mapstructure:"profiles" yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Networks    []simulator.Network `mapstructure:"networks" yaml:"networks,omitempty" json:"networks,omitempty"`
}

// New returns a viper instance with the defaults and the environment bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("wifictl")
	v.SetConfigType("yaml")
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		v.AddConfigPath(filepath.Join(dir, "wifictl"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "wifictl"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("WIFICTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("device", "")
	v.SetDefault("timeout", options.DEVICE_DEFAULT_TIMEOUT)
	v.SetDefault("poll_interval", options.POLL_DEFAULT_INTERVAL)
	v.SetDefault("rate_limit", options.RATE_LIMIT_DEFAULT)
	v.SetDefault("simulator.listen", options.SIMULATOR_DEFAULT_LISTEN)
	v.SetDefault("simulator.host_symname", "wifictl-sim")
	v.SetDefault("simulator.join_delay", simulator.DefaultJoinDelay)
	return v
}

// Read loads file, or wifictl.yaml from the search path when file is empty.
// A missing wifictl.yaml is not an error.
func Read(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	}
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && file == "" && errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %v", cfg.PollInterval)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate_limit must not be negative, got %v", cfg.RateLimit)
	}
	return &cfg, nil
}
