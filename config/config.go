// Package config loads the distcalc configuration. Values come from, in
// increasing precedence: built-in defaults, an optional distcalc.json file
// in the working directory, DISTCALC_* environment variables, and command
// line flags bound by the CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultNetwork  = "tcp"
	DefaultAddress  = "localhost:1234"
	DefaultLogFile  = "server.log"
	DefaultLogLevel = "info"
)

type Config struct {
	Network  string `mapstructure:"network"`  // listen/dial network, e.g. "tcp"
	Address  string `mapstructure:"address"`  // listen/dial address, "host:port"
	LogFile  string `mapstructure:"logFile"`  // server event log path, truncated at startup
	LogLevel string `mapstructure:"logLevel"` // console log level: debug, info, warn, error
}

func Default() *Config {
	return &Config{
		Network:  DefaultNetwork,
		Address:  DefaultAddress,
		LogFile:  DefaultLogFile,
		LogLevel: DefaultLogLevel,
	}
}

// New returns a viper instance wired with defaults, the optional config
// file, and the environment. The CLI binds its flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("network", DefaultNetwork)
	v.SetDefault("address", DefaultAddress)
	v.SetDefault("logFile", DefaultLogFile)
	v.SetDefault("logLevel", DefaultLogLevel)

	v.SetConfigName("distcalc")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DISTCALC")
	v.AutomaticEnv()

	return v
}

// Load reads the config file (if any) and unmarshals the merged settings.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Network == "" {
		return fmt.Errorf("network must not be empty")
	}

	if c.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if !strings.Contains(c.Address, ":") {
		return fmt.Errorf("invalid address format: %s", c.Address)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
