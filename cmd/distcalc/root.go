package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acortes/distributed_calculator/config"
)

// v carries the merged configuration: defaults, optional distcalc.json,
// DISTCALC_* environment, and the flags bound below.
var v *viper.Viper = config.New()

var rootCmd = &cobra.Command{
	Use:   "distcalc",
	Short: "distcalc - distributed arithmetic accumulator",
	Long: `distcalc runs a server holding a single shared 8-bit register that
clients mutate through a line-oriented wire protocol, and the matching
replay and benchmark clients.`,
}

func init() {
	rootCmd.PersistentFlags().String("network", config.DefaultNetwork, "network to listen/dial on")
	rootCmd.PersistentFlags().String("addr", config.DefaultAddress, "server address (host:port)")
	_ = v.BindPFlag("network", rootCmd.PersistentFlags().Lookup("network"))
	_ = v.BindPFlag("address", rootCmd.PersistentFlags().Lookup("addr"))
}

// loadConfig resolves and validates the configuration and applies the
// console log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)

	return cfg, nil
}
