/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/suderio/shieldwall/internal/data"
	"github.com/suderio/shieldwall/internal/logger"
	"github.com/suderio/shieldwall/internal/rules"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shieldwall",
	Short: "Hold the shield wall against waves of raiders",
	Long: `shieldwall is a turn-based dice battle. Roll rune dice, lock the ones
you want, spend them on actions and hold the line with your four
shield-brothers until every wave is broken.

Battles are journaled under battles_dir/<battle>/log.jsonl and can be
replayed with 'battle show'.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(viper.GetString("log_level"), viper.GetString("log_format"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shieldwall.yaml)")
	rootCmd.PersistentFlags().String("log_level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log_format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("data_dir", "", "Directory searched for catalog files before the built-in defaults")
	rootCmd.PersistentFlags().String("battles_dir", "./battles", "Directory holding battle journals")
	rootCmd.PersistentFlags().Int64("seed", 0, "Random seed (0 picks one from the clock)")

	for _, name := range []string{"log_level", "log_format", "data_dir", "battles_dir", "seed"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}
	viper.SetDefault("settle_delay", 400*time.Millisecond)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".shieldwall")
	}

	viper.SetEnvPrefix("shieldwall")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile == "" {
		// ./shieldwall.yaml is accepted next to the binary as well
		viper.SetConfigName("shieldwall")
		_ = viper.ReadInConfig()
	}
}

// loadCatalog reads the catalog from data_dir, falling back to the built-in data.
func loadCatalog() (*data.Catalog, error) {
	var dirs []string
	if dir := viper.GetString("data_dir"); dir != "" {
		dirs = append(dirs, dir)
	}
	return data.NewLoader(dirs).LoadCatalog()
}

// loadGate compiles the availability rules of every action in catalog.
func loadGate(catalog *data.Catalog) (*rules.Gate, error) {
	gate, err := rules.NewGate()
	if err != nil {
		return nil, err
	}
	if err := gate.Validate(catalog.Actions); err != nil {
		return nil, err
	}
	return gate, nil
}
