/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/suderio/dragondice/internal/logger"
	"github.com/suderio/dragondice/internal/persistence"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ddice",
	Short: "Companion engine for Dragon Dice games",
	Long: `ddice keeps an authoritative record of a Dragon Dice game while the
players roll real dice at the table. It sequences the turn, validates the
rolls and decisions the players report, and applies the outcomes: damage,
kills, promotions, terrain captures and dragon attacks.

Create a game from a setup file with 'ddice new', then drive it
interactively with 'ddice play'.`,
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dragondice.yaml)")
	rootCmd.PersistentFlags().String("games_dir", "", "directory holding saved game snapshots")
	rootCmd.PersistentFlags().String("redis_url", "", "redis URL for snapshot storage (overrides games_dir)")
	rootCmd.PersistentFlags().String("log_level", "", "log level: debug, info, warn or error")

	viper.BindPFlag("games_dir", rootCmd.PersistentFlags().Lookup("games_dir"))
	viper.BindPFlag("redis_url", rootCmd.PersistentFlags().Lookup("redis_url"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".dragondice" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dragondice")
	}

	viper.SetDefault("games_dir", "./games")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the resolved configuration.
func newLogger() *slog.Logger {
	return logger.Setup(viper.GetString("log_level"), viper.GetString("log_format"))
}

// openStore builds the snapshot store the configuration points at: Redis
// when redis_url is set, the games directory otherwise.
func openStore(log *slog.Logger) (persistence.SnapshotStore, error) {
	return persistence.Open(viper.GetString("redis_url"), viper.GetString("games_dir"), log)
}

// dataDirs resolves the reference data hierarchy. A per-command --data_dir
// flag value goes first so it wins over the configured directories.
func dataDirs(flagDir string) []string {
	dirs := viper.GetStringSlice("data_dirs")
	if len(dirs) == 0 {
		dirs = []string{"./data"}
	}
	if flagDir != "" {
		dirs = append([]string{flagDir}, dirs...)
	}
	return dirs
}
