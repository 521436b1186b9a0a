package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/droplets-system/epoch/cmd/scaffold"
	"github.com/droplets-system/epoch/config"
)

var (
	flagConfigFile string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "epochd",
	Short: "Commit-reveal randomness service",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(viper.New(), cmd.Flags(), flagConfigFile)
		if err != nil {
			return err
		}
		log = scaffold.NewLogger(cfg, os.Stderr)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "path to a config file (yaml, toml or json)")
	config.BindFlags(rootCmd.PersistentFlags())
}
