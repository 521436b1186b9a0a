package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/droplets-system/epoch/cmd/scaffold"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the REST API, admin endpoint and metrics server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx)
	},
}

func run(ctx context.Context) error {
	node, err := scaffold.NewNode(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := node.Close(); err != nil {
			log.Error().Err(err).Msg("error closing node")
		}
	}()

	err = node.Run(ctx)
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("epochd stopped")
		return err
	}
	log.Info().Msg("epochd stopped")
	return nil
}
