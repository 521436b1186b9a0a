package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/droplets-system/epoch/cmd/scaffold"
	"github.com/droplets-system/epoch/engine/access/rest/models"
)

var flagHeight uint64

func init() {
	rootCmd.AddCommand(readEpochCmd)

	readEpochCmd.Flags().Uint64Var(&flagHeight, "height", 0, "height of the epoch (default: the current epoch)")
}

var readEpochCmd = &cobra.Command{
	Use:   "read-epoch",
	Short: "print an epoch record from the database of a stopped service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		node, err := scaffold.NewNode(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer node.Close()

		ctx := cmd.Context()
		height := flagHeight
		if height == 0 {
			height, err = node.Engine.CurrentEpochHeight(ctx)
			if err != nil {
				return fmt.Errorf("could not compute current epoch: %w", err)
			}
		}

		epoch, err := node.Engine.Epoch(ctx, height)
		if err != nil {
			return fmt.Errorf("could not read epoch %d: %w", height, err)
		}
		state, err := node.Engine.State(ctx)
		if err != nil {
			return fmt.Errorf("could not read state: %w", err)
		}

		var response models.Epoch
		response.Build(epoch, state)
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	},
}
