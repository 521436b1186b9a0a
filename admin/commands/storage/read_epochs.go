package storage

import (
	"context"
	"fmt"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
	"github.com/droplets-system/epoch/model/drops"
)

// maxEpochRange bounds the number of heights a single request scans.
const maxEpochRange = 1000

// EpochReader reads epoch records.
type EpochReader interface {
	Epochs(ctx context.Context, from, to uint64) ([]*drops.Epoch, error)
}

var _ commands.AdminCommand = (*ReadRangeEpochsCommand)(nil)

type heightRange struct {
	StartHeight uint64 `mapstructure:"start-height"`
	EndHeight   uint64 `mapstructure:"end-height"`
}

// ReadRangeEpochsCommand returns the epoch records in a height range.
type ReadRangeEpochsCommand struct {
	epochs EpochReader
}

func NewReadRangeEpochsCommand(epochs EpochReader) commands.AdminCommand {
	return &ReadRangeEpochsCommand{
		epochs: epochs,
	}
}

func (c *ReadRangeEpochsCommand) Handler(ctx context.Context, req *admin.CommandRequest) (interface{}, error) {
	data := req.ValidatorData.(*heightRange)

	epochs, err := c.epochs.Epochs(ctx, data.StartHeight, data.EndHeight)
	if err != nil {
		return nil, fmt.Errorf("could not read epochs: %w", err)
	}
	return commands.ConvertToInterfaceList(epochs)
}

func (c *ReadRangeEpochsCommand) Validator(req *admin.CommandRequest) error {
	var data heightRange
	err := commands.DecodeData(req, &data)
	if err != nil {
		return err
	}

	if data.StartHeight == 0 {
		return admin.NewInvalidAdminReqParameterError("start-height", "must be at least 1", data.StartHeight)
	}
	if data.EndHeight < data.StartHeight {
		return admin.NewInvalidAdminReqParameterError("end-height", "must not be below start-height", data.EndHeight)
	}
	if data.EndHeight-data.StartHeight >= maxEpochRange {
		return admin.NewInvalidAdminReqParameterError("end-height",
			fmt.Sprintf("at most %d epochs can be read at once", maxEpochRange), data.EndHeight)
	}

	req.ValidatorData = &data
	return nil
}
