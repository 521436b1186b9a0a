package epochs

import (
	"context"
	"fmt"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
	"github.com/droplets-system/epoch/engine/access/rest/models"
)

var (
	_ commands.AdminCommand = (*ReadEpochCommand)(nil)
	_ commands.AdminCommand = (*ReadStateCommand)(nil)
)

type readEpochRequest struct {
	Height uint64 `mapstructure:"height"`
}

// ReadEpochCommand returns one epoch record. Without a height it reads the
// current epoch.
type ReadEpochCommand struct {
	engine Engine
}

func NewReadEpochCommand(engine Engine) *ReadEpochCommand {
	return &ReadEpochCommand{engine: engine}
}

func (c *ReadEpochCommand) Validator(req *admin.CommandRequest) error {
	if req.Data == nil {
		req.ValidatorData = uint64(0)
		return nil
	}

	var data readEpochRequest
	err := commands.DecodeData(req, &data)
	if err != nil {
		return err
	}
	if data.Height == 0 {
		return admin.NewInvalidAdminReqParameterError("height", "must be at least 1", data.Height)
	}
	req.ValidatorData = data.Height
	return nil
}

func (c *ReadEpochCommand) Handler(ctx context.Context, req *admin.CommandRequest) (interface{}, error) {
	height := req.ValidatorData.(uint64)
	if height == 0 {
		current, err := c.engine.CurrentEpochHeight(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not compute current epoch: %w", err)
		}
		height = current
	}

	epoch, err := c.engine.Epoch(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("could not read epoch %d: %w", height, err)
	}
	state, err := c.engine.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read state: %w", err)
	}

	var response models.Epoch
	response.Build(epoch, state)
	return commands.ConvertToMap(response)
}

// ReadStateCommand returns the system state with the current epoch height
// and the registered oracles.
type ReadStateCommand struct {
	engine Engine
}

func NewReadStateCommand(engine Engine) *ReadStateCommand {
	return &ReadStateCommand{engine: engine}
}

func (c *ReadStateCommand) Validator(_ *admin.CommandRequest) error {
	return nil
}

func (c *ReadStateCommand) Handler(ctx context.Context, _ *admin.CommandRequest) (interface{}, error) {
	output, err := stateResponse(ctx, c.engine)
	if err != nil {
		return nil, err
	}
	height, err := c.engine.CurrentEpochHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not compute current epoch: %w", err)
	}
	oracles, err := oracleNames(ctx, c.engine)
	if err != nil {
		return nil, err
	}

	output["current_epoch"] = height
	output["oracles"] = oracles
	return output, nil
}

func stateResponse(ctx context.Context, engine Engine) (map[string]interface{}, error) {
	state, err := engine.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read state: %w", err)
	}
	var response models.State
	response.Build(state)
	return commands.ConvertToMap(response)
}
