package epochs

import (
	"context"
	"fmt"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
	"github.com/droplets-system/epoch/engine/access/rest/models"
)

var (
	_ commands.AdminCommand = (*InitCommand)(nil)
	_ commands.AdminCommand = (*SetEnabledCommand)(nil)
	_ commands.AdminCommand = (*SetDurationCommand)(nil)
	_ commands.AdminCommand = (*AdvanceEpochCommand)(nil)
	_ commands.AdminCommand = (*WipeCommand)(nil)
)

// InitCommand aligns genesis, enables the system and creates epoch 1.
type InitCommand struct {
	engine Engine
}

func NewInitCommand(engine Engine) *InitCommand {
	return &InitCommand{engine: engine}
}

func (c *InitCommand) Validator(req *admin.CommandRequest) error {
	if req.Data != nil {
		return admin.NewInvalidAdminReqFormatError("init takes no data")
	}
	return nil
}

func (c *InitCommand) Handler(ctx context.Context, _ *admin.CommandRequest) (interface{}, error) {
	epoch, err := c.engine.InitializeProtocol(asService(ctx, c.engine))
	if err != nil {
		return nil, fmt.Errorf("could not initialize protocol: %w", err)
	}
	state, err := c.engine.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read state: %w", err)
	}

	var response models.Epoch
	response.Build(epoch, state)
	return commands.ConvertToMap(response)
}

type setEnabledRequest struct {
	Enabled *bool `mapstructure:"enabled"`
}

// SetEnabledCommand turns the system gate on or off.
type SetEnabledCommand struct {
	engine Engine
}

func NewSetEnabledCommand(engine Engine) *SetEnabledCommand {
	return &SetEnabledCommand{engine: engine}
}

func (c *SetEnabledCommand) Validator(req *admin.CommandRequest) error {
	if enabled, ok := req.Data.(bool); ok {
		req.ValidatorData = enabled
		return nil
	}

	var data setEnabledRequest
	err := commands.DecodeData(req, &data)
	if err != nil {
		return err
	}
	if data.Enabled == nil {
		return admin.NewInvalidAdminReqParameterError("enabled", "must be set", nil)
	}
	req.ValidatorData = *data.Enabled
	return nil
}

func (c *SetEnabledCommand) Handler(ctx context.Context, req *admin.CommandRequest) (interface{}, error) {
	enabled := req.ValidatorData.(bool)
	err := c.engine.SetEnabled(asService(ctx, c.engine), enabled)
	if err != nil {
		return nil, fmt.Errorf("could not set enabled: %w", err)
	}
	return stateResponse(ctx, c.engine)
}

type setDurationRequest struct {
	Duration uint32 `mapstructure:"duration"`
}

// SetDurationCommand changes the epoch length. Genesis is kept, so the
// current height moves with the new duration.
type SetDurationCommand struct {
	engine Engine
}

func NewSetDurationCommand(engine Engine) *SetDurationCommand {
	return &SetDurationCommand{engine: engine}
}

func (c *SetDurationCommand) Validator(req *admin.CommandRequest) error {
	var data setDurationRequest
	err := commands.DecodeData(req, &data)
	if err != nil {
		return err
	}
	if data.Duration == 0 {
		return admin.NewInvalidAdminReqParameterError("duration", "must be a positive number of seconds", data.Duration)
	}
	req.ValidatorData = data.Duration
	return nil
}

func (c *SetDurationCommand) Handler(ctx context.Context, req *admin.CommandRequest) (interface{}, error) {
	duration := req.ValidatorData.(uint32)
	err := c.engine.SetDuration(asService(ctx, c.engine), duration)
	if err != nil {
		return nil, fmt.Errorf("could not set duration: %w", err)
	}
	return stateResponse(ctx, c.engine)
}

// AdvanceEpochCommand creates the record of the current epoch if it is missing.
type AdvanceEpochCommand struct {
	engine Engine
}

func NewAdvanceEpochCommand(engine Engine) *AdvanceEpochCommand {
	return &AdvanceEpochCommand{engine: engine}
}

func (c *AdvanceEpochCommand) Validator(_ *admin.CommandRequest) error {
	return nil
}

func (c *AdvanceEpochCommand) Handler(ctx context.Context, _ *admin.CommandRequest) (interface{}, error) {
	epoch, created, err := c.engine.AdvanceEpoch(asService(ctx, c.engine))
	if err != nil {
		return nil, fmt.Errorf("could not advance epoch: %w", err)
	}
	state, err := c.engine.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read state: %w", err)
	}

	var response models.Epoch
	response.Build(epoch, state)
	output, err := commands.ConvertToMap(response)
	if err != nil {
		return nil, err
	}
	output["created"] = created
	return output, nil
}

type wipeRequest struct {
	Confirm bool `mapstructure:"confirm"`
}

// WipeCommand deletes all oracles, epochs, commits and reveals and resets the
// state. It must be confirmed with {"confirm": true}.
type WipeCommand struct {
	engine Engine
}

func NewWipeCommand(engine Engine) *WipeCommand {
	return &WipeCommand{engine: engine}
}

func (c *WipeCommand) Validator(req *admin.CommandRequest) error {
	var data wipeRequest
	err := commands.DecodeData(req, &data)
	if err != nil {
		return err
	}
	if !data.Confirm {
		return admin.NewInvalidAdminReqParameterError("confirm", "wipe deletes all data and must be confirmed", data.Confirm)
	}
	return nil
}

func (c *WipeCommand) Handler(ctx context.Context, _ *admin.CommandRequest) (interface{}, error) {
	err := c.engine.Wipe(asService(ctx, c.engine))
	if err != nil {
		return nil, fmt.Errorf("could not wipe: %w", err)
	}
	return stateResponse(ctx, c.engine)
}
