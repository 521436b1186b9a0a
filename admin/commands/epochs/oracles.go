package epochs

import (
	"context"
	"fmt"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
	"github.com/droplets-system/epoch/model/drops"
)

var (
	_ commands.AdminCommand = (*AddOracleCommand)(nil)
	_ commands.AdminCommand = (*RemoveOracleCommand)(nil)
)

type oracleRequest struct {
	Oracle string `mapstructure:"oracle"`
}

// validateOracle accepts either {"oracle": "name"} or a bare name string.
func validateOracle(req *admin.CommandRequest) error {
	raw, ok := req.Data.(string)
	if !ok {
		var data oracleRequest
		err := commands.DecodeData(req, &data)
		if err != nil {
			return err
		}
		raw = data.Oracle
	}

	name, err := drops.ParseName(raw)
	if err != nil {
		return admin.NewInvalidAdminReqParameterError("oracle", err.Error(), raw)
	}
	req.ValidatorData = name
	return nil
}

// AddOracleCommand registers an oracle.
type AddOracleCommand struct {
	engine Engine
}

func NewAddOracleCommand(engine Engine) *AddOracleCommand {
	return &AddOracleCommand{engine: engine}
}

func (c *AddOracleCommand) Validator(req *admin.CommandRequest) error {
	return validateOracle(req)
}

func (c *AddOracleCommand) Handler(ctx context.Context, req *admin.CommandRequest) (interface{}, error) {
	oracle := req.ValidatorData.(drops.Name)
	err := c.engine.AddOracle(asService(ctx, c.engine), oracle)
	if err != nil {
		return nil, fmt.Errorf("could not add oracle %s: %w", oracle, err)
	}
	return oracleList(ctx, c.engine)
}

// RemoveOracleCommand unregisters an oracle.
type RemoveOracleCommand struct {
	engine Engine
}

func NewRemoveOracleCommand(engine Engine) *RemoveOracleCommand {
	return &RemoveOracleCommand{engine: engine}
}

func (c *RemoveOracleCommand) Validator(req *admin.CommandRequest) error {
	return validateOracle(req)
}

func (c *RemoveOracleCommand) Handler(ctx context.Context, req *admin.CommandRequest) (interface{}, error) {
	oracle := req.ValidatorData.(drops.Name)
	err := c.engine.RemoveOracle(asService(ctx, c.engine), oracle)
	if err != nil {
		return nil, fmt.Errorf("could not remove oracle %s: %w", oracle, err)
	}
	return oracleList(ctx, c.engine)
}

func oracleList(ctx context.Context, engine Engine) (interface{}, error) {
	names, err := oracleNames(ctx, engine)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"oracles": names}, nil
}

func oracleNames(ctx context.Context, engine Engine) ([]string, error) {
	oracles, err := engine.Oracles(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list oracles: %w", err)
	}
	names := oracles.Strings()
	if names == nil {
		names = []string{}
	}
	return names, nil
}
