package common

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
)

var _ commands.AdminCommand = (*SetLogLevelCommand)(nil)

// SetLogLevelCommand changes the global log level at runtime.
type SetLogLevelCommand struct{}

func (s *SetLogLevelCommand) Handler(ctx context.Context, req *admin.CommandRequest) (interface{}, error) {
	level := req.ValidatorData.(zerolog.Level)
	zerolog.SetGlobalLevel(level)
	return "ok", nil
}

func (s *SetLogLevelCommand) Validator(req *admin.CommandRequest) error {
	raw, ok := req.Data.(string)
	if !ok {
		return admin.NewInvalidAdminReqFormatError("the data field must be a string, e.g. \"debug\"")
	}

	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return admin.NewInvalidAdminReqParameterError("level", err.Error(), raw)
	}

	req.ValidatorData = level

	return nil
}
