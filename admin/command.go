package admin

import (
	"context"
)

// CommandRequest is a single invocation of an admin command.
type CommandRequest struct {
	// Data is the decoded JSON payload sent with the command.
	Data interface{}
	// ValidatorData may be set by the command's validator with the parsed
	// form of Data, for use by the handler.
	ValidatorData interface{}
}

// CommandHandler applies a validated request and returns the output shown
// to the operator.
type CommandHandler func(ctx context.Context, request *CommandRequest) (interface{}, error)

// CommandValidator checks that a request is well-formed. Errors must be
// InvalidAdminReqError.
type CommandValidator func(request *CommandRequest) error
