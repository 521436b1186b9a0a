package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/droplets-system/epoch/admin"
)

// AdminCommand defines the interface expected for admin command handlers.
type AdminCommand interface {
	// Validator is responsible for validating that the input forms a valid request.
	// By convention, Validator may set the ValidatorData field on the request, and
	// this will persist when the request is passed to Handler.
	// All errors indicate an invalid request and must be admin.InvalidAdminReqError.
	Validator(request *admin.CommandRequest) error
	// Handler is responsible for handling the request. It applies any state
	// changes associated with the request and returns any values which should
	// be displayed to the initiator of the request.
	// All errors indicate an invalid request, or benign failure to satisfy the request.
	Handler(ctx context.Context, request *admin.CommandRequest) (interface{}, error)
}

// DecodeData decodes the map payload of a request into out, which must be a
// pointer to a struct with mapstructure tags. Unknown keys are rejected.
func DecodeData(req *admin.CommandRequest, out interface{}) error {
	input, ok := req.Data.(map[string]interface{})
	if !ok {
		return admin.ErrValidatorReqDataFormat
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("could not create decoder: %w", err)
	}
	err = decoder.Decode(input)
	if err != nil {
		return admin.NewInvalidAdminReqFormatError("%v", err)
	}
	return nil
}

// ConvertToMap converts a value into the generic JSON shape returned to the
// operator.
func ConvertToMap(object interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(object)
	if err != nil {
		return nil, fmt.Errorf("could not encode %T: %w", object, err)
	}
	var result map[string]interface{}
	err = json.Unmarshal(raw, &result)
	if err != nil {
		return nil, fmt.Errorf("could not decode %T: %w", object, err)
	}
	return result, nil
}

// ConvertToInterfaceList converts a slice into the generic JSON shape
// returned to the operator.
func ConvertToInterfaceList(list interface{}) ([]interface{}, error) {
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("could not encode %T: %w", list, err)
	}
	var result []interface{}
	err = json.Unmarshal(raw, &result)
	if err != nil {
		return nil, fmt.Errorf("could not decode %T: %w", list, err)
	}
	return result, nil
}
