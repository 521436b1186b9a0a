// Package request parses and validates the inputs of REST requests.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/droplets-system/epoch/model/drops"
)

const maxBodySize = 1 << 16

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// names are checked against the account name grammar
	_ = v.RegisterValidation("account", func(fl validator.FieldLevel) bool {
		return drops.Name(fl.Field().String()).Validate() == nil
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Height is an epoch height in a URL path.
type Height uint64

func (h *Height) Parse(raw string) error {
	if raw == "" {
		return fmt.Errorf("missing height")
	}
	height, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid height format")
	}
	if height == 0 {
		return fmt.Errorf("invalid height value: epochs start at 1")
	}
	*h = Height(height)
	return nil
}

func (h Height) Uint64() uint64 {
	return uint64(h)
}

// CommitBody is the body of a commit submission.
type CommitBody struct {
	Oracle string `json:"oracle" validate:"required,account"`
	Epoch  uint64 `json:"epoch" validate:"required,gt=0"`
	Commit string `json:"commit" validate:"required,hexadecimal,len=64"`
}

// Commit is a parsed commit submission.
type Commit struct {
	Oracle drops.Name
	Epoch  uint64
	Commit drops.Digest
}

// CommitRequest decodes and validates a commit submission.
func CommitRequest(body io.Reader) (*Commit, error) {
	var raw CommitBody
	err := decode(body, &raw)
	if err != nil {
		return nil, err
	}
	digest, err := drops.HexStringToDigest(raw.Commit)
	if err != nil {
		return nil, fmt.Errorf("invalid commit: %w", err)
	}
	return &Commit{
		Oracle: drops.Name(raw.Oracle),
		Epoch:  raw.Epoch,
		Commit: digest,
	}, nil
}

// RevealBody is the body of a reveal submission.
type RevealBody struct {
	Oracle string `json:"oracle" validate:"required,account"`
	Epoch  uint64 `json:"epoch" validate:"required,gt=0"`
	Reveal string `json:"reveal"`
}

// Reveal is a parsed reveal submission.
type Reveal struct {
	Oracle drops.Name
	Epoch  uint64
	Reveal string
}

// RevealRequest decodes and validates a reveal submission.
func RevealRequest(body io.Reader) (*Reveal, error) {
	var raw RevealBody
	err := decode(body, &raw)
	if err != nil {
		return nil, err
	}
	return &Reveal{
		Oracle: drops.Name(raw.Oracle),
		Epoch:  raw.Epoch,
		Reveal: raw.Reveal,
	}, nil
}

func decode(body io.Reader, v any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodySize))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body must not be empty")
		}
		return fmt.Errorf("request body contains an invalid JSON object: %w", err)
	}

	err = validate.Struct(v)
	if err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fieldErr := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}
