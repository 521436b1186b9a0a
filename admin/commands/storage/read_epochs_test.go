package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/utils/unittest"
)

type epochReaderFunc func(ctx context.Context, from, to uint64) ([]*drops.Epoch, error)

func (f epochReaderFunc) Epochs(ctx context.Context, from, to uint64) ([]*drops.Epoch, error) {
	return f(ctx, from, to)
}

func TestReadRangeEpochsValidator(t *testing.T) {
	cmd := NewReadRangeEpochsCommand(nil)

	for name, data := range map[string]interface{}{
		"not a map":       "1-3",
		"zero start":      map[string]interface{}{"start-height": 0, "end-height": 3},
		"inverted range":  map[string]interface{}{"start-height": 5, "end-height": 3},
		"range too large": map[string]interface{}{"start-height": 1, "end-height": 1 + maxEpochRange},
		"unknown field":   map[string]interface{}{"start-height": 1, "end-height": 3, "step": 1},
	} {
		t.Run(name, func(t *testing.T) {
			err := cmd.Validator(&admin.CommandRequest{Data: data})
			assert.True(t, admin.IsInvalidAdminParameterError(err))
		})
	}
}

func TestReadRangeEpochs(t *testing.T) {
	alice := unittest.NameFixture()
	stored := []*drops.Epoch{
		unittest.EpochFixture(2, unittest.WithOracles(alice)),
		unittest.EpochFixture(3, unittest.WithOracles(alice)),
	}

	var gotFrom, gotTo uint64
	cmd := NewReadRangeEpochsCommand(epochReaderFunc(func(_ context.Context, from, to uint64) ([]*drops.Epoch, error) {
		gotFrom, gotTo = from, to
		return stored, nil
	}))

	req := &admin.CommandRequest{Data: map[string]interface{}{"start-height": float64(2), "end-height": float64(4)}}
	require.NoError(t, cmd.Validator(req))
	out, err := cmd.Handler(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), gotFrom)
	assert.Equal(t, uint64(4), gotTo)
	list, ok := out.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, float64(3), list[1].(map[string]interface{})["Height"])

	failing := NewReadRangeEpochsCommand(epochReaderFunc(func(context.Context, uint64, uint64) ([]*drops.Epoch, error) {
		return nil, errors.New("closed")
	}))
	_, err = failing.Handler(context.Background(), req)
	assert.ErrorContains(t, err, "could not read epochs: closed")
}
