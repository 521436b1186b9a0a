package epochs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
	"github.com/droplets-system/epoch/admin/commands/epochs"
	"github.com/droplets-system/epoch/crypto/hash"
	engine "github.com/droplets-system/epoch/engine/drops"
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module/auth"
	"github.com/droplets-system/epoch/module/clock"
	"github.com/droplets-system/epoch/module/metrics"
	"github.com/droplets-system/epoch/module/trace"
	"github.com/droplets-system/epoch/state/protocol"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation/dbtest"
	"github.com/droplets-system/epoch/storage/store"
	"github.com/droplets-system/epoch/utils/unittest"
)

func withCommands(t *testing.T, fn func(*testing.T, *engine.Engine, *clock.Mock, map[string]commands.AdminCommand)) {
	dbtest.RunWithBadgerDB(t, func(t *testing.T, db storage.DB) {
		clk := clock.NewMock(unittest.Genesis)
		e, err := engine.New(
			unittest.Logger(),
			db,
			store.InitAll(metrics.NewNoopCollector(), db, 10),
			hash.NewSHA2_256(),
			clk,
			auth.NewCallerAuthenticator(),
			auth.NewStaticAccounts("alice", "bob"),
			trace.NewNoopTracer(),
			metrics.NewNoopCollector(),
			engine.DefaultConfig(),
		)
		require.NoError(t, err)
		fn(t, e, clk, epochs.Commands(e))
	})
}

// run validates and executes a command without any caller in the context.
func run(cmd commands.AdminCommand, data interface{}) (interface{}, error) {
	req := &admin.CommandRequest{Data: data}
	err := cmd.Validator(req)
	if err != nil {
		return nil, err
	}
	return cmd.Handler(context.Background(), req)
}

func TestOracleCommands(t *testing.T) {
	withCommands(t, func(t *testing.T, e *engine.Engine, _ *clock.Mock, cmds map[string]commands.AdminCommand) {
		out, err := run(cmds["add-oracle"], "alice")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"oracles": []string{"alice"}}, out)

		out, err = run(cmds["add-oracle"], map[string]interface{}{"oracle": "bob"})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"oracles": []string{"alice", "bob"}}, out)

		_, err = run(cmds["add-oracle"], "alice")
		assert.ErrorIs(t, err, protocol.ErrOracleAlreadyExists)

		_, err = run(cmds["add-oracle"], "carol")
		assert.ErrorIs(t, err, protocol.ErrUnknownAccount)

		_, err = run(cmds["add-oracle"], "Not An Account")
		assert.True(t, admin.IsInvalidAdminParameterError(err))

		_, err = run(cmds["add-oracle"], map[string]interface{}{"name": "alice"})
		assert.True(t, admin.IsInvalidAdminParameterError(err))

		out, err = run(cmds["remove-oracle"], "alice")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"oracles": []string{"bob"}}, out)

		_, err = run(cmds["remove-oracle"], "alice")
		assert.ErrorIs(t, err, protocol.ErrOracleNotFound)

		oracles, err := e.Oracles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, drops.NameList{"bob"}, oracles)
	})
}

func TestInitCommand(t *testing.T) {
	withCommands(t, func(t *testing.T, _ *engine.Engine, clk *clock.Mock, cmds map[string]commands.AdminCommand) {
		_, err := run(cmds["init"], nil)
		assert.ErrorIs(t, err, protocol.ErrEmptyRegistry)

		_, err = run(cmds["init"], map[string]interface{}{"now": true})
		assert.True(t, admin.IsInvalidAdminParameterError(err))

		_, err = run(cmds["add-oracle"], "alice")
		require.NoError(t, err)

		clk.Add(3 * time.Hour)
		out, err := run(cmds["init"], nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"height":    "1",
			"start":     "2024-01-29T00:00:00Z",
			"end":       "2024-01-30T00:00:00Z",
			"oracles":   []interface{}{"alice"},
			"completed": false,
			"seed":      drops.Digest{}.String(),
		}, out)

		_, err = run(cmds["init"], nil)
		assert.ErrorIs(t, err, protocol.ErrAlreadyInitialized)
	})
}

func TestStateCommands(t *testing.T) {
	withCommands(t, func(t *testing.T, e *engine.Engine, clk *clock.Mock, cmds map[string]commands.AdminCommand) {
		out, err := run(cmds["set-enabled"], true)
		require.NoError(t, err)
		assert.Equal(t, true, out.(map[string]interface{})["enabled"])

		out, err = run(cmds["set-enabled"], map[string]interface{}{"enabled": false})
		require.NoError(t, err)
		assert.Equal(t, false, out.(map[string]interface{})["enabled"])

		_, err = run(cmds["set-enabled"], map[string]interface{}{})
		assert.True(t, admin.IsInvalidAdminParameterError(err))

		_, err = run(cmds["set-duration"], map[string]interface{}{"duration": 0})
		assert.True(t, admin.IsInvalidAdminParameterError(err))

		// JSON numbers arrive as float64
		out, err = run(cmds["set-duration"], map[string]interface{}{"duration": float64(3600)})
		require.NoError(t, err)
		assert.Equal(t, float64(3600), out.(map[string]interface{})["duration"])

		clk.Add(5 * time.Hour)
		out, err = run(cmds["read-state"], nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"genesis":       "2024-01-29T00:00:00Z",
			"duration":      float64(3600),
			"enabled":       false,
			"current_epoch": uint64(6),
			"oracles":       []string{},
		}, out)

		state, err := e.State(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint32(3600), state.Duration)
	})
}

func TestEpochCommands(t *testing.T) {
	withCommands(t, func(t *testing.T, _ *engine.Engine, clk *clock.Mock, cmds map[string]commands.AdminCommand) {
		_, err := run(cmds["add-oracle"], "alice")
		require.NoError(t, err)
		_, err = run(cmds["init"], nil)
		require.NoError(t, err)

		out, err := run(cmds["advance-epoch"], nil)
		require.NoError(t, err)
		assert.Equal(t, "1", out.(map[string]interface{})["height"])
		assert.Equal(t, false, out.(map[string]interface{})["created"])

		clk.Add(24 * time.Hour)
		out, err = run(cmds["advance-epoch"], nil)
		require.NoError(t, err)
		assert.Equal(t, "2", out.(map[string]interface{})["height"])
		assert.Equal(t, true, out.(map[string]interface{})["created"])

		out, err = run(cmds["read-epoch"], nil)
		require.NoError(t, err)
		assert.Equal(t, "2", out.(map[string]interface{})["height"])

		out, err = run(cmds["read-epoch"], map[string]interface{}{"height": 1})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-29T00:00:00Z", out.(map[string]interface{})["start"])

		_, err = run(cmds["read-epoch"], map[string]interface{}{"height": 9})
		assert.True(t, protocol.IsEpochNotFoundError(err))

		_, err = run(cmds["read-epoch"], map[string]interface{}{"height": 0})
		assert.True(t, admin.IsInvalidAdminParameterError(err))
	})
}

func TestWipeCommand(t *testing.T) {
	withCommands(t, func(t *testing.T, e *engine.Engine, _ *clock.Mock, cmds map[string]commands.AdminCommand) {
		_, err := run(cmds["add-oracle"], "alice")
		require.NoError(t, err)
		_, err = run(cmds["init"], nil)
		require.NoError(t, err)

		_, err = run(cmds["wipe"], nil)
		assert.True(t, admin.IsInvalidAdminParameterError(err))
		_, err = run(cmds["wipe"], map[string]interface{}{"confirm": false})
		assert.True(t, admin.IsInvalidAdminParameterError(err))

		out, err := run(cmds["wipe"], map[string]interface{}{"confirm": true})
		require.NoError(t, err)
		assert.Equal(t, false, out.(map[string]interface{})["enabled"])

		oracles, err := e.Oracles(context.Background())
		require.NoError(t, err)
		assert.Empty(t, oracles)
		_, err = e.Epoch(context.Background(), 1)
		assert.True(t, protocol.IsEpochNotFoundError(err))
	})
}

func TestRegister(t *testing.T) {
	withCommands(t, func(t *testing.T, _ *engine.Engine, _ *clock.Mock, cmds map[string]commands.AdminCommand) {
		bootstrapper := admin.NewCommandRunnerBootstrapper()
		epochs.Register(bootstrapper, cmds)
		runner := bootstrapper.Bootstrap(unittest.Logger(), "")
		assert.Equal(t, []string{
			"add-oracle", "advance-epoch", "init", "read-epoch", "read-state",
			"remove-oracle", "set-duration", "set-enabled", "wipe",
		}, runner.Commands())
	})
}
