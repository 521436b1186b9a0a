package epochs

import (
	"context"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module/auth"
)

// Engine is the subset of the drops engine driven by admin commands.
type Engine interface {
	Self() drops.Name
	AddOracle(ctx context.Context, oracle drops.Name) error
	RemoveOracle(ctx context.Context, oracle drops.Name) error
	InitializeProtocol(ctx context.Context) (*drops.Epoch, error)
	SetEnabled(ctx context.Context, enabled bool) error
	SetDuration(ctx context.Context, duration uint32) error
	AdvanceEpoch(ctx context.Context) (*drops.Epoch, bool, error)
	Wipe(ctx context.Context) error
	CurrentEpochHeight(ctx context.Context) (uint64, error)
	Epoch(ctx context.Context, height uint64) (*drops.Epoch, error)
	State(ctx context.Context) (*drops.State, error)
	Oracles(ctx context.Context) (drops.NameList, error)
}

// asService returns a context in which the engine sees the service itself as
// the caller. Operators reaching the admin endpoint act with its authority.
func asService(ctx context.Context, engine Engine) context.Context {
	return auth.WithCaller(ctx, engine.Self())
}
