package module

import (
	"context"
	"time"

	"github.com/droplets-system/epoch/model/drops"
)

// Clock reads the wall clock of the execution environment.
type Clock interface {
	Now() time.Time
}

// Authenticator verifies the identity of the caller of an action.
type Authenticator interface {
	// Authenticate returns nil if the caller associated with ctx is the
	// given principal.
	// Expected error returns:
	//   - protocol.UnauthorizedError if the caller is not the principal
	Authenticate(ctx context.Context, principal drops.Name) error
}

// AccountChecker reports whether an identity denotes a real external account.
type AccountChecker interface {
	// AccountExists returns true if the account exists.
	// No errors are expected during normal operation.
	AccountExists(ctx context.Context, account drops.Name) (bool, error)
}
