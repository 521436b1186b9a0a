// Package auth implements caller authentication and account existence
// checks for the transports.
package auth

import (
	"context"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/state/protocol"
)

type callerKey struct{}

// WithCaller returns a context carrying the authenticated caller of a request.
func WithCaller(ctx context.Context, caller drops.Name) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller placed in ctx by WithCaller.
func CallerFromContext(ctx context.Context) (drops.Name, bool) {
	caller, ok := ctx.Value(callerKey{}).(drops.Name)
	return caller, ok && caller != ""
}

// CallerAuthenticator accepts a request if the caller in its context is the
// required principal. Transports are responsible for establishing the caller.
type CallerAuthenticator struct{}

var _ module.Authenticator = CallerAuthenticator{}

func NewCallerAuthenticator() CallerAuthenticator {
	return CallerAuthenticator{}
}

func (CallerAuthenticator) Authenticate(ctx context.Context, principal drops.Name) error {
	caller, ok := CallerFromContext(ctx)
	if !ok || caller != principal {
		return protocol.NewUnauthorizedError(principal)
	}
	return nil
}

// StaticAccounts knows a fixed set of accounts.
type StaticAccounts struct {
	accounts map[drops.Name]struct{}
}

var _ module.AccountChecker = (*StaticAccounts)(nil)

func NewStaticAccounts(accounts ...drops.Name) *StaticAccounts {
	set := make(map[drops.Name]struct{}, len(accounts))
	for _, account := range accounts {
		set[account] = struct{}{}
	}
	return &StaticAccounts{accounts: set}
}

func (s *StaticAccounts) AccountExists(_ context.Context, account drops.Name) (bool, error) {
	_, ok := s.accounts[account]
	return ok, nil
}

// AnyAccount treats every well-formed name as an existing account.
type AnyAccount struct{}

var _ module.AccountChecker = AnyAccount{}

func (AnyAccount) AccountExists(_ context.Context, account drops.Name) (bool, error) {
	return account.Validate() == nil, nil
}
