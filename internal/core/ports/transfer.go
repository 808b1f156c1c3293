package ports

import "context"

// ChainTransfer is the boundary to the cross-chain transfer orchestrator,
// a separate subsystem that shares no state with the trade engine. The box
// office never implements it; an external collaborator may be plugged in
// by callers that need settled tickets moved to another chain.
type ChainTransfer interface {
	// CreateAccount provisions an account on the remote chain and returns
	// its address.
	CreateAccount(ctx context.Context, chainID string) (string, error)
	// Transfer moves an amount of a denom to an address on another chain.
	Transfer(ctx context.Context, chainID, toAddress, denom string, amount int64) error
}
