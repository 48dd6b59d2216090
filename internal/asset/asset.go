// Package asset abstracts the value-transfer mechanism behind the engine.
// The engine never moves value itself; it asks the asset's Ledger to move
// it between principals and keeps every bonded unit under the custody
// account until an explicit stake-return, reward or slash releases it.
package asset

import (
	"errors"

	"github.com/chainward/chainward/internal/principal"
)

// Asset identifies a collateral asset by symbol.
type Asset string

// Native is the chain's own value asset.
const Native Asset = "NATIVE"

// Custody is the engine's own account on every ledger. All bonded
// collateral sits here until released.
var Custody = principal.Principal{0xc0, 0x11, 0xa7, 0xe2, 0xa1}

var (
	ErrUnsupportedAsset    = errors.New("asset not supported")
	ErrAssetAlreadyListed  = errors.New("asset already supported")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
	ErrZeroMinimumBond     = errors.New("minimum bond must be positive")
)

// Ledger moves value between principals for one asset. Implementations
// must either fully apply a transfer or leave both balances unchanged.
type Ledger interface {
	Transfer(from, to principal.Principal, amount uint64) error
	BalanceOf(p principal.Principal) uint64
}
