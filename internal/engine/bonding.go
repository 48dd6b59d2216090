package engine

import (
	"fmt"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/reporter"
	"github.com/chainward/chainward/internal/safemath"
)

// Register posts collateral and creates an active reporter. The bond moves
// into custody before the record exists, so a failed transfer leaves no
// trace.
func (e *Engine) Register(caller principal.Principal, symbol asset.Asset, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.assets.Supported(symbol) {
		return asset.ErrUnsupportedAsset
	}
	min, err := e.assets.MinimumBond(symbol)
	if err != nil {
		return err
	}
	if amount < min {
		return ErrBondBelowMinimum
	}
	if r, err := e.directory.Get(caller); err == nil && r.Active {
		return reporter.ErrAlreadyRegistered
	}
	ledger, err := e.assets.LedgerFor(symbol)
	if err != nil {
		return err
	}

	if err := ledger.Transfer(caller, asset.Custody, amount); err != nil {
		return fmt.Errorf("post bond: %w", err)
	}
	r, err := e.directory.Register(caller, symbol, amount)
	if err != nil {
		// Cannot happen after the duplicate check above; refund anyway.
		_ = ledger.Transfer(asset.Custody, caller, amount)
		return err
	}

	e.log.Info().Stringer("reporter", caller).Str("asset", string(symbol)).
		Uint64("bond", amount).Msg("reporter registered")
	return e.persistReporter(r)
}

// Unregister returns the full bonded amount and deactivates the reporter.
// Refused while any dispute against the reporter's signals is open.
func (e *Engine) Unregister(caller principal.Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.directory.Active(caller)
	if err != nil {
		return err
	}
	if r.OpenDisputes > 0 {
		return reporter.ErrOpenDisputes
	}
	ledger, err := e.assets.LedgerFor(r.Asset)
	if err != nil {
		return err
	}

	refund, err := e.directory.Unregister(caller)
	if err != nil {
		return err
	}
	if err := ledger.Transfer(asset.Custody, caller, refund); err != nil {
		return fmt.Errorf("return bond: %w", err)
	}

	e.log.Info().Stringer("reporter", caller).Uint64("refund", refund).
		Msg("reporter unregistered")
	return e.persistReporter(r)
}

// Stake tops up the caller's bonded amount.
func (e *Engine) Stake(caller principal.Principal, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.directory.Active(caller)
	if err != nil {
		return err
	}
	next, err := custodyCredit(r.BondedAmount, amount)
	if err != nil {
		return err
	}
	ledger, err := e.assets.LedgerFor(r.Asset)
	if err != nil {
		return err
	}

	if err := ledger.Transfer(caller, asset.Custody, amount); err != nil {
		return fmt.Errorf("post stake: %w", err)
	}
	r.BondedAmount = next
	return e.persistReporter(r)
}

// Unstake withdraws part of the bond. The remainder must stay at or above
// the asset minimum, and the bond is locked while disputes are open.
func (e *Engine) Unstake(caller principal.Principal, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.directory.Active(caller)
	if err != nil {
		return err
	}
	if r.OpenDisputes > 0 {
		return reporter.ErrOpenDisputes
	}
	next, ok := safemath.Sub64(r.BondedAmount, amount)
	if !ok {
		return asset.ErrInsufficientBalance
	}
	min, err := e.assets.MinimumBond(r.Asset)
	if err != nil {
		return err
	}
	if next < min {
		return ErrBondBelowMinimum
	}
	ledger, err := e.assets.LedgerFor(r.Asset)
	if err != nil {
		return err
	}

	if err := ledger.Transfer(asset.Custody, caller, amount); err != nil {
		return fmt.Errorf("return stake: %w", err)
	}
	r.BondedAmount = next
	return e.persistReporter(r)
}

// FundRewardPool moves value into the asset's accuracy-reward pool. Open
// to any caller; the pool only ever pays out through dispute resolution.
func (e *Engine) FundRewardPool(caller principal.Principal, symbol asset.Asset, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.assets.LedgerFor(symbol)
	if err != nil {
		return err
	}
	next, err := custodyCredit(e.rewardPools[symbol], amount)
	if err != nil {
		return err
	}

	if err := ledger.Transfer(caller, asset.Custody, amount); err != nil {
		return fmt.Errorf("fund pool: %w", err)
	}
	e.rewardPools[symbol] = next
	if e.store != nil {
		return e.store.PutRewardPool(symbol, next)
	}
	return nil
}

// RewardPool returns the current pool balance for an asset.
func (e *Engine) RewardPool(symbol asset.Asset) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewardPools[symbol]
}
