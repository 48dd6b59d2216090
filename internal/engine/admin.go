package engine

import (
	"time"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/authority"
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/reputation"
)

// AddAsset lists a collateral asset with its ledger and minimum bond.
func (e *Engine) AddAsset(caller principal.Principal, symbol asset.Asset, ledger asset.Ledger, minBond uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanSetParameters); err != nil {
		return err
	}
	return e.assets.Add(symbol, ledger, minBond)
}

// RemoveAsset delists an asset; existing bonds stay refundable.
func (e *Engine) RemoveAsset(caller principal.Principal, symbol asset.Asset) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanSetParameters); err != nil {
		return err
	}
	return e.assets.Remove(symbol)
}

// SetMinimumBond updates one asset's minimum bond.
func (e *Engine) SetMinimumBond(caller principal.Principal, symbol asset.Asset, minBond uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanSetParameters); err != nil {
		return err
	}
	return e.assets.SetMinimumBond(symbol, minBond)
}

// SetRates updates the slashing and accuracy-reward rates.
func (e *Engine) SetRates(caller principal.Principal, slashing, accuracyReward uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanSetParameters); err != nil {
		return err
	}
	return e.params.SetRates(slashing, accuracyReward)
}

// SetWindows updates the dispute and arbitration windows.
func (e *Engine) SetWindows(caller principal.Principal, dispute, arbitration time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanSetParameters); err != nil {
		return err
	}
	return e.params.SetWindows(dispute, arbitration)
}

// SetReputationConfig swaps the reputation tracker's magnitudes.
func (e *Engine) SetReputationConfig(caller principal.Principal, cfg reputation.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanSetParameters); err != nil {
		return err
	}
	return e.tracker.SetConfig(cfg)
}

// SetArbitrator moves the arbitration capability from the previous
// arbitrator to p. Owner only.
func (e *Engine) SetArbitrator(caller, p principal.Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.auth.Owner() {
		return authority.ErrNotOwner
	}
	for _, held := range e.auth.Holders(authority.CanArbitrate) {
		if err := e.auth.Revoke(caller, held, authority.CanArbitrate); err != nil {
			return err
		}
	}
	return e.auth.Grant(caller, p, authority.CanArbitrate)
}

// Grant hands capabilities to a principal. Owner only.
func (e *Engine) Grant(caller, p principal.Principal, caps authority.Capability) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auth.Grant(caller, p, caps)
}

// Revoke removes capabilities from a principal. Owner only.
func (e *Engine) Revoke(caller, p principal.Principal, caps authority.Capability) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auth.Revoke(caller, p, caps)
}
