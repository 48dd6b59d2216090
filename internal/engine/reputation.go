package engine

import (
	"fmt"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/authority"
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/reputation"
)

// JoinReputation stakes into the reputation system and creates a record at
// the initial mid-range score. Reputation stake is always posted in the
// native asset and is independent of any reporter bond.
func (e *Engine) JoinReputation(caller principal.Principal, stake uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if stake < e.tracker.Config().MinStake {
		return reputation.ErrStakeBelowMin
	}
	if r, err := e.tracker.Record(caller); err == nil && r.Active {
		return reputation.ErrAlreadyJoined
	}
	ledger, err := e.assets.LedgerFor(asset.Native)
	if err != nil {
		return err
	}

	if err := ledger.Transfer(caller, asset.Custody, stake); err != nil {
		return fmt.Errorf("post reputation stake: %w", err)
	}
	r, err := e.tracker.Join(caller, stake)
	if err != nil {
		// Unreachable after the checks above; release the stake anyway.
		_ = ledger.Transfer(asset.Custody, caller, stake)
		return err
	}

	e.log.Info().Stringer("principal", caller).Uint64("stake", stake).
		Msg("joined reputation system")
	return e.persistReputation(r, nil)
}

// LeaveReputation releases the remaining stake and deactivates the record.
func (e *Engine) LeaveReputation(caller principal.Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.assets.LedgerFor(asset.Native)
	if err != nil {
		return err
	}
	release, err := e.tracker.Leave(caller)
	if err != nil {
		return err
	}
	if err := ledger.Transfer(asset.Custody, caller, release); err != nil {
		return fmt.Errorf("return reputation stake: %w", err)
	}

	r, err := e.tracker.Record(caller)
	if err != nil {
		return err
	}
	return e.persistReputation(r, nil)
}

// ReportValidated is the incident authority's accurate-report verdict.
func (e *Engine) ReportValidated(caller, p principal.Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanJudgeReports); err != nil {
		return err
	}
	ev, err := e.tracker.Validated(p)
	if err != nil {
		return err
	}
	r, err := e.tracker.Record(p)
	if err != nil {
		return err
	}
	return e.persistReputation(r, ev)
}

// ReportDisputed is the incident authority's false-report verdict. The
// slashed stake share leaves custody for the arbitration-fee recipient; if
// both score and stake are exhausted the principal is auto-banned.
func (e *Engine) ReportDisputed(caller, p principal.Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanJudgeReports); err != nil {
		return err
	}
	ledger, err := e.assets.LedgerFor(asset.Native)
	if err != nil {
		return err
	}
	ev, slashed, err := e.tracker.Disputed(p)
	if err != nil {
		return err
	}
	if slashed > 0 {
		if err := ledger.Transfer(asset.Custody, e.feeRecipient, slashed); err != nil {
			return fmt.Errorf("transfer slashed stake: %w", err)
		}
	}

	r, err := e.tracker.Record(p)
	if err != nil {
		return err
	}
	if !r.Active {
		e.log.Warn().Stringer("principal", p).Msg("reputation exhausted, principal banned")
	}
	return e.persistReputation(r, ev)
}

// BanPrincipal is the explicit administrative override; it deactivates the
// principal regardless of score and stake and forfeits the stake to the
// arbitration-fee recipient.
func (e *Engine) BanPrincipal(caller, p principal.Principal, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanBan); err != nil {
		return err
	}
	ledger, err := e.assets.LedgerFor(asset.Native)
	if err != nil {
		return err
	}
	ev, forfeited, err := e.tracker.Ban(p, reason)
	if err != nil {
		return err
	}
	if forfeited > 0 {
		if err := ledger.Transfer(asset.Custody, e.feeRecipient, forfeited); err != nil {
			return fmt.Errorf("forfeit stake: %w", err)
		}
	}

	r, err := e.tracker.Record(p)
	if err != nil {
		return err
	}
	e.log.Warn().Stringer("principal", p).Str("reason", reason).Msg("principal banned")
	return e.persistReputation(r, ev)
}

// AdjustReputation applies a bounded manual score correction.
func (e *Engine) AdjustReputation(caller, p principal.Principal, delta int64, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanBan); err != nil {
		return err
	}
	ev, err := e.tracker.Adjust(p, delta, reason)
	if err != nil {
		return err
	}
	r, err := e.tracker.Record(p)
	if err != nil {
		return err
	}
	return e.persistReputation(r, ev)
}

// ReputationRecord returns the reputation record for p.
func (e *Engine) ReputationRecord(p principal.Principal) (reputation.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.tracker.Record(p)
	if err != nil {
		return reputation.Record{}, err
	}
	return *r, nil
}

// ReputationHistory returns all score changes for p in append order.
func (e *Engine) ReputationHistory(p principal.Principal) []reputation.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.History(p)
}

// ActiveReputationPrincipals returns the active-principal index.
func (e *Engine) ActiveReputationPrincipals() []principal.Principal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.ActivePrincipals()
}
