package engine

import (
	"fmt"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/authority"
	"github.com/chainward/chainward/internal/dispute"
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/safemath"
	"github.com/chainward/chainward/internal/watchtime"
)

// RaiseDispute opens a challenge against a signal. The challenger posts a
// bond exactly equal to the reporter's current bonded amount, read inside
// the same critical section that locks it in, so the challenger's risk is
// bound to the reporter's stake size at dispute time.
//
// A write-through persistence failure surfaces after the dispute is open
// in memory; the id is returned with the error and the store converges on
// the next successful write.
func (e *Engine) RaiseDispute(caller principal.Principal, signalID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sig, err := e.directory.Signal(signalID)
	if err != nil {
		return 0, err
	}
	if sig.Disputed {
		return 0, dispute.ErrAlreadyDisputed
	}
	if caller == sig.Reporter {
		return 0, dispute.ErrSelfChallenge
	}
	now := e.clock.Now()
	if !watchtime.WithinWindow(sig.Timestamp, e.params.DisputeWindow(), now) {
		return 0, dispute.ErrDisputeWindow
	}
	rep, err := e.directory.Active(sig.Reporter)
	if err != nil {
		return 0, err
	}
	ledger, err := e.assets.LedgerFor(rep.Asset)
	if err != nil {
		return 0, err
	}

	bond := rep.BondedAmount
	if err := ledger.Transfer(caller, asset.Custody, bond); err != nil {
		return 0, fmt.Errorf("post challenge bond: %w", err)
	}
	d, err := e.disputes.Open(signalID, caller, rep.Asset, bond, now)
	if err != nil {
		// Unreachable after the Disputed check; release the bond anyway.
		_ = ledger.Transfer(asset.Custody, caller, bond)
		return 0, err
	}
	sig.Disputed = true
	sig.DisputeCount++
	rep.OpenDisputes++

	if err := e.persistDispute(d); err != nil {
		return d.ID, err
	}
	if err := e.persistSignal(sig); err != nil {
		return d.ID, err
	}
	if err := e.persistReporter(rep); err != nil {
		return d.ID, err
	}

	e.log.Info().Uint64("dispute", d.ID).Uint64("signal", signalID).
		Stringer("challenger", caller).Uint64("bond", bond).Msg("dispute raised")
	return d.ID, nil
}

// ResolveDispute settles a dispute with the arbitrator's binary verdict
// and redistributes the two bonds. Settled disputes are immutable; a
// second resolution attempt fails without touching anything.
func (e *Engine) ResolveDispute(caller principal.Principal, disputeID uint64, signalValid bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanArbitrate); err != nil {
		return err
	}
	d, err := e.disputes.Get(disputeID)
	if err != nil {
		return err
	}
	if d.Settled {
		return dispute.ErrAlreadySettled
	}
	now := e.clock.Now()
	if !watchtime.WithinWindow(d.CreatedAt, e.params.ArbitrationWindow(), now) {
		return dispute.ErrArbitrationWindow
	}
	sig, err := e.directory.Signal(d.SignalID)
	if err != nil {
		return err
	}
	rep, err := e.directory.Get(sig.Reporter)
	if err != nil {
		return err
	}
	ledger, err := e.assets.LedgerFor(d.Asset)
	if err != nil {
		return err
	}

	st, err := dispute.Compute(signalValid, rep.BondedAmount, d.ChallengeBond,
		e.params.SlashingRate(), e.params.AccuracyRewardRate(), e.rewardPools[d.Asset])
	if err != nil {
		return err
	}
	newBond, err := applySettlementToBond(rep.BondedAmount, st)
	if err != nil {
		return err
	}

	// All checks passed; move value first, then flip the records. The
	// custody account holds both bonds and the pool, so these transfers
	// cannot fail.
	if st.FeePayout > 0 {
		if err := ledger.Transfer(asset.Custody, e.feeRecipient, st.FeePayout); err != nil {
			return fmt.Errorf("pay arbitration fee: %w", err)
		}
	}
	if st.ChallengerPayout > 0 {
		if err := ledger.Transfer(asset.Custody, d.Challenger, st.ChallengerPayout); err != nil {
			return fmt.Errorf("pay challenger: %w", err)
		}
	}

	rep.BondedAmount = newBond
	e.rewardPools[d.Asset] -= st.RewardDrawn
	rep.OpenDisputes--
	sig.Verified = true
	outcome := dispute.OutcomeSignalFalse
	if signalValid {
		outcome = dispute.OutcomeSignalValid
		rep.VerifiedSignals++
	}
	if _, err := e.disputes.Settle(disputeID, outcome); err != nil {
		return err
	}

	if e.store != nil {
		if err := e.store.ResolveBatch(d, sig, rep); err != nil {
			return err
		}
		if st.RewardDrawn > 0 {
			if err := e.store.PutRewardPool(d.Asset, e.rewardPools[d.Asset]); err != nil {
				return err
			}
		}
	}

	e.log.Info().Uint64("dispute", disputeID).Stringer("outcome", outcome).
		Uint64("reporterBond", rep.BondedAmount).Msg("dispute resolved")
	return nil
}

// ExpireDispute releases the challenge bond of a dispute that outlived the
// arbitration window without a verdict. Anyone may call it. The signal
// stays disputed and unverified; its one dispute is spent.
func (e *Engine) ExpireDispute(caller principal.Principal, disputeID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.disputes.Get(disputeID)
	if err != nil {
		return err
	}
	if d.Settled {
		return dispute.ErrAlreadySettled
	}
	if watchtime.WithinWindow(d.CreatedAt, e.params.ArbitrationWindow(), e.clock.Now()) {
		return dispute.ErrNotExpired
	}
	sig, err := e.directory.Signal(d.SignalID)
	if err != nil {
		return err
	}
	rep, err := e.directory.Get(sig.Reporter)
	if err != nil {
		return err
	}
	ledger, err := e.assets.LedgerFor(d.Asset)
	if err != nil {
		return err
	}

	if err := ledger.Transfer(asset.Custody, d.Challenger, d.ChallengeBond); err != nil {
		return fmt.Errorf("release challenge bond: %w", err)
	}
	rep.OpenDisputes--
	if _, err := e.disputes.Settle(disputeID, dispute.OutcomeExpired); err != nil {
		return err
	}

	if e.store != nil {
		if err := e.store.ResolveBatch(d, sig, rep); err != nil {
			return err
		}
	}

	e.log.Info().Uint64("dispute", disputeID).Stringer("caller", caller).
		Msg("dispute expired")
	return nil
}

// Dispute returns the dispute with the given id.
func (e *Engine) Dispute(id uint64) (dispute.Dispute, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.disputes.Get(id)
	if err != nil {
		return dispute.Dispute{}, err
	}
	return *d, nil
}

// applySettlementToBond derives the reporter's post-settlement bond.
func applySettlementToBond(bond uint64, st dispute.Settlement) (uint64, error) {
	next, ok := safemath.Add64(bond, st.ReporterCredit)
	if !ok {
		return 0, safemath.ErrOverflow
	}
	next, ok = safemath.Sub64(next, st.ReporterDebit)
	if !ok {
		return 0, safemath.ErrOverflow
	}
	return next, nil
}
