package dispute

import (
	"github.com/chainward/chainward/internal/safemath"
)

// Settlement is the value movement a resolution implies. All amounts are
// computed before anything moves, so a resolution either applies fully or
// not at all. Every unit debited ends up credited to exactly one party:
// reporter bond, challenger payout or arbitration fee.
type Settlement struct {
	// ReporterCredit is added to the reporter's bonded balance.
	ReporterCredit uint64
	// ReporterDebit is slashed off the reporter's bonded balance.
	ReporterDebit uint64
	// ChallengerPayout leaves custody for the challenger.
	ChallengerPayout uint64
	// FeePayout leaves custody for the arbitration-fee recipient.
	FeePayout uint64
	// RewardDrawn is the part of ReporterCredit funded by the reward pool.
	RewardDrawn uint64
}

// Compute derives the settlement for a verdict.
//
// Signal valid: the challenger's bond is split by the slashing rate. That
// fraction goes to the reporter, the remainder to the fee recipient. The
// reporter additionally earns an accuracy reward of accuracyRate percent
// of their own bond, drawn from the reward pool and capped at the pool's
// balance.
//
// Signal false: slashingRate percent of the reporter's bond moves to the
// challenger, and the challenger's own bond is returned in full.
func Compute(signalValid bool, reporterBond, challengerBond, slashingRate, accuracyRate, poolBalance uint64) (Settlement, error) {
	if signalValid {
		toReporter, ok := safemath.Percent(challengerBond, slashingRate)
		if !ok {
			return Settlement{}, safemath.ErrOverflow
		}
		fee, ok := safemath.Sub64(challengerBond, toReporter)
		if !ok {
			return Settlement{}, safemath.ErrOverflow
		}
		reward, ok := safemath.Percent(reporterBond, accuracyRate)
		if !ok {
			return Settlement{}, safemath.ErrOverflow
		}
		if reward > poolBalance {
			reward = poolBalance
		}
		credit, ok := safemath.Add64(toReporter, reward)
		if !ok {
			return Settlement{}, safemath.ErrOverflow
		}
		return Settlement{
			ReporterCredit: credit,
			FeePayout:      fee,
			RewardDrawn:    reward,
		}, nil
	}

	slashed, ok := safemath.Percent(reporterBond, slashingRate)
	if !ok {
		return Settlement{}, safemath.ErrOverflow
	}
	payout, ok := safemath.Add64(challengerBond, slashed)
	if !ok {
		return Settlement{}, safemath.ErrOverflow
	}
	return Settlement{
		ReporterDebit:    slashed,
		ChallengerPayout: payout,
	}, nil
}
