// Package params holds the adjustable economic knobs of the engine. The
// upstream contract packed both rates into a single wide integer to save
// storage slots; here they are two plain bounded fields and only the
// semantic invariant survives: every rate stays within [0, MaxRate].
package params

import (
	"errors"
	"time"
)

// MaxRate is the upper bound for all percentage rates.
const MaxRate = 100

var (
	ErrRateOutOfRange = errors.New("rate exceeds 100 percent")
	ErrZeroWindow     = errors.New("window must be positive")
)

// Params carries every adjustable knob. Mutation goes through the setters,
// which validate and leave the previous values untouched on failure.
type Params struct {
	slashingRate       uint64
	accuracyRewardRate uint64
	disputeWindow      time.Duration
	arbitrationWindow  time.Duration
}

// Default returns the engine's starting parameters: 50% slashing, 10%
// accuracy reward, 24h dispute window, 72h arbitration window.
func Default() *Params {
	return &Params{
		slashingRate:       50,
		accuracyRewardRate: 10,
		disputeWindow:      24 * time.Hour,
		arbitrationWindow:  72 * time.Hour,
	}
}

func (p *Params) SlashingRate() uint64       { return p.slashingRate }
func (p *Params) AccuracyRewardRate() uint64 { return p.accuracyRewardRate }
func (p *Params) DisputeWindow() time.Duration {
	return p.disputeWindow
}
func (p *Params) ArbitrationWindow() time.Duration {
	return p.arbitrationWindow
}

// SetRates updates the slashing and accuracy-reward rates together. Both
// must be at most MaxRate; on failure neither changes.
func (p *Params) SetRates(slashing, accuracyReward uint64) error {
	if slashing > MaxRate || accuracyReward > MaxRate {
		return ErrRateOutOfRange
	}
	p.slashingRate = slashing
	p.accuracyRewardRate = accuracyReward
	return nil
}

// SetWindows updates the dispute and arbitration windows together. Both
// must be positive; on failure neither changes.
func (p *Params) SetWindows(dispute, arbitration time.Duration) error {
	if dispute <= 0 || arbitration <= 0 {
		return ErrZeroWindow
	}
	p.disputeWindow = dispute
	p.arbitrationWindow = arbitration
	return nil
}
