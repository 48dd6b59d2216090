// Package reporter implements the reporter directory and the append-only
// signal ledger. Records are pure in-memory state; all value movement and
// serialization around registration is orchestrated by the engine so that
// each operation stays a single critical section.
package reporter

import (
	"errors"
	"time"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/principal"
)

var (
	ErrAlreadyRegistered = errors.New("reporter already registered")
	ErrNotRegistered     = errors.New("reporter not registered")
	ErrReporterInactive  = errors.New("reporter not active")
	ErrOpenDisputes      = errors.New("reporter has open disputes")
	ErrSignalNotFound    = errors.New("signal not found")
	ErrBondBelowMinimum  = errors.New("bond below asset minimum")
)

// SignalType classifies what the health monitor observed about a subject
// chain.
type SignalType uint8

const (
	SignalDowntime SignalType = iota
	SignalStalledBlocks
	SignalHighLatency
	SignalReorg
	SignalCustom
)

func (t SignalType) String() string {
	switch t {
	case SignalDowntime:
		return "downtime"
	case SignalStalledBlocks:
		return "stalled-blocks"
	case SignalHighLatency:
		return "high-latency"
	case SignalReorg:
		return "reorg"
	case SignalCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Reporter is a registered reporting principal and its bonded collateral.
type Reporter struct {
	Principal       principal.Principal `json:"principal"`
	Asset           asset.Asset         `json:"asset"`
	BondedAmount    uint64              `json:"bondedAmount"`
	SignalCount     uint64              `json:"signalCount"`
	VerifiedSignals uint64              `json:"verifiedSignals"`
	OpenDisputes    uint32              `json:"openDisputes"`
	Active          bool                `json:"active"`
}

// Signal is one health/incident claim about a subject chain. Signals are
// never deleted and their ids are never reused.
type Signal struct {
	ID           uint64              `json:"id"`
	Reporter     principal.Principal `json:"reporter"`
	ChainID      uint64              `json:"chainId"`
	Timestamp    time.Time           `json:"timestamp"`
	Type         SignalType          `json:"type"`
	Description  string              `json:"description"`
	Disputed     bool                `json:"disputed"`
	Verified     bool                `json:"verified"`
	DisputeCount uint32              `json:"disputeCount"`
}
