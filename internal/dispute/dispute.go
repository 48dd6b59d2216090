// Package dispute implements the challenge lifecycle against recorded
// signals. A signal moves Unchallenged -> Disputed -> Resolved exactly
// once; settled disputes are immutable and dispute ids are never reused.
package dispute

import (
	"errors"
	"time"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/principal"
)

var (
	ErrDisputeNotFound   = errors.New("dispute not found")
	ErrAlreadyDisputed   = errors.New("signal already disputed")
	ErrAlreadySettled    = errors.New("dispute already settled")
	ErrDisputeWindow     = errors.New("dispute window closed")
	ErrArbitrationWindow = errors.New("arbitration window closed")
	ErrNotExpired        = errors.New("arbitration window still open")
	ErrSelfChallenge     = errors.New("reporter cannot dispute own signal")
)

// Outcome of a settled dispute.
type Outcome uint8

const (
	// OutcomePending is the outcome of an unsettled dispute.
	OutcomePending Outcome = iota
	// OutcomeSignalValid: the arbitrator found the signal truthful.
	OutcomeSignalValid
	// OutcomeSignalFalse: the arbitrator found the signal false.
	OutcomeSignalFalse
	// OutcomeExpired: nobody arbitrated inside the window.
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSignalValid:
		return "signal-valid"
	case OutcomeSignalFalse:
		return "signal-false"
	case OutcomeExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Dispute is one challenge against one signal. The challenge bond equals
// the reporter's bonded amount at the moment the dispute was raised.
type Dispute struct {
	ID            uint64              `json:"id"`
	SignalID      uint64              `json:"signalId"`
	Challenger    principal.Principal `json:"challenger"`
	Asset         asset.Asset         `json:"asset"`
	ChallengeBond uint64              `json:"challengeBond"`
	Settled       bool                `json:"settled"`
	Outcome       Outcome             `json:"outcome"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// Book holds all disputes and enforces one dispute per signal, ever.
type Book struct {
	disputes map[uint64]*Dispute
	bySignal map[uint64]uint64
	nextID   uint64
}

func NewBook() *Book {
	return &Book{
		disputes: make(map[uint64]*Dispute),
		bySignal: make(map[uint64]uint64),
		nextID:   1,
	}
}

// Open creates a dispute record against a signal. The caller has already
// validated the signal's state and window and locked the challenge bond.
func (b *Book) Open(signalID uint64, challenger principal.Principal, a asset.Asset, bond uint64, at time.Time) (*Dispute, error) {
	if _, ok := b.bySignal[signalID]; ok {
		return nil, ErrAlreadyDisputed
	}
	d := &Dispute{
		ID:            b.nextID,
		SignalID:      signalID,
		Challenger:    challenger,
		Asset:         a,
		ChallengeBond: bond,
		CreatedAt:     at,
	}
	b.disputes[d.ID] = d
	b.bySignal[signalID] = d.ID
	b.nextID++
	return d, nil
}

// Settle marks a dispute terminal with the given outcome. Calling it on an
// already-settled dispute fails and changes nothing.
func (b *Book) Settle(id uint64, outcome Outcome) (*Dispute, error) {
	d, ok := b.disputes[id]
	if !ok {
		return nil, ErrDisputeNotFound
	}
	if d.Settled {
		return nil, ErrAlreadySettled
	}
	d.Settled = true
	d.Outcome = outcome
	return d, nil
}

// Get returns the dispute with the given id.
func (b *Book) Get(id uint64) (*Dispute, error) {
	d, ok := b.disputes[id]
	if !ok {
		return nil, ErrDisputeNotFound
	}
	return d, nil
}

// ForSignal returns the dispute raised against a signal, if any.
func (b *Book) ForSignal(signalID uint64) (*Dispute, bool) {
	id, ok := b.bySignal[signalID]
	if !ok {
		return nil, false
	}
	return b.disputes[id], true
}

// Restore injects disputes loaded from the persistent store. The id
// counter resumes above the highest restored id.
func (b *Book) Restore(disputes []Dispute) {
	for i := range disputes {
		d := disputes[i]
		b.disputes[d.ID] = &d
		b.bySignal[d.SignalID] = d.ID
		if d.ID >= b.nextID {
			b.nextID = d.ID + 1
		}
	}
}
