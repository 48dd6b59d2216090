package reporter

import (
	"time"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/principal"
)

// Directory holds every reporter record and the signal ledger. Signal ids
// are allocated from a strictly monotonic counter together with the record
// insert, so no two signals can ever share an id.
type Directory struct {
	reporters    map[principal.Principal]*Reporter
	signals      map[uint64]*Signal
	nextSignalID uint64
}

func NewDirectory() *Directory {
	return &Directory{
		reporters:    make(map[principal.Principal]*Reporter),
		signals:      make(map[uint64]*Signal),
		nextSignalID: 1,
	}
}

// Register creates an active reporter record with zero counters. The bond
// is assumed to already sit in custody; minimum checks happen before any
// transfer, in the engine.
func (d *Directory) Register(p principal.Principal, a asset.Asset, bonded uint64) (*Reporter, error) {
	if r, ok := d.reporters[p]; ok && r.Active {
		return nil, ErrAlreadyRegistered
	}
	r := &Reporter{
		Principal:    p,
		Asset:        a,
		BondedAmount: bonded,
		Active:       true,
	}
	d.reporters[p] = r
	return r, nil
}

// Unregister deactivates a reporter. The full bonded amount is reported
// back to the caller for refunding. Refused while any dispute against the
// reporter's signals is open.
func (d *Directory) Unregister(p principal.Principal) (refund uint64, err error) {
	r, ok := d.reporters[p]
	if !ok || !r.Active {
		return 0, ErrNotRegistered
	}
	if r.OpenDisputes > 0 {
		return 0, ErrOpenDisputes
	}
	refund = r.BondedAmount
	r.BondedAmount = 0
	r.Active = false
	return refund, nil
}

// Get returns the reporter record for p, active or not.
func (d *Directory) Get(p principal.Principal) (*Reporter, error) {
	r, ok := d.reporters[p]
	if !ok {
		return nil, ErrNotRegistered
	}
	return r, nil
}

// Active returns the active reporter record for p.
func (d *Directory) Active(p principal.Principal) (*Reporter, error) {
	r, ok := d.reporters[p]
	if !ok {
		return nil, ErrNotRegistered
	}
	if !r.Active {
		return nil, ErrReporterInactive
	}
	return r, nil
}

// RecordSignal appends a signal for an active reporter and returns the new
// record. Ids grow strictly; a failed call never consumes one.
func (d *Directory) RecordSignal(p principal.Principal, chainID uint64, typ SignalType, description string, at time.Time) (*Signal, error) {
	r, err := d.Active(p)
	if err != nil {
		return nil, err
	}
	s := &Signal{
		ID:          d.nextSignalID,
		Reporter:    p,
		ChainID:     chainID,
		Timestamp:   at,
		Type:        typ,
		Description: description,
	}
	d.signals[s.ID] = s
	d.nextSignalID++
	r.SignalCount++
	return s, nil
}

// Signal returns the signal with the given id.
func (d *Directory) Signal(id uint64) (*Signal, error) {
	s, ok := d.signals[id]
	if !ok {
		return nil, ErrSignalNotFound
	}
	return s, nil
}

// SignalsBy returns all signals of one reporter in id order.
func (d *Directory) SignalsBy(p principal.Principal) []*Signal {
	var out []*Signal
	for id := uint64(1); id < d.nextSignalID; id++ {
		if s, ok := d.signals[id]; ok && s.Reporter == p {
			out = append(out, s)
		}
	}
	return out
}

// AccuracyRate returns the reporter's verified-true signal share in basis
// points, tracked with running counters rather than a ledger scan.
func (d *Directory) AccuracyRate(p principal.Principal) (uint64, error) {
	r, ok := d.reporters[p]
	if !ok {
		return 0, ErrNotRegistered
	}
	if r.SignalCount == 0 {
		return 0, nil
	}
	return r.VerifiedSignals * 10_000 / r.SignalCount, nil
}

// Restore injects records loaded from the persistent store. The signal id
// counter resumes above the highest restored id.
func (d *Directory) Restore(reporters []Reporter, signals []Signal) {
	for i := range reporters {
		r := reporters[i]
		d.reporters[r.Principal] = &r
	}
	for i := range signals {
		s := signals[i]
		d.signals[s.ID] = &s
		if s.ID >= d.nextSignalID {
			d.nextSignalID = s.ID + 1
		}
	}
}
