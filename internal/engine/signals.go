package engine

import (
	"github.com/chainward/chainward/internal/authority"
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/reporter"
)

// RecordSignal is the sole entry point by which externally detected
// anomalies become engine state. Only the authorized health-monitor caller
// may record, and only on behalf of an active registered reporter.
func (e *Engine) RecordSignal(caller, rep principal.Principal, chainID uint64, typ reporter.SignalType, description string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.auth.Check(caller, authority.CanRecordSignals); err != nil {
		return 0, err
	}
	s, err := e.directory.RecordSignal(rep, chainID, typ, description, e.clock.Now())
	if err != nil {
		return 0, err
	}

	r, err := e.directory.Get(rep)
	if err != nil {
		return 0, err
	}
	if err := e.persistSignal(s); err != nil {
		return 0, err
	}
	if err := e.persistReporter(r); err != nil {
		return 0, err
	}

	e.log.Debug().Uint64("signal", s.ID).Stringer("reporter", rep).
		Uint64("chain", chainID).Stringer("type", typ).Msg("signal recorded")
	return s.ID, nil
}

// Reporter returns the reporter record for p.
func (e *Engine) Reporter(p principal.Principal) (reporter.Reporter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.directory.Get(p)
	if err != nil {
		return reporter.Reporter{}, err
	}
	return *r, nil
}

// Signal returns the signal with the given id.
func (e *Engine) Signal(id uint64) (reporter.Signal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.directory.Signal(id)
	if err != nil {
		return reporter.Signal{}, err
	}
	return *s, nil
}

// SignalsBy returns all signals of one reporter in id order.
func (e *Engine) SignalsBy(p principal.Principal) []reporter.Signal {
	e.mu.Lock()
	defer e.mu.Unlock()
	ptrs := e.directory.SignalsBy(p)
	out := make([]reporter.Signal, len(ptrs))
	for i, s := range ptrs {
		out[i] = *s
	}
	return out
}

// AccuracyRate returns the verified-true share of a reporter's signals in
// basis points.
func (e *Engine) AccuracyRate(p principal.Principal) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.directory.AccuracyRate(p)
}
