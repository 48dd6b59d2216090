package store

import (
	"fmt"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/dispute"
	"github.com/chainward/chainward/internal/reporter"
	"github.com/chainward/chainward/internal/reputation"
	"github.com/chainward/chainward/pkg/log"
)

// RewardPool is the persisted balance of one asset's accuracy-reward pool.
type RewardPool struct {
	Asset   asset.Asset `json:"asset"`
	Balance uint64      `json:"balance"`
}

// PutRewardPool writes one pool balance keyed by asset symbol.
func (s *Store) PutRewardPool(a asset.Asset, balance uint64) error {
	return s.putJSON(makeSymbolKey(prefixRewardPool, string(a)), RewardPool{Asset: a, Balance: balance})
}

// RewardPools loads every pool balance.
func (s *Store) RewardPools() ([]RewardPool, error) {
	return loadAll[RewardPool](s, prefixRewardPool)
}

// PutReporter writes a reporter record keyed by principal.
func (s *Store) PutReporter(r *reporter.Reporter) error {
	return s.putJSON(makePrincipalKey(prefixReporter, r.Principal), r)
}

// Reporters loads every reporter record.
func (s *Store) Reporters() ([]reporter.Reporter, error) {
	return loadAll[reporter.Reporter](s, prefixReporter)
}

// PutSignal writes a signal keyed by id. Signals are only ever written
// with their latest flags; the record itself is never deleted.
func (s *Store) PutSignal(sig *reporter.Signal) error {
	return s.putJSON(makeIDKey(prefixSignal, sig.ID), sig)
}

// Signals loads every signal in id order.
func (s *Store) Signals() ([]reporter.Signal, error) {
	return loadAll[reporter.Signal](s, prefixSignal)
}

// PutDispute writes a dispute keyed by id.
func (s *Store) PutDispute(d *dispute.Dispute) error {
	return s.putJSON(makeIDKey(prefixDispute, d.ID), d)
}

// Disputes loads every dispute in id order.
func (s *Store) Disputes() ([]dispute.Dispute, error) {
	return loadAll[dispute.Dispute](s, prefixDispute)
}

// PutReputation writes a reputation record keyed by principal.
func (s *Store) PutReputation(r *reputation.Record) error {
	return s.putJSON(makePrincipalKey(prefixReputation, r.Principal), r)
}

// ReputationRecords loads every reputation record.
func (s *Store) ReputationRecords() ([]reputation.Record, error) {
	return loadAll[reputation.Record](s, prefixReputation)
}

// AppendEvent writes one reputation history entry keyed by its sequence
// number. An entry, once written, is never touched again.
func (s *Store) AppendEvent(ev *reputation.Event) error {
	return s.putJSON(makeIDKey(prefixReputationEvent, ev.Seq), ev)
}

// Events loads the full reputation history in sequence order.
func (s *Store) Events() ([]reputation.Event, error) {
	return loadAll[reputation.Event](s, prefixReputationEvent)
}

// ResolveBatch atomically writes the records a dispute resolution touches:
// the settled dispute, the verified signal and the reporter's new bond.
func (s *Store) ResolveBatch(d *dispute.Dispute, sig *reporter.Signal, r *reporter.Reporter) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	for _, item := range []struct {
		key []byte
		v   any
	}{
		{makeIDKey(prefixDispute, d.ID), d},
		{makeIDKey(prefixSignal, sig.ID), sig},
		{makePrincipalKey(prefixReporter, r.Principal), r},
	} {
		raw, err := marshalValue(item.v)
		if err != nil {
			return err
		}
		if err := batch.Put(item.key, raw); err != nil {
			return fmt.Errorf("batch put: %w", err)
		}
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	log.Store.Debug().Uint64("dispute", d.ID).Uint64("signal", sig.ID).
		Msg("settlement batch committed")
	return nil
}
