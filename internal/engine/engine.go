// Package engine wires the reporter directory, signal ledger, dispute
// book, parameter store and reputation tracker behind one serialized
// facade. Every mutating call validates fully before it moves value or
// touches a record, runs under a single mutex, and either applies
// completely or leaves all state as it was.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chainward/chainward/internal/asset"
	"github.com/chainward/chainward/internal/authority"
	"github.com/chainward/chainward/internal/dispute"
	"github.com/chainward/chainward/internal/params"
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/reporter"
	"github.com/chainward/chainward/internal/reputation"
	"github.com/chainward/chainward/internal/safemath"
	"github.com/chainward/chainward/internal/store"
	"github.com/chainward/chainward/internal/watchtime"
)

var (
	ErrBondBelowMinimum = errors.New("bond below asset minimum")
	ErrNoStore          = errors.New("engine has no persistent store")
)

// Config assembles an engine.
type Config struct {
	Owner        principal.Principal
	Arbitrator   principal.Principal
	FeeRecipient principal.Principal
	Params       *params.Params
	Reputation   reputation.Config
	Clock        watchtime.Clock
	Store        *store.Store // nil runs the engine memory-only
	Logger       zerolog.Logger
}

// Engine is the bonding, signal-recording, dispute-arbitration and
// reputation-adjustment core.
type Engine struct {
	mu sync.Mutex

	clock        watchtime.Clock
	log          zerolog.Logger
	auth         *authority.Authority
	assets       *asset.Registry
	params       *params.Params
	directory    *reporter.Directory
	disputes     *dispute.Book
	tracker      *reputation.Tracker
	store        *store.Store
	feeRecipient principal.Principal
	rewardPools  map[asset.Asset]uint64
}

func New(cfg Config) (*Engine, error) {
	if cfg.Clock == nil {
		cfg.Clock = watchtime.New()
	}
	if cfg.Params == nil {
		cfg.Params = params.Default()
	}
	tracker, err := reputation.NewTracker(cfg.Reputation, cfg.Clock)
	if err != nil {
		return nil, fmt.Errorf("reputation config: %w", err)
	}

	auth := authority.New(cfg.Owner)
	if !cfg.Arbitrator.IsZero() {
		if err := auth.Grant(cfg.Owner, cfg.Arbitrator, authority.CanArbitrate); err != nil {
			return nil, err
		}
	}

	return &Engine{
		clock:        cfg.Clock,
		log:          cfg.Logger,
		auth:         auth,
		assets:       asset.NewRegistry(),
		params:       cfg.Params,
		directory:    reporter.NewDirectory(),
		disputes:     dispute.NewBook(),
		tracker:      tracker,
		store:        cfg.Store,
		feeRecipient: cfg.FeeRecipient,
		rewardPools:  make(map[asset.Asset]uint64),
	}, nil
}

// Reload restores in-memory state from the persistent store. It is meant
// to run once, before the engine starts serving calls.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return ErrNoStore
	}

	reporters, err := e.store.Reporters()
	if err != nil {
		return fmt.Errorf("load reporters: %w", err)
	}
	signals, err := e.store.Signals()
	if err != nil {
		return fmt.Errorf("load signals: %w", err)
	}
	e.directory.Restore(reporters, signals)

	disputes, err := e.store.Disputes()
	if err != nil {
		return fmt.Errorf("load disputes: %w", err)
	}
	e.disputes.Restore(disputes)

	records, err := e.store.ReputationRecords()
	if err != nil {
		return fmt.Errorf("load reputation records: %w", err)
	}
	history, err := e.store.Events()
	if err != nil {
		return fmt.Errorf("load reputation history: %w", err)
	}
	e.tracker.Restore(records, history)

	pools, err := e.store.RewardPools()
	if err != nil {
		return fmt.Errorf("load reward pools: %w", err)
	}
	for _, pool := range pools {
		e.rewardPools[pool.Asset] = pool.Balance
	}

	e.log.Info().
		Int("reporters", len(reporters)).
		Int("signals", len(signals)).
		Int("disputes", len(disputes)).
		Msg("state reloaded")
	return nil
}

// persistReporter writes through to the store when one is attached.
func (e *Engine) persistReporter(r *reporter.Reporter) error {
	if e.store == nil {
		return nil
	}
	return e.store.PutReporter(r)
}

func (e *Engine) persistSignal(s *reporter.Signal) error {
	if e.store == nil {
		return nil
	}
	return e.store.PutSignal(s)
}

func (e *Engine) persistDispute(d *dispute.Dispute) error {
	if e.store == nil {
		return nil
	}
	return e.store.PutDispute(d)
}

func (e *Engine) persistReputation(r *reputation.Record, ev *reputation.Event) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.PutReputation(r); err != nil {
		return err
	}
	if ev != nil {
		return e.store.AppendEvent(ev)
	}
	return nil
}

// custodyCredit adds amount to a bonded balance held in custody.
func custodyCredit(balance, amount uint64) (uint64, error) {
	next, ok := safemath.Add64(balance, amount)
	if !ok {
		return 0, safemath.ErrOverflow
	}
	return next, nil
}
