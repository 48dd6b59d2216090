// Package reputation implements the scoring ledger driven by the external
// incident authority. It is independent of the bonding/dispute side: its
// stake, score and history live in their own namespace and react only to
// validated/disputed verdicts, manual overrides and bans.
package reputation

import (
	"errors"
	"time"

	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/safemath"
	"github.com/chainward/chainward/internal/watchtime"
	"github.com/chainward/chainward/pkg/log"
)

var (
	ErrAlreadyJoined   = errors.New("principal already joined")
	ErrNotJoined       = errors.New("principal not joined")
	ErrNotActive       = errors.New("principal not active")
	ErrStakeBelowMin   = errors.New("stake below minimum")
	ErrScoreOutOfRange = errors.New("score adjustment out of range")
	ErrInvalidConfig   = errors.New("invalid reputation config")
)

// Config carries the tracker's adjustable magnitudes.
type Config struct {
	MaxScore     uint64 // upper bound of the reputation score
	InitialScore uint64 // score assigned on joining
	Reward       uint64 // score added per validated report
	Penalty      uint64 // score subtracted per disputed report
	SlashPercent uint64 // stake percentage slashed per disputed report
	MinStake     uint64 // stake floor; below it a zero score bans
}

// DefaultConfig mirrors the upstream deployment: scores in [0,200],
// joining mid-range at 100.
func DefaultConfig() Config {
	return Config{
		MaxScore:     200,
		InitialScore: 100,
		Reward:       10,
		Penalty:      50,
		SlashPercent: 10,
		MinStake:     50,
	}
}

// Validate checks internal consistency of a config.
func (c Config) Validate() error {
	if c.MaxScore == 0 || c.InitialScore > c.MaxScore {
		return ErrInvalidConfig
	}
	if c.SlashPercent > 100 {
		return ErrInvalidConfig
	}
	if c.MinStake == 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Record is one principal's standing in the reputation system.
type Record struct {
	Principal         principal.Principal `json:"principal"`
	StakedAmount      uint64              `json:"stakedAmount"`
	Score             uint64              `json:"score"`
	SuccessfulReports uint64              `json:"successfulReports"`
	FailedReports     uint64              `json:"failedReports"`
	Slashings         uint64              `json:"slashings"`
	JoinedAt          time.Time           `json:"joinedAt"`
	Active            bool                `json:"active"`
}

// Event is one signed score change. The history of events is append-only
// and never rewritten.
type Event struct {
	Seq        uint64              `json:"seq"`
	Principal  principal.Principal `json:"principal"`
	Delta      int64               `json:"delta"`
	Reason     string              `json:"reason"`
	ScoreAfter uint64              `json:"scoreAfter"`
	At         time.Time           `json:"at"`
}

// Tracker maintains every reputation record, the active-principal index
// and the append-only event history.
type Tracker struct {
	cfg     Config
	clock   watchtime.Clock
	records map[principal.Principal]*Record
	active  []principal.Principal
	pos     map[principal.Principal]int
	history []Event
	nextSeq uint64
}

func NewTracker(cfg Config, clk watchtime.Clock) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{
		cfg:     cfg,
		clock:   clk,
		records: make(map[principal.Principal]*Record),
		pos:     make(map[principal.Principal]int),
		nextSeq: 1,
	}, nil
}

func (t *Tracker) Config() Config {
	return t.cfg
}

// SetConfig swaps the magnitudes after validating them.
func (t *Tracker) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	t.cfg = cfg
	return nil
}

// Join creates an active record at the initial mid-range score. A banned
// or departed principal re-joins fresh: counters reset, history retained.
func (t *Tracker) Join(p principal.Principal, stake uint64) (*Record, error) {
	if r, ok := t.records[p]; ok && r.Active {
		return nil, ErrAlreadyJoined
	}
	if stake < t.cfg.MinStake {
		return nil, ErrStakeBelowMin
	}
	r := &Record{
		Principal:    p,
		StakedAmount: stake,
		Score:        t.cfg.InitialScore,
		JoinedAt:     t.clock.Now(),
		Active:       true,
	}
	t.records[p] = r
	t.addActive(p)
	return r, nil
}

// Leave deactivates a record voluntarily and reports the stake to release.
func (t *Tracker) Leave(p principal.Principal) (release uint64, err error) {
	r, ok := t.records[p]
	if !ok {
		return 0, ErrNotJoined
	}
	if !r.Active {
		return 0, ErrNotActive
	}
	release = r.StakedAmount
	r.StakedAmount = 0
	r.Active = false
	t.removeActive(p)
	return release, nil
}

// Validated applies an accurate-report verdict: reward the score, capped
// at MaxScore, and append a positive history entry.
func (t *Tracker) Validated(p principal.Principal) (*Event, error) {
	r, err := t.activeRecord(p)
	if err != nil {
		return nil, err
	}
	r.SuccessfulReports++
	before := r.Score
	r.Score += t.cfg.Reward
	if r.Score > t.cfg.MaxScore {
		r.Score = t.cfg.MaxScore
	}
	ev := t.append(p, int64(r.Score-before), "report validated", r.Score)
	return ev, nil
}

// Disputed applies a false-report verdict: floor-bounded score penalty,
// stake slash, negative history entry, and the auto-ban check. The slashed
// stake amount is returned for the engine to dispose of. When the verdict
// triggers the auto-ban, the sub-minimum remainder of the stake is
// forfeited too and included in that amount, so no value stays bound to
// the deactivated record.
func (t *Tracker) Disputed(p principal.Principal) (*Event, uint64, error) {
	r, err := t.activeRecord(p)
	if err != nil {
		return nil, 0, err
	}
	r.FailedReports++
	r.Slashings++

	before := r.Score
	if r.Score > t.cfg.Penalty {
		r.Score -= t.cfg.Penalty
	} else {
		r.Score = 0
	}

	slashed, ok := safemath.Percent(r.StakedAmount, t.cfg.SlashPercent)
	if !ok {
		return nil, 0, safemath.ErrOverflow
	}
	r.StakedAmount -= slashed

	ev := t.append(p, -int64(before-r.Score), "report disputed", r.Score)

	// Terminal state: both trust and collateral exhausted. The remainder
	// is forfeited with the slash; a record with no release path must not
	// keep value in custody.
	if r.Score == 0 && r.StakedAmount < t.cfg.MinStake {
		slashed += r.StakedAmount
		r.StakedAmount = 0
		r.Active = false
		t.removeActive(p)
	}
	return ev, slashed, nil
}

// Ban deactivates a principal regardless of score and stake. The remaining
// stake is reported back for the engine to dispose of.
func (t *Tracker) Ban(p principal.Principal, reason string) (*Event, uint64, error) {
	r, ok := t.records[p]
	if !ok {
		return nil, 0, ErrNotJoined
	}
	if !r.Active {
		return nil, 0, ErrNotActive
	}
	forfeited := r.StakedAmount
	r.StakedAmount = 0
	r.Active = false
	t.removeActive(p)
	ev := t.append(p, -int64(r.Score), "banned: "+reason, 0)
	r.Score = 0
	return ev, forfeited, nil
}

// Adjust applies a manual correction bounded to [0, MaxScore].
func (t *Tracker) Adjust(p principal.Principal, delta int64, reason string) (*Event, error) {
	r, err := t.activeRecord(p)
	if err != nil {
		return nil, err
	}
	next := int64(r.Score) + delta
	if next < 0 || uint64(next) > t.cfg.MaxScore {
		return nil, ErrScoreOutOfRange
	}
	r.Score = uint64(next)
	return t.append(p, delta, reason, r.Score), nil
}

// Record returns the record for p, active or not.
func (t *Tracker) Record(p principal.Principal) (*Record, error) {
	r, ok := t.records[p]
	if !ok {
		return nil, ErrNotJoined
	}
	return r, nil
}

// ActivePrincipals returns the active-principal index in its current order.
func (t *Tracker) ActivePrincipals() []principal.Principal {
	out := make([]principal.Principal, len(t.active))
	copy(out, t.active)
	return out
}

// History returns all events for p in append order.
func (t *Tracker) History(p principal.Principal) []Event {
	var out []Event
	for _, ev := range t.history {
		if ev.Principal == p {
			out = append(out, ev)
		}
	}
	return out
}

// Events returns the full append-only history.
func (t *Tracker) Events() []Event {
	out := make([]Event, len(t.history))
	copy(out, t.history)
	return out
}

// Restore injects records and history loaded from the persistent store.
func (t *Tracker) Restore(records []Record, history []Event) {
	for i := range records {
		r := records[i]
		t.records[r.Principal] = &r
		if r.Active {
			t.addActive(r.Principal)
		}
	}
	t.history = append(t.history, history...)
	for _, ev := range history {
		if ev.Seq >= t.nextSeq {
			t.nextSeq = ev.Seq + 1
		}
	}
	log.Reputation.Debug().Int("records", len(records)).
		Int("events", len(history)).Msg("reputation state restored")
}

func (t *Tracker) activeRecord(p principal.Principal) (*Record, error) {
	r, ok := t.records[p]
	if !ok {
		return nil, ErrNotJoined
	}
	if !r.Active {
		return nil, ErrNotActive
	}
	return r, nil
}

func (t *Tracker) append(p principal.Principal, delta int64, reason string, scoreAfter uint64) *Event {
	ev := Event{
		Seq:        t.nextSeq,
		Principal:  p,
		Delta:      delta,
		Reason:     reason,
		ScoreAfter: scoreAfter,
		At:         t.clock.Now(),
	}
	t.history = append(t.history, ev)
	t.nextSeq++
	return &t.history[len(t.history)-1]
}

func (t *Tracker) addActive(p principal.Principal) {
	t.pos[p] = len(t.active)
	t.active = append(t.active, p)
}

// removeActive drops p from the index by swapping the last entry into its
// slot and popping, keeping removal O(1).
func (t *Tracker) removeActive(p principal.Principal) {
	i, ok := t.pos[p]
	if !ok {
		return
	}
	last := len(t.active) - 1
	if i != last {
		moved := t.active[last]
		t.active[i] = moved
		t.pos[moved] = i
	}
	t.active = t.active[:last]
	delete(t.pos, p)
}
