package reputation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/reputation"
	"github.com/chainward/chainward/internal/watchtime"
)

var carol = principal.Principal{0xca}

func newTracker(t *testing.T, cfg reputation.Config) *reputation.Tracker {
	t.Helper()
	tr, err := reputation.NewTracker(cfg, watchtime.NewMock())
	require.NoError(t, err)
	return tr
}

func TestJoinStartsMidRange(t *testing.T) {
	tr := newTracker(t, reputation.DefaultConfig())

	r, err := tr.Join(carol, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), r.Score)
	require.Equal(t, uint64(100), r.StakedAmount)
	require.True(t, r.Active)

	_, err = tr.Join(carol, 100)
	require.ErrorIs(t, err, reputation.ErrAlreadyJoined)

	_, err = tr.Join(principal.Principal{0xcb}, 49)
	require.ErrorIs(t, err, reputation.ErrStakeBelowMin)
}

func TestScoreBoundedAtBothEnds(t *testing.T) {
	cfg := reputation.DefaultConfig()
	cfg.Reward = 60
	cfg.Penalty = 80
	tr := newTracker(t, cfg)
	_, err := tr.Join(carol, 10_000)
	require.NoError(t, err)

	// 100 -> 160 -> 200 (capped) -> 200
	for i := 0; i < 3; i++ {
		_, err := tr.Validated(carol)
		require.NoError(t, err)
	}
	r, err := tr.Record(carol)
	require.NoError(t, err)
	require.Equal(t, uint64(200), r.Score)
	require.Equal(t, uint64(3), r.SuccessfulReports)

	// 200 -> 120 -> 40 -> 0 (floored); stake 10_000 stays far above the
	// minimum so no auto-ban fires.
	for i := 0; i < 3; i++ {
		_, _, err := tr.Disputed(carol)
		require.NoError(t, err)
	}
	r, err = tr.Record(carol)
	require.NoError(t, err)
	require.Zero(t, r.Score)
	require.True(t, r.Active)
}

func TestDisputedSlashesStake(t *testing.T) {
	cfg := reputation.DefaultConfig()
	cfg.SlashPercent = 10
	tr := newTracker(t, cfg)
	_, err := tr.Join(carol, 1_000)
	require.NoError(t, err)

	ev, slashed, err := tr.Disputed(carol)
	require.NoError(t, err)
	require.Equal(t, uint64(100), slashed)
	require.Equal(t, int64(-50), ev.Delta)

	r, err := tr.Record(carol)
	require.NoError(t, err)
	require.Equal(t, uint64(900), r.StakedAmount)
	require.Equal(t, uint64(1), r.FailedReports)
	require.Equal(t, uint64(1), r.Slashings)
}

func TestAutoBanWhenScoreAndStakeExhausted(t *testing.T) {
	// Score 100 with penalty 50 hits zero on the second verdict (capped,
	// not negative); a 20% slash on a stake of 100 drops below the
	// minimum of 50 on the fourth, so that verdict bans.
	cfg := reputation.Config{
		MaxScore:     200,
		InitialScore: 100,
		Reward:       10,
		Penalty:      50,
		SlashPercent: 20,
		MinStake:     50,
	}
	tr := newTracker(t, cfg)
	_, err := tr.Join(carol, 100)
	require.NoError(t, err)

	// Stake after each call: 80, 64, 52, then the banning verdict slashes
	// 10 and forfeits the remaining 42 with it.
	var slashed uint64
	for i := 0; i < 4; i++ {
		_, s, err := tr.Disputed(carol)
		require.NoError(t, err)
		slashed = s
	}
	require.Equal(t, uint64(52), slashed)
	r, err := tr.Record(carol)
	require.NoError(t, err)
	require.Zero(t, r.Score)
	require.Zero(t, r.StakedAmount)
	require.False(t, r.Active)
	require.Empty(t, tr.ActivePrincipals())

	// Terminal until re-registration.
	_, _, err = tr.Disputed(carol)
	require.ErrorIs(t, err, reputation.ErrNotActive)
	_, err = tr.Validated(carol)
	require.ErrorIs(t, err, reputation.ErrNotActive)

	// Re-joining starts fresh.
	r, err = tr.Join(carol, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), r.Score)
	require.Zero(t, r.FailedReports)
}

func TestBanOverridesScoreAndStake(t *testing.T) {
	tr := newTracker(t, reputation.DefaultConfig())
	_, err := tr.Join(carol, 500)
	require.NoError(t, err)

	_, forfeited, err := tr.Ban(carol, "collusion with reporter")
	require.NoError(t, err)
	require.Equal(t, uint64(500), forfeited)

	r, err := tr.Record(carol)
	require.NoError(t, err)
	require.False(t, r.Active)
	require.Zero(t, r.Score)

	_, _, err = tr.Ban(carol, "again")
	require.ErrorIs(t, err, reputation.ErrNotActive)
}

func TestAdjustBounded(t *testing.T) {
	tr := newTracker(t, reputation.DefaultConfig())
	_, err := tr.Join(carol, 100)
	require.NoError(t, err)

	ev, err := tr.Adjust(carol, 30, "manual correction")
	require.NoError(t, err)
	require.Equal(t, uint64(130), ev.ScoreAfter)

	_, err = tr.Adjust(carol, 100, "too much")
	require.ErrorIs(t, err, reputation.ErrScoreOutOfRange)
	_, err = tr.Adjust(carol, -131, "too little")
	require.ErrorIs(t, err, reputation.ErrScoreOutOfRange)

	r, err := tr.Record(carol)
	require.NoError(t, err)
	require.Equal(t, uint64(130), r.Score)
}

func TestHistoryAppendOnly(t *testing.T) {
	tr := newTracker(t, reputation.DefaultConfig())
	_, err := tr.Join(carol, 1_000)
	require.NoError(t, err)

	_, err = tr.Validated(carol)
	require.NoError(t, err)
	_, _, err = tr.Disputed(carol)
	require.NoError(t, err)
	_, err = tr.Adjust(carol, 5, "audit correction")
	require.NoError(t, err)

	hist := tr.History(carol)
	require.Len(t, hist, 3)
	require.Equal(t, int64(10), hist[0].Delta)
	require.Equal(t, "report validated", hist[0].Reason)
	require.Equal(t, int64(-50), hist[1].Delta)
	require.Equal(t, "report disputed", hist[1].Reason)
	require.Equal(t, int64(5), hist[2].Delta)

	// Sequence numbers are strictly increasing.
	for i := 1; i < len(hist); i++ {
		require.Greater(t, hist[i].Seq, hist[i-1].Seq)
	}
}

func TestActiveIndexSwapPop(t *testing.T) {
	tr := newTracker(t, reputation.DefaultConfig())
	p1 := principal.Principal{1}
	p2 := principal.Principal{2}
	p3 := principal.Principal{3}
	for _, p := range []principal.Principal{p1, p2, p3} {
		_, err := tr.Join(p, 100)
		require.NoError(t, err)
	}

	_, _, err := tr.Ban(p1, "test")
	require.NoError(t, err)

	active := tr.ActivePrincipals()
	require.Len(t, active, 2)
	// The last entry was swapped into the banned principal's slot.
	require.Equal(t, p3, active[0])
	require.Equal(t, p2, active[1])
}
