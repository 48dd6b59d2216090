package authority_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainward/chainward/internal/authority"
	"github.com/chainward/chainward/internal/principal"
)

func TestOwnerHoldsEverything(t *testing.T) {
	owner := principal.Principal{1}
	auth := authority.New(owner)

	require.True(t, auth.Has(owner, authority.CanSetParameters|authority.CanArbitrate|authority.CanBan))
	require.NoError(t, auth.Check(owner, authority.CanJudgeReports))
}

func TestGrantRevoke(t *testing.T) {
	owner := principal.Principal{1}
	arbiter := principal.Principal{2}
	auth := authority.New(owner)

	require.Error(t, auth.Check(arbiter, authority.CanArbitrate))

	err := auth.Grant(owner, arbiter, authority.CanArbitrate)
	require.NoError(t, err)
	require.NoError(t, auth.Check(arbiter, authority.CanArbitrate))
	// Arbitration does not imply anything else.
	require.ErrorIs(t, auth.Check(arbiter, authority.CanBan), authority.ErrForbidden)

	err = auth.Revoke(owner, arbiter, authority.CanArbitrate)
	require.NoError(t, err)
	require.ErrorIs(t, auth.Check(arbiter, authority.CanArbitrate), authority.ErrForbidden)
}

func TestOnlyOwnerGrants(t *testing.T) {
	owner := principal.Principal{1}
	other := principal.Principal{2}
	auth := authority.New(owner)

	err := auth.Grant(other, other, authority.CanBan)
	require.ErrorIs(t, err, authority.ErrNotOwner)
	require.False(t, auth.Has(other, authority.CanBan))

	err = auth.Revoke(other, owner, authority.CanBan)
	require.ErrorIs(t, err, authority.ErrNotOwner)
}

func TestCheckRequiresAllCaps(t *testing.T) {
	owner := principal.Principal{1}
	monitor := principal.Principal{3}
	auth := authority.New(owner)

	require.NoError(t, auth.Grant(owner, monitor, authority.CanRecordSignals))
	require.ErrorIs(t, auth.Check(monitor, authority.CanRecordSignals|authority.CanArbitrate), authority.ErrForbidden)
}
