// Package authority implements capability-based permission checks for the
// engine's gated operations. Every mutating call that is not open to the
// public names the capability it requires and is checked before any state
// is touched.
package authority

import (
	"errors"

	"github.com/chainward/chainward/internal/principal"
)

var (
	ErrNotOwner  = errors.New("caller is not the owner")
	ErrForbidden = errors.New("caller lacks required capability")
)

// Capability is a bit set of permissions a principal may hold.
type Capability uint8

const (
	// CanSetParameters allows changing economic knobs and the asset set.
	CanSetParameters Capability = 1 << iota
	// CanArbitrate allows settling disputes.
	CanArbitrate
	// CanBan allows banning reputation principals and manual score overrides.
	CanBan
	// CanRecordSignals marks the upstream health-monitor caller.
	CanRecordSignals
	// CanJudgeReports marks the incident authority driving the reputation
	// tracker.
	CanJudgeReports
)

// Authority tracks which principals hold which capabilities. The owner
// implicitly holds every capability and is the only principal allowed to
// grant or revoke.
type Authority struct {
	owner  principal.Principal
	grants map[principal.Principal]Capability
}

func New(owner principal.Principal) *Authority {
	return &Authority{
		owner:  owner,
		grants: make(map[principal.Principal]Capability),
	}
}

func (a *Authority) Owner() principal.Principal {
	return a.owner
}

// Grant adds caps to the grantee's capability set. Only the owner may grant.
func (a *Authority) Grant(caller, grantee principal.Principal, caps Capability) error {
	if caller != a.owner {
		return ErrNotOwner
	}
	a.grants[grantee] |= caps
	return nil
}

// Revoke removes caps from the grantee's capability set. Only the owner may
// revoke. Revoking from the owner has no effect on checks.
func (a *Authority) Revoke(caller, grantee principal.Principal, caps Capability) error {
	if caller != a.owner {
		return ErrNotOwner
	}
	a.grants[grantee] &^= caps
	if a.grants[grantee] == 0 {
		delete(a.grants, grantee)
	}
	return nil
}

// Holders returns every principal explicitly granted all capabilities in
// caps. The owner's implicit grant is not listed.
func (a *Authority) Holders(caps Capability) []principal.Principal {
	var out []principal.Principal
	for p, held := range a.grants {
		if held&caps == caps {
			out = append(out, p)
		}
	}
	return out
}

// Has reports whether p holds every capability in caps.
func (a *Authority) Has(p principal.Principal, caps Capability) bool {
	if p == a.owner {
		return true
	}
	return a.grants[p]&caps == caps
}

// Check returns ErrForbidden unless p holds every capability in caps.
func (a *Authority) Check(p principal.Principal, caps Capability) error {
	if !a.Has(p, caps) {
		return ErrForbidden
	}
	return nil
}
