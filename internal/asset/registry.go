package asset

type listing struct {
	ledger  Ledger
	minBond uint64
	active  bool
}

// Registry is the set of collateral assets the engine accepts, each with
// its ledger and its minimum bond. Delisting an asset only refuses new
// registrations; the ledger stays reachable so existing bonds can still be
// returned.
type Registry struct {
	listings map[Asset]listing
}

func NewRegistry() *Registry {
	return &Registry{listings: make(map[Asset]listing)}
}

// Add lists an asset. Fails if the symbol was ever listed before or the
// minimum bond is zero.
func (r *Registry) Add(symbol Asset, ledger Ledger, minBond uint64) error {
	if _, ok := r.listings[symbol]; ok {
		return ErrAssetAlreadyListed
	}
	if minBond == 0 {
		return ErrZeroMinimumBond
	}
	r.listings[symbol] = listing{ledger: ledger, minBond: minBond, active: true}
	return nil
}

// Remove delists an asset, refusing new registrations in it.
func (r *Registry) Remove(symbol Asset) error {
	l, ok := r.listings[symbol]
	if !ok || !l.active {
		return ErrUnsupportedAsset
	}
	l.active = false
	r.listings[symbol] = l
	return nil
}

// SetMinimumBond updates the minimum bond of a listed asset.
func (r *Registry) SetMinimumBond(symbol Asset, minBond uint64) error {
	l, ok := r.listings[symbol]
	if !ok || !l.active {
		return ErrUnsupportedAsset
	}
	if minBond == 0 {
		return ErrZeroMinimumBond
	}
	l.minBond = minBond
	r.listings[symbol] = l
	return nil
}

// Supported reports whether the asset currently accepts new registrations.
func (r *Registry) Supported(symbol Asset) bool {
	l, ok := r.listings[symbol]
	return ok && l.active
}

func (r *Registry) MinimumBond(symbol Asset) (uint64, error) {
	l, ok := r.listings[symbol]
	if !ok {
		return 0, ErrUnsupportedAsset
	}
	return l.minBond, nil
}

// LedgerFor resolves the ledger of a listed asset, delisted or not.
func (r *Registry) LedgerFor(symbol Asset) (Ledger, error) {
	l, ok := r.listings[symbol]
	if !ok {
		return nil, ErrUnsupportedAsset
	}
	return l.ledger, nil
}
