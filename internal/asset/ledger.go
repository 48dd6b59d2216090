package asset

import (
	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/internal/safemath"
)

// accountBook is the balance bookkeeping shared by both ledger kinds.
type accountBook struct {
	balances map[principal.Principal]uint64
}

func newAccountBook() accountBook {
	return accountBook{balances: make(map[principal.Principal]uint64)}
}

func (b *accountBook) transfer(from, to principal.Principal, amount uint64) error {
	fromBal, ok := safemath.Sub64(b.balances[from], amount)
	if !ok {
		return ErrInsufficientBalance
	}
	toBal, ok := safemath.Add64(b.balances[to], amount)
	if !ok {
		return ErrBalanceOverflow
	}
	b.balances[from] = fromBal
	b.balances[to] = toBal
	return nil
}

func (b *accountBook) balanceOf(p principal.Principal) uint64 {
	return b.balances[p]
}

// NativeLedger tracks native-value balances. Deposits arriving from the
// external settlement layer are credited through Mint.
type NativeLedger struct {
	book accountBook
}

func NewNativeLedger() *NativeLedger {
	return &NativeLedger{book: newAccountBook()}
}

// Mint credits a deposit from the external settlement layer.
func (l *NativeLedger) Mint(to principal.Principal, amount uint64) error {
	bal, ok := safemath.Add64(l.book.balances[to], amount)
	if !ok {
		return ErrBalanceOverflow
	}
	l.book.balances[to] = bal
	return nil
}

func (l *NativeLedger) Transfer(from, to principal.Principal, amount uint64) error {
	return l.book.transfer(from, to, amount)
}

func (l *NativeLedger) BalanceOf(p principal.Principal) uint64 {
	return l.book.balanceOf(p)
}

// TokenLedger tracks balances of one fungible asset with a fixed supply
// assigned to the issuer at construction.
type TokenLedger struct {
	symbol Asset
	book   accountBook
}

func NewTokenLedger(symbol Asset, issuer principal.Principal, supply uint64) *TokenLedger {
	l := &TokenLedger{symbol: symbol, book: newAccountBook()}
	l.book.balances[issuer] = supply
	return l
}

func (l *TokenLedger) Symbol() Asset {
	return l.symbol
}

func (l *TokenLedger) Transfer(from, to principal.Principal, amount uint64) error {
	return l.book.transfer(from, to, amount)
}

func (l *TokenLedger) BalanceOf(p principal.Principal) uint64 {
	return l.book.balanceOf(p)
}
