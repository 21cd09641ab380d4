// Package wallet simulates a TON wallet connection. No chain is ever
// contacted: balances are random and payments only wait a little.
package wallet

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrNotConnected        = errors.New("wallet not connected")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("payment amount must be positive")
)

const maxMockBalance = 10

// Account is the state of a wallet as seen by the game
type Account struct {
	Address   string          `json:"address"`
	Connected bool            `json:"isConnected"`
	Balance   decimal.Decimal `json:"balance"`
}

// Mock keeps one simulated wallet per address
type Mock struct {
	mu       sync.Mutex
	accounts map[string]*Account
	rng      *rand.Rand
	delay    time.Duration
}

// NewMock creates the simulator. Every payment takes delay to go through.
func NewMock(delay time.Duration, seed int64) *Mock {
	return &Mock{
		accounts: map[string]*Account{},
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec
		delay:    delay,
	}
}

// Connect opens the wallet with a random balance. Connecting twice keeps
// the current balance.
func (m *Mock) Connect(address string) Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.accounts[address]; ok {
		return *a
	}

	cents := m.rng.Int63n(maxMockBalance * 100)
	a := &Account{
		Address:   address,
		Connected: true,
		Balance:   decimal.New(cents, -2),
	}
	m.accounts[address] = a

	log.Info().Str("wallet", address).Str("balance", a.Balance.String()).Msg("TON wallet connected")
	return *a
}

func (m *Mock) Disconnect(address string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[address]; ok {
		delete(m.accounts, address)
		log.Info().Str("wallet", address).Msg("TON wallet disconnected")
	}
}

func (m *Mock) Account(address string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[address]
	if !ok {
		return Account{Address: address, Balance: decimal.Zero}, ErrNotConnected
	}
	return *a, nil
}

// Pay debits amount after the simulated processing time.
func (m *Mock) Pay(ctx context.Context, address string, amount decimal.Decimal, description string) (Account, error) {
	if !amount.IsPositive() {
		return Account{}, ErrInvalidAmount
	}

	if err := m.canPay(address, amount); err != nil {
		return Account{}, err
	}

	if m.delay > 0 {
		t := time.NewTimer(m.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Account{}, ctx.Err()
		case <-t.C:
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// the wallet may have been used or closed while waiting
	a, ok := m.accounts[address]
	if !ok {
		return Account{}, ErrNotConnected
	}
	if a.Balance.LessThan(amount) {
		return Account{}, ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)

	log.Info().Str("wallet", address).Str("amount", amount.String()).Str("for", description).
		Msg("TON payment successful")
	return *a, nil
}

func (m *Mock) canPay(address string, amount decimal.Decimal) error {
	a, err := m.Account(address)
	if err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}
