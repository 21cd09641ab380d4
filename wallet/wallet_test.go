package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestConnectAndDisconnect(t *testing.T) {
	m := NewMock(0, 1)

	_, err := m.Account("EQD-a")
	require.ErrorIs(t, err, ErrNotConnected)

	a := m.Connect("EQD-a")
	require.True(t, a.Connected)
	require.True(t, a.Balance.GreaterThanOrEqual(decimal.Zero))
	require.True(t, a.Balance.LessThan(decimal.NewFromInt(10)))
	require.LessOrEqual(t, -a.Balance.Exponent(), int32(2))

	again := m.Connect("EQD-a")
	require.True(t, a.Balance.Equal(again.Balance))

	m.Disconnect("EQD-a")
	_, err = m.Account("EQD-a")
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestPay(t *testing.T) {
	ctx := context.Background()
	m := NewMock(0, 1)

	_, err := m.Pay(ctx, "EQD-b", decimal.NewFromInt(1), "huscarl")
	require.ErrorIs(t, err, ErrNotConnected)

	a := m.Connect("EQD-b")
	_, err = m.Pay(ctx, "EQD-b", decimal.Zero, "nothing")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = m.Pay(ctx, "EQD-b", a.Balance.Add(decimal.RequireFromString("0.01")), "too much")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	if a.Balance.IsPositive() {
		after, err := m.Pay(ctx, "EQD-b", a.Balance, "everything")
		require.NoError(t, err)
		require.True(t, after.Balance.IsZero())
	}
}

func TestPayWaitsAndHonoursContext(t *testing.T) {
	m := NewMock(50*time.Millisecond, 1)
	m.Connect("EQD-c")
	m.accounts["EQD-c"].Balance = decimal.NewFromInt(5)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := m.Pay(ctx, "EQD-c", decimal.NewFromInt(1), "jarl")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	start := time.Now()
	a, err := m.Pay(context.Background(), "EQD-c", decimal.RequireFromString("0.5"), "jarl")
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.True(t, a.Balance.Equal(decimal.RequireFromString("4.5")))
}

func TestDisconnectDuringPayment(t *testing.T) {
	m := NewMock(30*time.Millisecond, 1)
	m.Connect("EQD-d")
	m.accounts["EQD-d"].Balance = decimal.NewFromInt(5)

	go func() {
		time.Sleep(5 * time.Millisecond)
		m.Disconnect("EQD-d")
	}()

	_, err := m.Pay(context.Background(), "EQD-d", decimal.NewFromInt(1), "skald")
	require.ErrorIs(t, err, ErrNotConnected)
}
