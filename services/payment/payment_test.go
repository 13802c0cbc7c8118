package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	lastAmount   int64
	lastCurrency string
	lastReceipt  string
	id           string
	err          error
	calls        int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (string, error) {
	g.calls++
	g.lastAmount = amountMinor
	g.lastCurrency = currency
	g.lastReceipt = receipt
	if g.err != nil {
		return "", g.err
	}
	return g.id, nil
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"10", 1000},
		{"19.99", 1999},
		{"0.01", 1},
		{"1.005", 101}, // rounds half away from zero
		{"1.004", 100},
		{"123.456", 12346},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := ToMinorUnits(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateIntent(t *testing.T) {
	gateway := &fakeGateway{id: "order_abc123"}
	m := NewManager(gateway, "secret", "USD")

	intent, err := m.CreateIntent(context.Background(), decimal.RequireFromString("45.48"))
	require.NoError(t, err)

	assert.Equal(t, "order_abc123", intent.ID)
	assert.Equal(t, "order_abc123", intent.ClientSecret)
	assert.Equal(t, int64(4548), intent.AmountMinor)
	assert.Equal(t, int64(4548), gateway.lastAmount)
	assert.Equal(t, "USD", gateway.lastCurrency)
	assert.Contains(t, gateway.lastReceipt, "rcpt_")
}

func TestCreateIntentRejectsNonPositiveAmounts(t *testing.T) {
	gateway := &fakeGateway{id: "order_abc123"}
	m := NewManager(gateway, "secret", "USD")

	for _, amount := range []string{"0", "-1", "-0.01"} {
		t.Run(amount, func(t *testing.T) {
			_, err := m.CreateIntent(context.Background(), decimal.RequireFromString(amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
	assert.Zero(t, gateway.calls, "gateway must not be called for invalid amounts")
}

func TestCreateIntentGatewayFailure(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("processor unavailable")}
	m := NewManager(gateway, "secret", "USD")

	_, err := m.CreateIntent(context.Background(), decimal.RequireFromString("10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create payment intent")
}

func sign(secret, intentID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	m := NewManager(&fakeGateway{}, "secret", "USD")

	good := sign("secret", "order_abc123", "pay_xyz789")
	assert.True(t, m.VerifySignature("order_abc123", "pay_xyz789", good))

	assert.False(t, m.VerifySignature("order_abc123", "pay_xyz789", "forged"))
	assert.False(t, m.VerifySignature("order_abc123", "pay_other", good))
	assert.False(t, m.VerifySignature("order_abc123", "pay_xyz789", sign("wrong", "order_abc123", "pay_xyz789")))
}
