// Package payment manages payment intents against the external processor.
// Its responsibility ends at intent creation and resumes at confirmation
// callback verification; payer-facing confirmation happens out-of-band.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a non-positive charge amount. Never clamped.
var ErrInvalidAmount = errors.New("payment amount must be greater than zero")

// Intent is a processor-side payment authorization. ClientSecret is the
// opaque token the client redeems to confirm the charge.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	AmountMinor  int64  `json:"-"`
}

// Gateway is the processor surface the manager depends on. Amounts are in
// the currency's minor unit.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
}

// Manager creates payment intents. Each CreateIntent call creates a NEW
// processor-side authorization; there is no update-in-place. Changing the
// shipping rate means discarding the previous client token and creating a
// fresh intent.
type Manager struct {
	gateway  Gateway
	secret   string
	currency string
}

// NewManager creates a Manager. secret is the key used to verify
// confirmation callback signatures.
func NewManager(gateway Gateway, secret, currency string) *Manager {
	return &Manager{gateway: gateway, secret: secret, currency: currency}
}

var minorUnits = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to the currency's minor unit,
// rounding to the nearest integer (1.005 -> 101).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnits).Round(0).IntPart()
}

// CreateIntent creates a new payment authorization for the given major-unit
// amount and returns the client-redeemable token.
func (m *Manager) CreateIntent(ctx context.Context, amount decimal.Decimal) (*Intent, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	amountMinor := ToMinorUnits(amount)
	receipt := "rcpt_" + uuid.New().String()

	id, err := m.gateway.CreateOrder(ctx, amountMinor, m.currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{ID: id, ClientSecret: id, AmountMinor: amountMinor}, nil
}

// VerifySignature checks a confirmation callback signature: HMAC-SHA256 of
// "<intentID>|<paymentID>" under the processor secret, hex encoded.
func (m *Manager) VerifySignature(intentID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(m.secret))
	h.Write([]byte(intentID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
