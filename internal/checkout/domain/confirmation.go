package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gateway status strings as delivered by the payment callback.
const (
	GatewayStatusCompleted = "Completed"
)

// PaymentConfirmation is the payload delivered by the gateway callback.
// It is matched against a pending order and kept as an audit row; it is
// never trusted on its own. The verifier is consulted before an order
// is marked paid.
type PaymentConfirmation struct {
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	ExternalTxnID   string    `json:"external_transaction_id"`
	VerifiedAmount  Money     `json:"verified_amount"`
	GatewayStatus   string    `json:"status"`
	ReceivedAt      time.Time `json:"received_at"`
}

// Validate ensures the confirmation carries the fields needed to correlate
// it to an order.
func (c PaymentConfirmation) Validate() error {
	if c.PurchaseOrderID == uuid.Nil {
		return errors.New("purchase_order_id is required")
	}
	if strings.TrimSpace(c.ExternalTxnID) == "" {
		return errors.New("external_transaction_id is required")
	}
	if c.VerifiedAmount.Amount.IsNegative() {
		return errors.New("verified_amount must not be negative")
	}
	return nil
}

// Succeeded reports whether the gateway itself claims the payment completed.
func (c PaymentConfirmation) Succeeded() bool {
	return c.GatewayStatus == GatewayStatusCompleted
}
