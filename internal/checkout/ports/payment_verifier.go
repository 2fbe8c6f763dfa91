package ports

import (
	"context"

	"github.com/prabinkarki/storefront/internal/checkout/domain"
)

// VerificationStatus is the gateway-of-record's answer for a transaction.
type VerificationStatus string

const (
	VerificationSuccess VerificationStatus = "SUCCESS"
	VerificationFailure VerificationStatus = "FAILURE"
)

// Verification is the result of a server-side re-check of a transaction.
type Verification struct {
	Status VerificationStatus
	Amount domain.Money
}

// PaymentVerifier re-checks a transaction against the gateway of record.
// The call is idempotent and side-effect free; webhook payloads are never
// trusted without it. Transport failures surface as
// domain.ErrVerifierUnavailable, which is safe to retry.
type PaymentVerifier interface {
	Verify(ctx context.Context, externalTxnID string) (Verification, error)
}
