// Package khalti talks to the Khalti payment gateway's lookup endpoint to
// re-verify transactions server side.
package khalti

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Khalti settles in NPR and reports amounts in paisa.
const statusCompleted = "Completed"

// Verifier re-checks a transaction against the gateway of record. The
// lookup endpoint is idempotent and side-effect free.
type Verifier struct {
	client    *http.Client
	lookupURL string
	secretKey string
	unit      currency.Unit
}

// NewVerifier constructs a gateway verifier. The timeout bounds every
// lookup call; a slow gateway surfaces as ErrVerifierUnavailable, never a
// hang.
func NewVerifier(lookupURL, secretKey string, timeout time.Duration) *Verifier {
	return &Verifier{
		client:    &http.Client{Timeout: timeout},
		lookupURL: lookupURL,
		secretKey: secretKey,
		unit:      currency.MustParseISO("NPR"),
	}
}

type lookupRequest struct {
	Pidx string `json:"pidx"`
}

type lookupResponse struct {
	Pidx        string `json:"pidx"`
	TotalAmount int64  `json:"total_amount"`
	Status      string `json:"status"`
}

// Verify posts the transaction id to the lookup endpoint and maps the
// gateway's answer onto the verification contract.
func (v *Verifier) Verify(ctx context.Context, externalTxnID string) (ports.Verification, error) {
	body, err := json.Marshal(lookupRequest{Pidx: externalTxnID})
	if err != nil {
		return ports.Verification{}, fmt.Errorf("marshal lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.lookupURL, bytes.NewReader(body))
	if err != nil {
		return ports.Verification{}, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+v.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return ports.Verification{}, fmt.Errorf("%w: %w", domain.ErrVerifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.Verification{}, fmt.Errorf("%w: lookup returned %d", domain.ErrVerifierUnavailable, resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.Verification{}, fmt.Errorf("%w: decode lookup response: %w", domain.ErrVerifierUnavailable, err)
	}

	verification := ports.Verification{
		Status: ports.VerificationFailure,
		// total_amount arrives in paisa.
		Amount: domain.NewMoney(decimal.New(payload.TotalAmount, -2), v.unit),
	}
	if payload.Status == statusCompleted {
		verification.Status = ports.VerificationSuccess
	}

	return verification, nil
}
