package memory

import (
	"context"
	"sync"

	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

// Verifier is a canned payment verifier for local development and tests.
// Unknown transactions verify as failures.
type Verifier struct {
	mu      sync.RWMutex
	results map[string]ports.Verification
	err     error
}

func NewVerifier() *Verifier {
	return &Verifier{results: make(map[string]ports.Verification)}
}

// SetResult registers the verification outcome for a transaction id.
func (v *Verifier) SetResult(externalTxnID string, result ports.Verification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results[externalTxnID] = result
}

// SetError makes every Verify call fail, simulating gateway downtime.
func (v *Verifier) SetError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

func (v *Verifier) Verify(_ context.Context, externalTxnID string) (ports.Verification, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.err != nil {
		return ports.Verification{}, v.err
	}

	result, ok := v.results[externalTxnID]
	if !ok {
		return ports.Verification{Status: ports.VerificationFailure}, nil
	}
	return result, nil
}
