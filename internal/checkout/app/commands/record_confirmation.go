package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

type RecordConfirmationCommand struct {
	PurchaseOrderID uuid.UUID
	ExternalTxnID   string
	VerifiedAmount  domain.Money
	GatewayStatus   string
}

func (c RecordConfirmationCommand) confirmation() domain.PaymentConfirmation {
	return domain.PaymentConfirmation{
		PurchaseOrderID: c.PurchaseOrderID,
		ExternalTxnID:   c.ExternalTxnID,
		VerifiedAmount:  c.VerifiedAmount,
		GatewayStatus:   c.GatewayStatus,
		ReceivedAt:      time.Now().UTC(),
	}
}

type ConfirmationHandler interface {
	Handle(ctx context.Context, cmd RecordConfirmationCommand) (*domain.Order, error)
}

// RecordConfirmationCommandHandler reconciles a gateway callback against a
// pending order. Deliveries are at-least-once: a confirmation for an order
// already settled replays the terminal state without re-applying anything.
// The webhook payload is never trusted alone: the gateway of record is
// re-queried server side before an order is marked paid.
type RecordConfirmationCommandHandler struct {
	orders   ports.OrderRepository
	verifier ports.PaymentVerifier
	events   ports.EventBus
}

func NewRecordConfirmationCommandHandler(
	orders ports.OrderRepository,
	verifier ports.PaymentVerifier,
	events ports.EventBus,
) *RecordConfirmationCommandHandler {
	return &RecordConfirmationCommandHandler{orders: orders, verifier: verifier, events: events}
}

func (h *RecordConfirmationCommandHandler) Handle(ctx context.Context, cmd RecordConfirmationCommand) (*domain.Order, error) {
	conf := cmd.confirmation()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	order, err := h.orders.GetByID(ctx, conf.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	if order.IsTerminal() {
		return order, nil
	}

	if err := h.orders.RecordConfirmation(ctx, conf); err != nil {
		return nil, fmt.Errorf("record confirmation audit: %w", err)
	}

	if !conf.Succeeded() {
		return h.settle(ctx, order, domain.OrderStatusFailed, conf.ExternalTxnID,
			fmt.Sprintf("gateway reported %q", conf.GatewayStatus))
	}

	if !conf.VerifiedAmount.Equal(order.Total) {
		settled, err := h.settle(ctx, order, domain.OrderStatusFailed, conf.ExternalTxnID, "amount mismatch")
		if err != nil {
			return nil, err
		}
		return settled, domain.ErrAmountMismatch
	}

	verification, err := h.verifier.Verify(ctx, conf.ExternalTxnID)
	if err != nil {
		// Order stays pending; the webhook will be redelivered.
		if errors.Is(err, domain.ErrVerifierUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrVerifierUnavailable, err)
	}

	if verification.Status != ports.VerificationSuccess {
		return h.settle(ctx, order, domain.OrderStatusFailed, conf.ExternalTxnID, "verifier rejected transaction")
	}

	if !verification.Amount.Equal(order.Total) {
		settled, err := h.settle(ctx, order, domain.OrderStatusFailed, conf.ExternalTxnID, "verifier amount mismatch")
		if err != nil {
			return nil, err
		}
		return settled, domain.ErrAmountMismatch
	}

	return h.settle(ctx, order, domain.OrderStatusPaid, conf.ExternalTxnID, "")
}

// settle performs the compare-and-set from pending to a terminal status.
// Losing the race to a concurrent delivery is not an error: the already
// committed terminal state is re-read and returned.
func (h *RecordConfirmationCommandHandler) settle(
	ctx context.Context,
	order *domain.Order,
	status domain.OrderStatus,
	externalTxnID string,
	reason string,
) (*domain.Order, error) {
	applied, err := h.orders.Finalize(ctx, order.ID, status, externalTxnID)
	if err != nil {
		return nil, err
	}

	if !applied {
		return h.orders.GetByID(ctx, order.ID)
	}

	switch status {
	case domain.OrderStatusPaid:
		if err := h.events.PublishOrderPaid(ctx, order.ID.String()); err != nil {
			return nil, fmt.Errorf("order paid but failed to publish event: %w", err)
		}
	case domain.OrderStatusFailed:
		if err := h.events.PublishOrderFailed(ctx, order.ID.String(), reason); err != nil {
			return nil, fmt.Errorf("order failed but failed to publish event: %w", err)
		}
	}

	settled := *order
	settled.Status = status
	settled.ExternalTxnID = externalTxnID
	settled.UpdatedAt = time.Now().UTC()
	return &settled, nil
}
