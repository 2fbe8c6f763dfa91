package domain

import "errors"

var (
	// ErrProductNotFound is returned when the price oracle has no such product.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidQuantity is returned when a requested quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrLineNotFound is returned when a line id does not belong to the cart.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrCartNotFound is returned when the owner has no open cart or the id is unknown.
	ErrCartNotFound = errors.New("cart not found")

	// ErrEmptyCart rejects checkout of a cart without lines.
	ErrEmptyCart = errors.New("cart has no lines")

	// ErrCartCheckedOut rejects mutation or re-checkout of a frozen cart.
	ErrCartCheckedOut = errors.New("cart is already checked out")

	// ErrOrderNotFound is returned when a confirmation references an unknown order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrAmountMismatch marks a confirmation whose amount disagrees with the
	// order total. The order is moved to failed and held for manual review.
	ErrAmountMismatch = errors.New("confirmed amount does not match order total")

	// ErrCurrencyMismatch guards against summing amounts in different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrVerifierUnavailable is a transient gateway failure; callers may retry.
	ErrVerifierUnavailable = errors.New("payment verifier unavailable")

	// ErrConcurrentModification is a transient conflict; callers may retry
	// after re-reading cart state.
	ErrConcurrentModification = errors.New("concurrent modification")
)
