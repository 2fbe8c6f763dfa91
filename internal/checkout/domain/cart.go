package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// CartStatus captures the lifecycle of a cart.
type CartStatus string

const (
	CartStatusOpen       CartStatus = "open"
	CartStatusCheckedOut CartStatus = "checked_out"
)

// Cart is the owner's current basket. The total is derived from the lines
// and must be recomputed, never hand-patched, after any line mutation.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Status    CartStatus `json:"status"`
	Total     Money      `json:"total"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLine is one product in a cart. UnitPrice is snapshotted from the
// catalog when the product is first added and immutable thereafter.
type CartLine struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cart_id"`
	ProductID uuid.UUID `json:"product_id"`
	UnitPrice Money     `json:"unit_price"`
	Quantity  int32     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOpenCart returns an empty open cart for the owner.
func NewOpenCart(ownerID string, unit currency.Unit) Cart {
	now := time.Now().UTC()
	return Cart{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Status:    CartStatusOpen,
		Total:     ZeroMoney(unit),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c Cart) IsOpen() bool {
	return c.Status == CartStatusOpen
}

// Line returns the line with the given id, if it belongs to this cart.
func (c *Cart) Line(lineID uuid.UUID) (*CartLine, bool) {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i], true
		}
	}
	return nil, false
}

// LineForProduct returns the line holding the given product, if any.
func (c *Cart) LineForProduct(productID uuid.UUID) (*CartLine, bool) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i], true
		}
	}
	return nil, false
}

// MergeLine adds quantity of a product to the cart. A product appears in at
// most one line: re-adding increments the existing quantity and keeps the
// price snapshotted at first add.
func (c *Cart) MergeLine(productID uuid.UUID, unitPrice Money, quantity int32) error {
	if !c.IsOpen() {
		return ErrCartCheckedOut
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if line, ok := c.LineForProduct(productID); ok {
		line.Quantity += quantity
		return c.RecomputeTotal()
	}

	c.Lines = append(c.Lines, CartLine{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	})
	return c.RecomputeTotal()
}

// AdjustLine changes a line's quantity by delta. A resulting quantity of
// zero or below removes the line.
func (c *Cart) AdjustLine(lineID uuid.UUID, delta int32) error {
	if !c.IsOpen() {
		return ErrCartCheckedOut
	}

	line, ok := c.Line(lineID)
	if !ok {
		return ErrLineNotFound
	}

	if line.Quantity+delta <= 0 {
		return c.RemoveLine(lineID)
	}

	line.Quantity += delta
	return c.RecomputeTotal()
}

// RemoveLine deletes a line from the cart.
func (c *Cart) RemoveLine(lineID uuid.UUID) error {
	if !c.IsOpen() {
		return ErrCartCheckedOut
	}

	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return c.RecomputeTotal()
		}
	}
	return ErrLineNotFound
}

// RecomputeTotal derives the cached total from the lines. An empty cart
// keeps its current currency with a zero amount.
func (c *Cart) RecomputeTotal() error {
	total := ZeroMoney(c.Total.Currency)
	if len(c.Lines) > 0 {
		total = ZeroMoney(c.Lines[0].UnitPrice.Currency)
	}

	for _, line := range c.Lines {
		sum, err := total.Add(line.UnitPrice.MulInt(int64(line.Quantity)))
		if err != nil {
			return err
		}
		total = sum
	}

	c.Total = total
	c.UpdatedAt = time.Now().UTC()
	return nil
}
