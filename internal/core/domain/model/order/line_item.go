package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrLineItemIsNotConstructed is returned when a LineItem instance was not
// created through NewLineItem or RestoreLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is a product/quantity pair on an order. The per-unit weight is
// owned by the product catalog collaborator; the engine only multiplies it
// by the quantity when computing the order's batching weight.
type LineItem struct {
	productID kernel.UUID
	quantity  int
	fulfilled bool

	isConstructed bool
}

// NewLineItem creates a line item for the given product and quantity.
// Quantity must be positive.
func NewLineItem(productID kernel.UUID, quantity int) (LineItem, error) {
	item := LineItem{
		isConstructed: true,
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// RestoreLineItem reconstructs a line item from persistence, including its
// fulfilment flag.
func RestoreLineItem(productID kernel.UUID, quantity int, fulfilled bool) (LineItem, error) {
	item, err := NewLineItem(productID, quantity)
	if err != nil {
		return LineItem{}, err
	}

	item.fulfilled = fulfilled
	return item, nil
}

// Validate ensures the line item was created through a constructor.
func (i LineItem) Validate() error {
	if !i.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ProductID returns the catalog product identifier.
func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i LineItem) Quantity() int {
	return i.quantity
}

// IsFulfilled reports whether the item was marked fulfilled on delivery.
func (i LineItem) IsFulfilled() bool {
	return i.fulfilled
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
