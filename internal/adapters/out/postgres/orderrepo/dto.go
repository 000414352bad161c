// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and its relational
// representation.
package orderrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Batch and status are indexed because allocation and stranded
// recovery query by them; the frozen weight and cached region are nullable
// until approval resolves them.
type OrderDTO struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Address    AddressDTO       `gorm:"embedded;embeddedPrefix:address_"`
	Items      []OrderItemDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Region     *string          `gorm:"index"`
	Weight     *decimal.Decimal `gorm:"type:numeric"`
	Status     int              `gorm:"index"`
	BatchID    *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded delivery address within the order
// table. Raw preserves the customer's free-text input for region parsing.
type AddressDTO struct {
	Region string
	City   string
	Street string
	Raw    string
}

// OrderItemDTO represents an order line item. Keyed by order and product;
// the engine never stores two lines of the same product on one order.
type OrderItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int       `gorm:"type:int;not null"`
	Fulfilled bool
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			Fulfilled: item.IsFulfilled(),
		})
	}

	var region *string
	if key := o.RegionKey(); key != nil {
		value := key.Value()
		region = &value
	}

	var weight *decimal.Decimal
	if w := o.BatchingWeight(); w != nil {
		value := w.Value()
		weight = &value
	}

	var batchID *uuid.UUID
	if id := o.Batch(); id != nil {
		raw := id.Bytes()
		batchID = &raw
	}

	address := o.Address()

	return OrderDTO{
		ID:         orderID,
		CustomerID: o.CustomerID().Bytes(),
		Address: AddressDTO{
			Region: address.Region,
			City:   address.City,
			Street: address.Street,
			Raw:    address.Raw,
		},
		Items:   items,
		Region:  region,
		Weight:  weight,
		Status:  int(o.Status()),
		BatchID: batchID,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDto.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.RestoreLineItem(productID, itemDto.Quantity, itemDto.Fulfilled)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var regionKey *kernel.RegionKey
	if dto.Region != nil {
		key, regionErr := kernel.NewRegionKey(*dto.Region)
		if regionErr != nil {
			return nil, regionErr
		}
		regionKey = &key
	}

	var weight *kernel.Weight
	if dto.Weight != nil {
		w, weightErr := kernel.NewWeight(*dto.Weight)
		if weightErr != nil {
			return nil, weightErr
		}
		weight = &w
	}

	var batchID *kernel.UUID
	if dto.BatchID != nil {
		bID, batchErr := kernel.UUIDFromBytes((*dto.BatchID)[:])
		if batchErr != nil {
			return nil, batchErr
		}
		batchID = &bID
	}

	address := order.Address{
		Region: dto.Address.Region,
		City:   dto.Address.City,
		Street: dto.Address.Street,
		Raw:    dto.Address.Raw,
	}

	return order.RestoreOrder(id, customerID, address, items,
		regionKey, weight, order.Status(dto.Status), batchID)
}
