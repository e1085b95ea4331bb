package domain

import (
	"grima/internal/errors"
)

type Item struct {
	ID          uint
	OrderID     uint
	ProductID   int
	Name        string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
	Description string
}

// Serialize flattens the item into a plain key/value mapping with all eight
// fields present.
func (i *Item) Serialize() map[string]any {
	return map[string]any{
		"id":          i.ID,
		"order_id":    i.OrderID,
		"product_id":  i.ProductID,
		"name":        i.Name,
		"quantity":    i.Quantity,
		"unit_price":  i.UnitPrice,
		"total_price": i.TotalPrice,
		"description": i.Description,
	}
}

// Deserialize populates the item from a mapping. The id key is never read;
// identity is owned by the persistence store. A missing key or a wrong-typed
// value yields a ValidationError listing every offending field.
func (i *Item) Deserialize(data map[string]any) error {
	if data == nil {
		return errors.NewValidationError("item payload must be a mapping")
	}

	var details []errors.ValidationDetail

	i.OrderID = uintField(data, "order_id", &details)
	i.ProductID = intField(data, "product_id", &details)
	i.Name = stringField(data, "name", &details)
	i.Quantity = intField(data, "quantity", &details)
	i.UnitPrice = floatField(data, "unit_price", &details)
	i.TotalPrice = floatField(data, "total_price", &details)
	i.Description = stringField(data, "description", &details)

	if len(details) > 0 {
		return errors.NewValidationError("invalid item payload", details...)
	}
	return nil
}
