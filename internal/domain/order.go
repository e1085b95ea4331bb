package domain

import (
	"time"

	"grima/internal/errors"
)

type Order struct {
	ID              uint
	CustomerID      int
	OrderDate       time.Time
	Status          string
	ShippingAddress string
	TotalAmount     float64
	PaymentMethod   string
	ShippingCost    float64
	ExpectedDate    *time.Time
	OrderNotes      *string
	Items           []Item
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const (
	OrderStatusPending  = "PENDING"
	OrderStatusCreated  = "CREATED"
	OrderStatusCanceled = "CANCELED"
)

const dateLayout = "2006-01-02"

// Serialize flattens the order into a plain key/value mapping. Dates are
// rendered as YYYY-MM-DD strings, items as a slice of item mappings.
func (o *Order) Serialize() map[string]any {
	items := make([]map[string]any, len(o.Items))
	for i := range o.Items {
		items[i] = o.Items[i].Serialize()
	}

	var expectedDate any
	if o.ExpectedDate != nil {
		expectedDate = o.ExpectedDate.Format(dateLayout)
	}
	var orderNotes any
	if o.OrderNotes != nil {
		orderNotes = *o.OrderNotes
	}

	return map[string]any{
		"id":               o.ID,
		"customer_id":      o.CustomerID,
		"order_date":       o.OrderDate.Format(dateLayout),
		"status":           o.Status,
		"shipping_address": o.ShippingAddress,
		"total_amount":     o.TotalAmount,
		"payment_method":   o.PaymentMethod,
		"shipping_cost":    o.ShippingCost,
		"expected_date":    expectedDate,
		"order_notes":      orderNotes,
		"items":            items,
	}
}

// Deserialize populates the order from a mapping. The id key is never read;
// identity is owned by the persistence store.
func (o *Order) Deserialize(data map[string]any) error {
	if data == nil {
		return errors.NewValidationError("order payload must be a mapping")
	}

	var details []errors.ValidationDetail

	o.CustomerID = intField(data, "customer_id", &details)
	o.OrderDate = dateField(data, "order_date", &details)
	o.Status = stringField(data, "status", &details)
	o.ShippingAddress = stringField(data, "shipping_address", &details)
	o.TotalAmount = floatField(data, "total_amount", &details)
	o.PaymentMethod = stringField(data, "payment_method", &details)
	o.ShippingCost = floatField(data, "shipping_cost", &details)
	o.ExpectedDate = optionalDateField(data, "expected_date", &details)
	o.OrderNotes = optionalStringField(data, "order_notes", &details)
	o.Items = itemsField(data, "items", &details)

	if len(details) > 0 {
		return errors.NewValidationError("invalid order payload", details...)
	}
	return nil
}

func itemsField(data map[string]any, key string, details *[]errors.ValidationDetail) []Item {
	raw, ok := data[key]
	if !ok {
		*details = append(*details, errors.ValidationDetail{Field: key, Message: "missing required field"})
		return nil
	}

	var items []Item
	appendItem := func(entry any) bool {
		mapping, ok := entry.(map[string]any)
		if !ok {
			*details = append(*details, errors.ValidationDetail{Field: key, Message: "items entries must be mappings"})
			return false
		}
		var item Item
		if err := item.Deserialize(mapping); err != nil {
			if ve, ok := errors.IsValidationError(err); ok {
				*details = append(*details, ve.Details...)
			} else {
				*details = append(*details, errors.ValidationDetail{Field: key, Message: err.Error()})
			}
			return false
		}
		items = append(items, item)
		return true
	}

	switch list := raw.(type) {
	case []map[string]any:
		for _, entry := range list {
			if !appendItem(entry) {
				return nil
			}
		}
	case []any:
		for _, entry := range list {
			if !appendItem(entry) {
				return nil
			}
		}
	default:
		*details = append(*details, errors.ValidationDetail{Field: key, Message: "must be a list of item mappings"})
		return nil
	}

	return items
}
