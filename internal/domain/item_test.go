package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grima/internal/errors"
)

func testItem() *Item {
	return &Item{
		ID:          1,
		OrderID:     100,
		ProductID:   5,
		Name:        "drill",
		Quantity:    3,
		UnitPrice:   29.99,
		TotalPrice:  89.97,
		Description: "cordless drill",
	}
}

func TestItem_Serialize(t *testing.T) {
	item := testItem()
	data := item.Serialize()

	assert.Equal(t, item.ID, data["id"])
	assert.Equal(t, item.OrderID, data["order_id"])
	assert.Equal(t, item.ProductID, data["product_id"])
	assert.Equal(t, item.Name, data["name"])
	assert.Equal(t, item.Quantity, data["quantity"])
	assert.Equal(t, item.UnitPrice, data["unit_price"])
	assert.Equal(t, item.TotalPrice, data["total_price"])
	assert.Equal(t, item.Description, data["description"])
}

func TestItem_SerializeDeserializeRoundTrip(t *testing.T) {
	item := testItem()

	var got Item
	err := got.Deserialize(item.Serialize())
	require.NoError(t, err)

	// Identity is owned by the store and never round-trips.
	assert.Equal(t, uint(0), got.ID)
	assert.Equal(t, item.OrderID, got.OrderID)
	assert.Equal(t, item.ProductID, got.ProductID)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, item.Quantity, got.Quantity)
	assert.Equal(t, item.UnitPrice, got.UnitPrice)
	assert.Equal(t, item.TotalPrice, got.TotalPrice)
	assert.Equal(t, item.Description, got.Description)
}

func TestItem_Deserialize_MissingKeys(t *testing.T) {
	var item Item
	err := item.Deserialize(map[string]any{})

	require.Error(t, err)
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 7)
	for _, d := range ve.Details {
		assert.Equal(t, "missing required field", d.Message)
	}
}

func TestItem_Deserialize_NilMapping(t *testing.T) {
	var item Item
	err := item.Deserialize(nil)

	require.Error(t, err)
	_, ok := errors.IsValidationError(err)
	assert.True(t, ok)
}

func TestItem_Deserialize_WrongTypes(t *testing.T) {
	data := testItem().Serialize()
	data["quantity"] = "three"
	data["unit_price"] = "cheap"

	var item Item
	err := item.Deserialize(data)

	require.Error(t, err)
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 2)

	fields := []string{ve.Details[0].Field, ve.Details[1].Field}
	assert.Contains(t, fields, "quantity")
	assert.Contains(t, fields, "unit_price")
}

func TestItem_Deserialize_JSONNumbers(t *testing.T) {
	// Decoded JSON delivers every number as float64.
	data := map[string]any{
		"order_id":    float64(100),
		"product_id":  float64(5),
		"name":        "drill",
		"quantity":    float64(3),
		"unit_price":  29.99,
		"total_price": 89.97,
		"description": "cordless drill",
	}

	var item Item
	err := item.Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, uint(100), item.OrderID)
	assert.Equal(t, 5, item.ProductID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 29.99, item.UnitPrice)
}

func TestItem_Deserialize_Float32Numbers(t *testing.T) {
	// Integer and price fields tolerate float32 the same way.
	data := testItem().Serialize()
	data["quantity"] = float32(3)
	data["order_id"] = float32(100)
	data["unit_price"] = float32(29.5)

	var item Item
	err := item.Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, uint(100), item.OrderID)
	assert.Equal(t, 29.5, item.UnitPrice)
}

func TestItem_Deserialize_FractionalQuantity(t *testing.T) {
	data := testItem().Serialize()
	data["quantity"] = 2.5

	var item Item
	err := item.Deserialize(data)

	require.Error(t, err)
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "quantity", ve.Details[0].Field)
}
