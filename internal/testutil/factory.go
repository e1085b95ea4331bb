package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"grima/internal/domain"
)

var productNames = []string{"ruler", "drill", "hammer", "wrench", "ladder", "bucket"}

var paymentMethods = []string{"CREDIT_CARD", "PAYPAL", "BANK_TRANSFER"}

// NewOrder builds an unpersisted order with randomized field values.
func NewOrder() *domain.Order {
	today := Date(time.Now())
	expected := today.AddDate(0, 0, 7)
	notes := fmt.Sprintf("order notes %s", uuid.NewString()[:8])

	return &domain.Order{
		CustomerID:      rand.Intn(1000) + 1,
		OrderDate:       today,
		Status:          domain.OrderStatusPending,
		ShippingAddress: fmt.Sprintf("%d Main St", rand.Intn(900)+100),
		PaymentMethod:   paymentMethods[rand.Intn(len(paymentMethods))],
		ShippingCost:    float64(rand.Intn(2000)) / 100,
		ExpectedDate:    &expected,
		OrderNotes:      &notes,
	}
}

// NewItem builds an unpersisted item for the given order. The name carries a
// random suffix so substring searches can target a single item.
func NewItem(order *domain.Order) *domain.Item {
	quantity := rand.Intn(9) + 1
	unitPrice := float64(rand.Intn(10000)+1) / 100

	return &domain.Item{
		OrderID:     order.ID,
		ProductID:   rand.Intn(100) + 1,
		Name:        fmt.Sprintf("%s-%s", productNames[rand.Intn(len(productNames))], uuid.NewString()[:8]),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  float64(quantity) * unitPrice,
		Description: fmt.Sprintf("factory item %s", uuid.NewString()[:8]),
	}
}

// Date truncates t to a UTC calendar date, matching what a DATE column
// scans back as.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
