package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nutrimart/storefront/internal/cart"
	"github.com/nutrimart/storefront/internal/events"
	"github.com/nutrimart/storefront/pkg/logging"
)

var paymentMethods = map[string]bool{
	"card":   true,
	"paypal": true,
	"cod":    true,
}

// CheckoutService simulates payment processing: no money moves, no order is
// persisted. The only durable effect of a successful checkout is the cleared
// cart and a best-effort checkout event.
type CheckoutService struct {
	Producer *events.Producer

	// Delay stands in for the payment provider round trip.
	Delay       time.Duration
	DeliveryFee decimal.Decimal
}

func NewCheckoutService(producer *events.Producer) *CheckoutService {
	return &CheckoutService{
		Producer:    producer,
		Delay:       2 * time.Second,
		DeliveryFee: decimal.RequireFromString("5.99"),
	}
}

type Receipt struct {
	OrderRef      string
	PaymentMethod string
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	Status        string
}

func (s *CheckoutService) Checkout(ctx context.Context, c *cart.Cart, paymentMethod string) (*Receipt, error) {
	if !paymentMethods[paymentMethod] {
		return nil, ErrUnknownPayment
	}
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			// Abandoning the simulated payment leaves the cart untouched.
			return nil, ctx.Err()
		}
	}

	subtotal := c.Total()
	receipt := &Receipt{
		OrderRef:      uuid.NewString(),
		PaymentMethod: paymentMethod,
		Subtotal:      subtotal,
		DeliveryFee:   s.DeliveryFee,
		Total:         subtotal.Add(s.DeliveryFee),
		Status:        "confirmed",
	}

	itemCount := c.ItemCount()
	c.Clear()

	if s.Producer != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":           "checkout_completed",
			"order_ref":      receipt.OrderRef,
			"payment_method": paymentMethod,
			"total":          receipt.Total.StringFixed(2),
			"item_count":     itemCount,
		}
		if err := s.Producer.PublishEvent(pubCtx, events.TopicCheckoutEvents, receipt.OrderRef, event); err != nil {
			logging.FromContext(ctx).Error("event_publish_failed", "error", err)
		}
	}

	return receipt, nil
}
