package payment

import (
	"context"
	"fmt"
	"time"
)

// StubProvider is a no-op provider for development and tests.
type StubProvider struct{}

func (s *StubProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	ref := fmt.Sprintf("stub_%d", time.Now().UnixNano())
	return &CheckoutResponse{
		Reference:   ref,
		Status:      "UNPAID",
		CheckoutURL: "https://checkout.invalid/" + req.OrderID,
		QRPayload:   "stub-qris-" + req.OrderID,
	}, nil
}
