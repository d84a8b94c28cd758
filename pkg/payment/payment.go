package payment

import (
	"context"
)

type CheckoutRequest struct {
	Method        string // e.g. QRIS
	Amount        int64  // rupiah
	ProductName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	OrderID       string // unique merchant order id, echoed back in the callback
	CallbackURL   string
}

type CheckoutResponse struct {
	Reference   string // provider-side transaction reference
	Status      string
	CheckoutURL string
	QRPayload   string // QRIS payload string, when the provider returns one
	QRURL       string // hosted QR image, when the provider renders it
}

type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
}
