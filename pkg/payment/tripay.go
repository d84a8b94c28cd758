package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// TripayProvider creates QRIS checkout transactions via the Tripay gateway.
type TripayProvider struct {
	BaseURL     string
	APIKey      string
	PrivateKey  string
	MerchantRef string
	client      *http.Client
}

func NewTripayProvider(baseURL, apiKey, privateKey, merchantRef string) *TripayProvider {
	if baseURL == "" {
		baseURL = "https://tripay.co.id/api"
	}
	return &TripayProvider{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		PrivateKey:  privateKey,
		MerchantRef: merchantRef,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type tripayCreateReq struct {
	Method        string             `json:"method"`
	MerchantRef   string             `json:"merchant_ref"`
	Amount        int64              `json:"amount"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	OrderItems    []tripayOrderItem  `json:"order_items"`
	CallbackURL   string             `json:"callback_url,omitempty"`
	Signature     string             `json:"signature"`
}

type tripayOrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type tripayCreateResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Reference   string `json:"reference"`
		Status      string `json:"status"`
		CheckoutURL string `json:"checkout_url"`
		QRString    string `json:"qr_string"`
		QRURL       string `json:"qr_url"`
	} `json:"data"`
}

// CreateCheckout opens a transaction and returns the hosted checkout plus
// QRIS payload. The request signature is HMAC-SHA256(merchant+orderID+amount)
// under the private key, per the gateway contract.
func (p *TripayProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	sig := SignHMAC([]byte(p.MerchantRef+req.OrderID+strconv.FormatInt(req.Amount, 10)), p.PrivateKey)
	method := req.Method
	if method == "" {
		method = "QRIS"
	}
	payload := tripayCreateReq{
		Method:        method,
		MerchantRef:   req.OrderID,
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		OrderItems: []tripayOrderItem{
			{Name: req.ProductName, Price: req.Amount, Quantity: 1},
		},
		CallbackURL: req.CallbackURL,
		Signature:   sig,
	}
	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/transaction/create", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out tripayCreateResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return nil, fmt.Errorf("tripay create failed: %d %s", resp.StatusCode, out.Message)
	}
	return &CheckoutResponse{
		Reference:   out.Data.Reference,
		Status:      out.Data.Status,
		CheckoutURL: out.Data.CheckoutURL,
		QRPayload:   out.Data.QRString,
		QRURL:       out.Data.QRURL,
	}, nil
}
