package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ResendClient sends transactional email through the Resend REST API.
type ResendClient struct {
	BaseURL string
	APIKey  string
	From    string
	client  *http.Client
}

func NewResendClient(baseURL, apiKey, from string) *ResendClient {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &ResendClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		From:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type resendEmailReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendEmailResp struct {
	ID string `json:"id"`
}

func (r *ResendClient) Send(ctx context.Context, to []string, subject, html string) (string, error) {
	body, _ := json.Marshal(resendEmailReq{From: r.From, To: to, Subject: subject, HTML: html})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resend send failed: %d", resp.StatusCode)
	}
	var out resendEmailResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}
