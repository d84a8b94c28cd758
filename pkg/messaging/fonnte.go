package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// FonnteClient sends WhatsApp messages through the Fonnte gateway.
type FonnteClient struct {
	BaseURL string
	Token   string
	client  *http.Client
}

func NewFonnteClient(baseURL, token string) *FonnteClient {
	if baseURL == "" {
		baseURL = "https://api.fonnte.com"
	}
	return &FonnteClient{
		BaseURL: baseURL,
		Token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type fonnteSendReq struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

type fonnteSendResp struct {
	Status bool     `json:"status"`
	Reason string   `json:"reason"`
	ID     []string `json:"id"`
}

// NormalizePhone converts a local Indonesian number (08...) to the
// international form Fonnte expects (628...).
func NormalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		return "62" + p[1:]
	}
	return p
}

// Send delivers one WhatsApp message. Failures are terminal; the caller
// decides whether to surface or just log them.
func (f *FonnteClient) Send(ctx context.Context, target, message string) error {
	body, _ := json.Marshal(fonnteSendReq{Target: NormalizePhone(target), Message: message})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", f.Token)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fonnte send failed: %d", resp.StatusCode)
	}
	var out fonnteSendResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if !out.Status {
		return fmt.Errorf("fonnte rejected message: %s", out.Reason)
	}
	return nil
}
