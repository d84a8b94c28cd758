package payment

import "testing"

func TestVerifyHMAC(t *testing.T) {
	body := []byte("{\"ok\":true}")
	secret := "secret"
	signature := "f6b4a2841c93f8bf2fb8f2c13d8fb0b6c8e8019f09ee405d248daa8385fad638"
	if !VerifyHMAC(body, signature, secret) {
		t.Fatal("expected signature to be valid")
	}
	if VerifyHMAC(body, "deadbeef", secret) {
		t.Fatal("unexpected valid signature")
	}
	if VerifyHMAC(body, "not-hex", secret) {
		t.Fatal("non-hex signature must be rejected")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	body := []byte(`{"reference":"T123","status":"PAID"}`)
	sig := SignHMAC(body, "tripay-private-key")
	if sig != "f7d93046562503293fc3d84830d655eeb3b49a6b86f0783046ebd855677f378e" {
		t.Fatalf("unexpected signature %s", sig)
	}
	if !VerifyHMAC(body, sig, "tripay-private-key") {
		t.Fatal("expected round-trip signature to verify")
	}
	if VerifyHMAC(body, sig, "other-key") {
		t.Fatal("signature must not verify under a different key")
	}
}
