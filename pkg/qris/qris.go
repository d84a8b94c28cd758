package qris

import (
	qrcode "github.com/skip2/go-qrcode"
)

// RenderPNG encodes a QRIS payload string as a PNG image, used as a
// fallback when the gateway returns only the payload without a hosted
// QR image.
func RenderPNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}
