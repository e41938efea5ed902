// Package barcode builds the order confirmation barcode: a numeric payload
// with two digits per catalog product, rendered as a Code 128 PNG.
//
//	payload, _ := barcode.Payload([]int{2, 1, 0}) // "020100"
//	png, _ := barcode.PNG(payload)
//	url := barcode.DataURL(png)
package barcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

const (
	// MaxQty is the largest quantity one product slot can carry.
	MaxQty = 99

	minWidth = 300
	height   = 100
)

// Payload encodes quantities, in catalog order, as two digits each.
func Payload(quantities []int) (string, error) {
	if len(quantities) == 0 {
		return "", fmt.Errorf("barcode: no products")
	}
	buf := make([]byte, 0, len(quantities)*2)
	for i, q := range quantities {
		if q < 0 || q > MaxQty {
			return "", fmt.Errorf("barcode: quantity %d at slot %d out of range", q, i)
		}
		buf = append(buf, byte('0'+q/10), byte('0'+q%10))
	}
	return string(buf), nil
}

// Parse is the inverse of Payload.
func Parse(payload string) ([]int, error) {
	if len(payload) == 0 || len(payload)%2 != 0 {
		return nil, fmt.Errorf("barcode: payload %q has odd or zero length", payload)
	}
	out := make([]int, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		n, err := strconv.Atoi(payload[i : i+2])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("barcode: payload %q is not numeric", payload)
		}
		out = append(out, n)
	}
	return out, nil
}

// PNG renders payload as a Code 128 symbol.
func PNG(payload string) ([]byte, error) {
	code, err := code128.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("barcode: encode: %w", err)
	}

	width := code.Bounds().Dx() * 3
	if width < minWidth {
		width = minWidth
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, fmt.Errorf("barcode: scale: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("barcode: png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL embeds a PNG for direct use in an <img src>.
func DataURL(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
