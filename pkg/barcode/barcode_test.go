package barcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadTwoDigitsPerProduct(t *testing.T) {
	p, err := Payload([]int{2, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, "020100", p)

	p, err = Payload([]int{99, 0, 10})
	require.NoError(t, err)
	assert.Equal(t, "990010", p)

	_, err = Payload([]int{100})
	assert.Error(t, err)
	_, err = Payload([]int{-1})
	assert.Error(t, err)
	_, err = Payload(nil)
	assert.Error(t, err)
}

func TestParseRoundTrip(t *testing.T) {
	q, err := Parse("020100")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, q)

	_, err = Parse("02010")
	assert.Error(t, err)
	_, err = Parse("0a0100")
	assert.Error(t, err)
}

func TestPNGDecodes(t *testing.T) {
	raw, err := PNG("020100")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), minWidth)
	assert.Equal(t, height, img.Bounds().Dy())
}

func TestDataURL(t *testing.T) {
	url := DataURL([]byte{1, 2, 3})
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, decoded)
}
