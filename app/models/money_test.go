package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyEncodesTwoDecimals(t *testing.T) {
	b, err := json.Marshal(Product{ID: 1, Name: "Kaas", Price: Cents(350)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":3.50`)

	assert.Equal(t, "2.75", Cents(275).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-1.20", Cents(-120).String())
}

func TestMoneyDecodesFloatsWithoutDrift(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`4.25`), &m))
	assert.Equal(t, Cents(425), m)

	require.NoError(t, json.Unmarshal([]byte(`"2.75"`), &m))
	assert.Equal(t, Cents(275), m)

	require.NoError(t, json.Unmarshal([]byte(`0.29`), &m))
	assert.Equal(t, Cents(29), m)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}
