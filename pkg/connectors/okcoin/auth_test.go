package okcoin

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignParams(t *testing.T) {
	cases := []struct {
		name      string
		publicKey string
		secretKey string
		params    url.Values
		signature string
	}{
		{
			name:      "trade request",
			publicKey: "key123",
			secretKey: "secret456",
			params: url.Values{
				"symbol": {"btc_usd"},
				"type":   {"buy"},
				"price":  {"200.18"},
				"amount": {"0.01"},
			},
			signature: "2F39B04ECB52210B67D2DE1B2243F2B8",
		},
		{
			name:      "no params beyond api_key",
			publicKey: "key123",
			secretKey: "secret456",
			params:    url.Values{},
			signature: "F7B8948F0A5BC884AC355CA88D5FFD85",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.signature, signParams(c.publicKey, c.secretKey, c.params))
		})
	}
}

func TestSignParamsIgnoresExistingSign(t *testing.T) {
	params := url.Values{
		"symbol": {"btc_usd"},
		"type":   {"buy"},
		"price":  {"200.18"},
		"amount": {"0.01"},
	}
	want := signParams("key123", "secret456", params)

	// A stale sign or api_key parameter must not change the digest input.
	params.Set("sign", "BOGUS")
	params.Set("api_key", "someone-else")
	assert.Equal(t, want, signParams("key123", "secret456", params))
}
