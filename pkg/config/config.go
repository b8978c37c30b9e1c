// Package config loads the adapter's key=value property file.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/magiconair/properties"
	"github.com/shopspring/decimal"
)

// Required property keys.
const (
	KeyPublicKey         = "public-key"
	KeySecretKey         = "secret-key"
	KeyConnectionTimeout = "connection-timeout"
	KeyBuyFee            = "buy-fee"
	KeySellFee           = "sell-fee"
)

var oneHundred = decimal.NewFromInt(100)

// AdapterConfig is the validated configuration the client is built from.
// Fees are stored in fractional form: a "0.2" (percent) property value
// becomes 0.002.
type AdapterConfig struct {
	PublicKey         string
	SecretKey         string
	ConnectionTimeout time.Duration
	BuyFee            decimal.Decimal
	SellFee           decimal.Decimal
}

// IllegalConfigError means the property file cannot produce a usable
// AdapterConfig. The client must never be constructed from a half-read file.
type IllegalConfigError struct {
	Key    string
	Reason string
}

func (e *IllegalConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: property %q %s", e.Key, e.Reason)
}

// Load reads and validates the property file at path.
func Load(path string) (*AdapterConfig, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, &IllegalConfigError{Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	return fromProperties(p)
}

func fromProperties(p *properties.Properties) (*AdapterConfig, error) {
	cfg := &AdapterConfig{}

	var err error
	if cfg.PublicKey, err = requiredString(p, KeyPublicKey); err != nil {
		return nil, err
	}
	if cfg.SecretKey, err = requiredString(p, KeySecretKey); err != nil {
		return nil, err
	}

	timeoutStr, err := requiredString(p, KeyConnectionTimeout)
	if err != nil {
		return nil, err
	}
	seconds, err := strconv.Atoi(timeoutStr)
	if err != nil || seconds <= 0 {
		return nil, &IllegalConfigError{Key: KeyConnectionTimeout, Reason: fmt.Sprintf("must be a positive integer, got %q", timeoutStr)}
	}
	cfg.ConnectionTimeout = time.Duration(seconds) * time.Second

	if cfg.BuyFee, err = requiredFee(p, KeyBuyFee); err != nil {
		return nil, err
	}
	if cfg.SellFee, err = requiredFee(p, KeySellFee); err != nil {
		return nil, err
	}

	return cfg, nil
}

func requiredString(p *properties.Properties, key string) (string, error) {
	v, ok := p.Get(key)
	if !ok || v == "" {
		return "", &IllegalConfigError{Key: key, Reason: "is missing"}
	}
	return v, nil
}

// requiredFee parses a percentage such as "0.2" and converts it to the
// fractional form used in fee arithmetic.
func requiredFee(p *properties.Properties, key string) (decimal.Decimal, error) {
	v, err := requiredString(p, key)
	if err != nil {
		return decimal.Decimal{}, err
	}
	percent, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, &IllegalConfigError{Key: key, Reason: fmt.Sprintf("must be a decimal percentage, got %q", v)}
	}
	return percent.Div(oneHundred), nil
}
