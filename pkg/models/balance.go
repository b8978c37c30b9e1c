package models

import "github.com/shopspring/decimal"

// BalanceInfo maps asset codes (uppercase, e.g. "BTC") to balances.
// Assets the account never held simply do not appear.
type BalanceInfo struct {
	Available map[string]decimal.Decimal
	OnHold    map[string]decimal.Decimal
}

func NewBalanceInfo() *BalanceInfo {
	return &BalanceInfo{
		Available: make(map[string]decimal.Decimal),
		OnHold:    make(map[string]decimal.Decimal),
	}
}
