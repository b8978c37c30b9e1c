package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeBuy  OrderType = "buy"
	OrderTypeSell OrderType = "sell"
)

// MarketOrder is a single price level in the public order book.
// Total is always Price * Quantity with no rounding.
type MarketOrder struct {
	Type     OrderType
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Total    decimal.Decimal
}

func NewMarketOrder(orderType OrderType, price, quantity decimal.Decimal) MarketOrder {
	return MarketOrder{
		Type:     orderType,
		Price:    price,
		Quantity: quantity,
		Total:    price.Mul(quantity),
	}
}

// MarketOrderBook holds both sides of the book for a single market.
// BuyOrders[0] is the best bid, SellOrders[0] the best ask.
type MarketOrderBook struct {
	MarketID   string
	BuyOrders  []MarketOrder
	SellOrders []MarketOrder
}

// OpenOrder is an unfilled order placed by the authenticated user.
// OriginalQuantity is nil for exchanges that do not report it.
type OpenOrder struct {
	ID               string
	MarketID         string
	Type             OrderType
	CreatedAt        time.Time
	Price            decimal.Decimal
	Quantity         decimal.Decimal
	Total            decimal.Decimal
	OriginalQuantity *decimal.Decimal
}
