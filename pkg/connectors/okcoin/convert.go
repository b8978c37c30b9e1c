package okcoin

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"okbot/pkg/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// checkEnvelope inspects a response for the exchange error envelope before
// any domain decoding: {"result":false,"error_code":N} or {"error_code":N}.
func checkEnvelope(body string) error {
	var env struct {
		Result    *bool `json:"result"`
		ErrorCode *int  `json:"error_code"`
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return errors.Wrap(err, "failed to unmarshal response")
	}
	if env.ErrorCode != nil {
		return &vendorError{Code: *env.ErrorCode}
	}
	if env.Result != nil && !*env.Result {
		return &vendorError{}
	}
	return nil
}

func timestampToTime(ms int64) time.Time {
	return time.Unix(0, ms*1000*1000).UTC()
}

func orderTypeFromExchange(exchangeType string) (models.OrderType, error) {
	switch exchangeType {
	case "buy":
		return models.OrderTypeBuy, nil
	case "sell":
		return models.OrderTypeSell, nil
	default:
		return "", errors.Errorf("unexpected order type %q", exchangeType)
	}
}

type tickerResp struct {
	Ticker *struct {
		Last *decimal.Decimal `json:"last"`
	} `json:"ticker"`
}

func decodeTicker(body string) (decimal.Decimal, error) {
	var resp tickerResp
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "failed to unmarshal ticker response")
	}
	// A zero price must never come out of a schema mismatch.
	if resp.Ticker == nil || resp.Ticker.Last == nil {
		return decimal.Decimal{}, errors.New("ticker response is missing last price")
	}
	return *resp.Ticker.Last, nil
}

// Depth levels arrive as [price, quantity] pairs. Bids come highest price
// first, asks lowest price first; exchange ordering is trusted as-is.
type depthResp struct {
	Bids [][2]decimal.Decimal `json:"bids"`
	Asks [][2]decimal.Decimal `json:"asks"`
}

func decodeDepth(marketID, body string) (*models.MarketOrderBook, error) {
	var resp depthResp
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal depth response")
	}

	book := &models.MarketOrderBook{
		MarketID:   marketID,
		BuyOrders:  make([]models.MarketOrder, 0, len(resp.Bids)),
		SellOrders: make([]models.MarketOrder, 0, len(resp.Asks)),
	}
	for _, level := range resp.Bids {
		book.BuyOrders = append(book.BuyOrders, models.NewMarketOrder(models.OrderTypeBuy, level[0], level[1]))
	}
	for _, level := range resp.Asks {
		book.SellOrders = append(book.SellOrders, models.NewMarketOrder(models.OrderTypeSell, level[0], level[1]))
	}

	return book, nil
}

type userInfoResp struct {
	Info *struct {
		Funds *struct {
			Free    map[string]decimal.Decimal `json:"free"`
			Freezed map[string]decimal.Decimal `json:"freezed"`
		} `json:"funds"`
	} `json:"info"`
}

func decodeBalanceInfo(body string) (*models.BalanceInfo, error) {
	var resp userInfoResp
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal userinfo response")
	}
	if resp.Info == nil || resp.Info.Funds == nil {
		return nil, errors.New("userinfo response is missing funds")
	}

	info := models.NewBalanceInfo()
	for asset, amount := range resp.Info.Funds.Free {
		info.Available[strings.ToUpper(asset)] = amount
	}
	for asset, amount := range resp.Info.Funds.Freezed {
		info.OnHold[strings.ToUpper(asset)] = amount
	}

	return info, nil
}

type orderInfoResp struct {
	Orders []struct {
		OrderID    int64           `json:"order_id"`
		Symbol     string          `json:"symbol"`
		Type       string          `json:"type"`
		CreateDate int64           `json:"create_date"`
		Price      decimal.Decimal `json:"price"`
		Amount     decimal.Decimal `json:"amount"`
	} `json:"orders"`
}

func decodeOpenOrders(body string) ([]models.OpenOrder, error) {
	var resp orderInfoResp
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal order_info response")
	}

	orders := make([]models.OpenOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orderType, err := orderTypeFromExchange(o.Type)
		if err != nil {
			return nil, err
		}
		orders = append(orders, models.OpenOrder{
			ID:        strconv.FormatInt(o.OrderID, 10),
			MarketID:  o.Symbol,
			Type:      orderType,
			CreatedAt: timestampToTime(o.CreateDate),
			Price:     o.Price,
			Quantity:  o.Amount,
			Total:     o.Price.Mul(o.Amount),
			// OriginalQuantity is not reported by this exchange.
		})
	}

	return orders, nil
}

type tradeResp struct {
	OrderID int64 `json:"order_id"`
}

func decodeOrderID(body string) (string, error) {
	var resp tradeResp
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal trade response")
	}
	if resp.OrderID == 0 {
		return "", errors.New("trade response is missing order_id")
	}
	return strconv.FormatInt(resp.OrderID, 10), nil
}

type cancelResp struct {
	Result  *bool `json:"result"`
	OrderID int64 `json:"order_id"`
}

func decodeCancel(body string) (bool, error) {
	var resp cancelResp
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return false, errors.Wrap(err, "failed to unmarshal cancel_order response")
	}
	// An absent result is a schema mismatch, not a rejected cancel.
	if resp.Result == nil {
		return false, errors.New("cancel_order response is missing result")
	}
	return *resp.Result, nil
}
