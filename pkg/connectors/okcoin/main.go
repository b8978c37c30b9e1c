// Package okcoin implements a spot-trading client for the OKCoin REST API
// v1. The client is a stateless request/response translator: it does not
// retry, stream, rate-limit or cache. Every operation surfaces one of two
// failure kinds: *TimeoutError (retryable) or *TradingAPIError (not).
package okcoin

import (
	"context"
	"net/url"

	"okbot/pkg/config"
	"okbot/pkg/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const Name = "okcoin"

const implName = "OKCoin REST Spot Trading API v1"

const (
	endpointTicker      = "ticker.do"
	endpointDepth       = "depth.do"
	endpointUserInfo    = "userinfo.do"
	endpointOrderInfo   = "order_info.do"
	endpointTrade       = "trade.do"
	endpointCancelOrder = "cancel_order.do"
)

// order_info.do interprets order_id=-1 as "all unfilled orders".
const allUnfilledOrders = "-1"

// Trading is the surface consumed by the trading engine. Decimal values are
// exact; callers must not convert them through binary floats.
type Trading interface {
	GetMarketOrders(ctx context.Context, marketID string) (*models.MarketOrderBook, error)
	GetLatestMarketPrice(ctx context.Context, marketID string) (decimal.Decimal, error)
	GetYourOpenOrders(ctx context.Context, marketID string) ([]models.OpenOrder, error)
	CreateOrder(ctx context.Context, marketID string, orderType models.OrderType, quantity, price decimal.Decimal) (string, error)
	CancelOrder(ctx context.Context, orderID, marketID string) (bool, error)
	GetBalanceInfo(ctx context.Context) (*models.BalanceInfo, error)
	BuyOrderFeePercentage(marketID string) decimal.Decimal
	SellOrderFeePercentage(marketID string) decimal.Decimal
	ImplName() string
}

// OKCoin is the exchange client. Configuration and credentials are read-only
// after construction; it is safe for concurrent use when its Transport is.
type OKCoin struct {
	cfg       *config.AdapterConfig
	transport Transport
}

var _ Trading = (*OKCoin)(nil)

// New builds a client from an already validated config. A nil transport
// selects the production HTTP transport; tests pass a fake.
func New(cfg *config.AdapterConfig, transport Transport) *OKCoin {
	if transport == nil {
		transport = NewHTTPTransport(BaseURL, cfg.PublicKey, cfg.SecretKey, cfg.ConnectionTimeout)
	}
	return &OKCoin{
		cfg:       cfg,
		transport: transport,
	}
}

// NewFromFile builds a client from a property file. A config error means the
// client is never handed out.
func NewFromFile(path string) (*OKCoin, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, nil), nil
}

func (c *OKCoin) GetMarketOrders(ctx context.Context, marketID string) (*models.MarketOrderBook, error) {
	const op = "GetMarketOrders"

	params := url.Values{}
	params.Set("symbol", marketID)

	body, err := c.transport.SendPublicRequest(ctx, endpointDepth, params)
	if err != nil {
		return nil, mapErr(op, err)
	}
	if err := checkEnvelope(body); err != nil {
		return nil, mapErr(op, err)
	}

	book, err := decodeDepth(marketID, body)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return book, nil
}

func (c *OKCoin) GetLatestMarketPrice(ctx context.Context, marketID string) (decimal.Decimal, error) {
	const op = "GetLatestMarketPrice"

	params := url.Values{}
	params.Set("symbol", marketID)

	body, err := c.transport.SendPublicRequest(ctx, endpointTicker, params)
	if err != nil {
		return decimal.Decimal{}, mapErr(op, err)
	}
	if err := checkEnvelope(body); err != nil {
		return decimal.Decimal{}, mapErr(op, err)
	}

	last, err := decodeTicker(body)
	if err != nil {
		return decimal.Decimal{}, mapErr(op, err)
	}
	return last, nil
}

func (c *OKCoin) GetYourOpenOrders(ctx context.Context, marketID string) ([]models.OpenOrder, error) {
	const op = "GetYourOpenOrders"

	params := url.Values{}
	params.Set("symbol", marketID)
	params.Set("order_id", allUnfilledOrders)

	body, err := c.transport.SendAuthenticatedRequest(ctx, endpointOrderInfo, params)
	if err != nil {
		return nil, mapErr(op, err)
	}
	if err := checkEnvelope(body); err != nil {
		return nil, mapErr(op, err)
	}

	orders, err := decodeOpenOrders(body)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return orders, nil
}

// CreateOrder places a limit order and returns the exchange-issued order id.
// Price and quantity go over the wire as plain decimal strings.
func (c *OKCoin) CreateOrder(ctx context.Context, marketID string, orderType models.OrderType, quantity, price decimal.Decimal) (string, error) {
	const op = "CreateOrder"

	if orderType != models.OrderTypeBuy && orderType != models.OrderTypeSell {
		return "", &TradingAPIError{Op: op, Cause: errors.Errorf("invalid order type %q", orderType)}
	}

	params := url.Values{}
	params.Set("symbol", marketID)
	params.Set("type", string(orderType))
	params.Set("price", price.String())
	params.Set("amount", quantity.String())

	body, err := c.transport.SendAuthenticatedRequest(ctx, endpointTrade, params)
	if err != nil {
		return "", mapErr(op, err)
	}
	if err := checkEnvelope(body); err != nil {
		return "", mapErr(op, err)
	}

	orderID, err := decodeOrderID(body)
	if err != nil {
		return "", mapErr(op, err)
	}
	return orderID, nil
}

// CancelOrder reports true when the exchange accepted the cancel. An
// exchange error envelope means the cancel was rejected, not that the call
// failed, so it becomes a false result rather than an error. Transport
// timeouts still surface as *TimeoutError.
func (c *OKCoin) CancelOrder(ctx context.Context, orderID, marketID string) (bool, error) {
	const op = "CancelOrder"

	params := url.Values{}
	params.Set("order_id", orderID)
	params.Set("symbol", marketID)

	body, err := c.transport.SendAuthenticatedRequest(ctx, endpointCancelOrder, params)
	if err != nil {
		return false, mapErr(op, err)
	}
	if err := checkEnvelope(body); err != nil {
		var vendor *vendorError
		if errors.As(err, &vendor) {
			return false, nil
		}
		return false, mapErr(op, err)
	}

	ok, err := decodeCancel(body)
	if err != nil {
		return false, mapErr(op, err)
	}
	return ok, nil
}

func (c *OKCoin) GetBalanceInfo(ctx context.Context) (*models.BalanceInfo, error) {
	const op = "GetBalanceInfo"

	body, err := c.transport.SendAuthenticatedRequest(ctx, endpointUserInfo, url.Values{})
	if err != nil {
		return nil, mapErr(op, err)
	}
	if err := checkEnvelope(body); err != nil {
		return nil, mapErr(op, err)
	}

	info, err := decodeBalanceInfo(body)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return info, nil
}

// BuyOrderFeePercentage returns the configured fractional buy fee, e.g.
// 0.002 for 0.2%. Fees are held per client, not per market; the marketID
// argument exists for interface symmetry and is ignored. No network I/O.
func (c *OKCoin) BuyOrderFeePercentage(_ string) decimal.Decimal {
	return c.cfg.BuyFee
}

// SellOrderFeePercentage returns the configured fractional sell fee.
// No network I/O.
func (c *OKCoin) SellOrderFeePercentage(_ string) decimal.Decimal {
	return c.cfg.SellFee
}

func (c *OKCoin) ImplName() string {
	return implName
}

// mapErr folds transport and decoder faults into the public failure kinds.
// Timeouts pass through; exchange error envelopes keep their code.
func mapErr(op string, err error) error {
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return err
	}
	var vendor *vendorError
	if errors.As(err, &vendor) {
		return &TradingAPIError{Op: op, Code: vendor.Code, Cause: err}
	}
	return &TradingAPIError{Op: op, Cause: err}
}
