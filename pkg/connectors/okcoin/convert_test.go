package okcoin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"okbot/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cannedResponse(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestCheckEnvelope(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
		ok   bool
	}{
		{name: "success with result", body: `{"result":true,"order_id":99646259}`, ok: true},
		{name: "success without result", body: `{"ticker":{"last":"231.35"}}`, ok: true},
		{name: "error with result false", body: `{"result":false,"error_code":10008}`, code: 10008},
		{name: "error code only", body: `{"error_code":10009}`, code: 10009},
		{name: "result false only", body: `{"result":false}`, code: 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := checkEnvelope(c.body)
			if c.ok {
				assert.NoError(t, err)
				return
			}
			var vendor *vendorError
			require.ErrorAs(t, err, &vendor)
			assert.Equal(t, c.code, vendor.Code)
		})
	}
}

func TestCheckEnvelopeMalformedBody(t *testing.T) {
	err := checkEnvelope("<html>bad gateway</html>")
	require.Error(t, err)

	var vendor *vendorError
	assert.False(t, errors.As(err, &vendor))
}

func TestDecodeTicker(t *testing.T) {
	last, err := decodeTicker(cannedResponse(t, "ticker.json"))
	require.NoError(t, err)

	assert.True(t, last.Equal(decimal.RequireFromString("231.35")), "last = %s", last)

	// Full precision survives scaling by the caller.
	scaled := last.Round(8)
	assert.True(t, scaled.Equal(decimal.RequireFromString("231.35000000")))
}

func TestDecodeTickerMissingLast(t *testing.T) {
	for _, body := range []string{`{"date":"1442673698"}`, `{"ticker":{}}`} {
		_, err := decodeTicker(body)
		assert.Error(t, err, "body %s", body)
	}
}

func TestDecodeDepth(t *testing.T) {
	book, err := decodeDepth("btc_usd", cannedResponse(t, "depth.json"))
	require.NoError(t, err)

	assert.Equal(t, "btc_usd", book.MarketID)
	require.Len(t, book.BuyOrders, 200)
	require.Len(t, book.SellOrders, 200)

	bestBid := book.BuyOrders[0]
	assert.Equal(t, models.OrderTypeBuy, bestBid.Type)
	assert.True(t, bestBid.Price.Equal(decimal.RequireFromString("228.3")))
	assert.True(t, bestBid.Quantity.Equal(decimal.RequireFromString("52.995")))
	assert.True(t, bestBid.Total.Equal(decimal.RequireFromString("12097.1085")), "total = %s", bestBid.Total)

	bestAsk := book.SellOrders[0]
	assert.Equal(t, models.OrderTypeSell, bestAsk.Type)
	assert.True(t, bestAsk.Price.Equal(decimal.RequireFromString("228.36")))
	assert.True(t, bestAsk.Quantity.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, bestAsk.Total.Equal(decimal.RequireFromString("2.2836")), "total = %s", bestAsk.Total)

	// Exchange ordering is trusted: bids descend, asks ascend.
	for i := 1; i < len(book.BuyOrders); i++ {
		assert.True(t, book.BuyOrders[i].Price.LessThan(book.BuyOrders[i-1].Price))
	}
	for i := 1; i < len(book.SellOrders); i++ {
		assert.True(t, book.SellOrders[i].Price.GreaterThan(book.SellOrders[i-1].Price))
	}

	// Every level keeps the total invariant.
	for _, o := range append(book.BuyOrders, book.SellOrders...) {
		assert.True(t, o.Total.Equal(o.Price.Mul(o.Quantity)))
	}
}

func TestDecodeBalanceInfo(t *testing.T) {
	info, err := decodeBalanceInfo(cannedResponse(t, "userinfo.json"))
	require.NoError(t, err)

	assert.True(t, info.Available["BTC"].Equal(decimal.RequireFromString("0.06")))
	assert.True(t, info.Available["USD"].Equal(decimal.RequireFromString("0.0608")))
	assert.True(t, info.OnHold["BTC"].Equal(decimal.RequireFromString("0.03")))
	assert.True(t, info.OnHold["USD"].Equal(decimal.RequireFromString("2.25")))

	// Asset codes arrive lowercase and are uppercased on the way in.
	_, lower := info.Available["btc"]
	assert.False(t, lower)
}

func TestDecodeBalanceInfoMissingFunds(t *testing.T) {
	for _, body := range []string{`{"result":true}`, `{"result":true,"info":{}}`} {
		_, err := decodeBalanceInfo(body)
		assert.Error(t, err, "body %s", body)
	}
}

func TestDecodeOpenOrders(t *testing.T) {
	orders, err := decodeOpenOrders(cannedResponse(t, "order_info.json"))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "99031951", first.ID)
	assert.Equal(t, "btc_usd", first.MarketID)
	assert.Equal(t, models.OrderTypeSell, first.Type)
	assert.EqualValues(t, 1442949893000, first.CreatedAt.UnixMilli())
	assert.True(t, first.Price.Equal(decimal.RequireFromString("255")))
	assert.True(t, first.Quantity.Equal(decimal.RequireFromString("0.015")))
	assert.True(t, first.Total.Equal(decimal.RequireFromString("3.825")), "total = %s", first.Total)
	assert.Nil(t, first.OriginalQuantity)

	assert.Equal(t, models.OrderTypeBuy, orders[1].Type)
}

func TestDecodeOpenOrdersUnknownType(t *testing.T) {
	_, err := decodeOpenOrders(`{"result":true,"orders":[{"order_id":1,"symbol":"btc_usd","type":"short","create_date":0,"price":1,"amount":1}]}`)
	assert.Error(t, err)
}

func TestDecodeOrderID(t *testing.T) {
	id, err := decodeOrderID(cannedResponse(t, "trade_buy.json"))
	require.NoError(t, err)
	assert.Equal(t, "99646259", id)

	_, err = decodeOrderID(`{"result":true}`)
	assert.Error(t, err)
}

func TestDecodeCancel(t *testing.T) {
	ok, err := decodeCancel(cannedResponse(t, "cancel_order.json"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecodeCancelMissingResult(t *testing.T) {
	// An absent result field must not read as a rejected cancel.
	_, err := decodeCancel(`{"order_id":99671870}`)
	assert.Error(t, err)
}
