package okcoin

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/c-pro/rolling"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BaseURL is the production REST API v1 endpoint root.
const BaseURL = "https://www.okcoin.com/api/v1/"

// Transport performs a single exchange call and returns the raw response
// body. Implementations classify socket timeouts and transient HTTP statuses
// as *TimeoutError; everything else surfaces as a plain error for the facade
// to map.
type Transport interface {
	SendPublicRequest(ctx context.Context, endpoint string, params url.Values) (string, error)
	SendAuthenticatedRequest(ctx context.Context, endpoint string, params url.Values) (string, error)
}

// HTTPTransport talks to the exchange over HTTPS. Public calls are GETs with
// a query string; authenticated calls are form-encoded POSTs carrying
// api_key and sign. One TCP connection per call, closed before return.
type HTTPTransport struct {
	baseURL   string
	publicKey string
	secretKey string
	client    http.Client

	mux     sync.Mutex
	latency *rolling.Window
}

func NewHTTPTransport(baseURL, publicKey, secretKey string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		baseURL:   baseURL,
		publicKey: publicKey,
		secretKey: secretKey,
		client: http.Client{
			Timeout: timeout,
		},
		latency: rolling.NewWindow(1024, time.Minute),
	}
}

func (t *HTTPTransport) SendPublicRequest(ctx context.Context, endpoint string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+endpoint, nil)
	if err != nil {
		return "", errors.Wrapf(err, "okcoin: failed to create %s request", endpoint)
	}
	req.URL.RawQuery = params.Encode()

	return t.do(req, endpoint)
}

func (t *HTTPTransport) SendAuthenticatedRequest(ctx context.Context, endpoint string, params url.Values) (string, error) {
	form := url.Values{}
	for name, values := range params {
		form[name] = append([]string(nil), values...)
	}
	form.Set("api_key", t.publicKey)
	form.Set("sign", signParams(t.publicKey, t.secretKey, form))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrapf(err, "okcoin: failed to create %s request", endpoint)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return t.do(req, endpoint)
}

func (t *HTTPTransport) do(req *http.Request, endpoint string) (string, error) {
	// No connection pooling is promised; close the socket after each call.
	req.Close = true

	reqID := uuid.New().String()[:8]
	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{Op: endpoint, Cause: err}
		}
		return "", errors.Wrapf(err, "okcoin: %s request %s failed", endpoint, reqID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{Op: endpoint, Cause: err}
		}
		return "", errors.Wrapf(err, "okcoin: %s request %s failed to read response", endpoint, reqID)
	}

	elapsed := time.Since(start)
	t.observe(elapsed)
	log.Printf("okcoin: %s [%s] -> %d in %v", endpoint, reqID, resp.StatusCode, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The exchange answers 5xx under transient load; any non-2xx is
		// treated as retryable.
		return "", &TimeoutError{Op: endpoint, Cause: errors.Errorf("exchange responded with status %d", resp.StatusCode)}
	}

	return string(body), nil
}

func (t *HTTPTransport) observe(elapsed time.Duration) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.latency.Add(float64(elapsed.Milliseconds()))
}

// LatencyStats reports count, average and max request latency in
// milliseconds over the last minute of calls.
func (t *HTTPTransport) LatencyStats() (count int64, avg, max float64) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.latency.Evict()
	return t.latency.Count(), t.latency.Avg(), t.latency.Max()
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
