package okcoin

import "fmt"

// TimeoutError is the retryable failure kind: the exchange did not answer
// within the connection timeout, or answered with a transient HTTP status.
type TimeoutError struct {
	Op    string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("okcoin: %s timed out: %v", e.Op, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// TradingAPIError is the non-retryable failure kind: malformed responses,
// exchange error envelopes on query calls, I/O faults, programming errors.
// Code carries the exchange error code when one was present, else 0.
type TradingAPIError struct {
	Op    string
	Code  int
	Cause error
}

func (e *TradingAPIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("okcoin: %s failed with exchange error code %d", e.Op, e.Code)
	}
	return fmt.Sprintf("okcoin: %s failed: %v", e.Op, e.Cause)
}

func (e *TradingAPIError) Unwrap() error { return e.Cause }

// vendorError carries an exchange error envelope between the decoder and the
// facade, where it is mapped to a TradingAPIError or, for cancels only, to a
// false result.
type vendorError struct {
	Code int
}

func (e *vendorError) Error() string {
	return fmt.Sprintf("exchange returned error code %d", e.Code)
}
