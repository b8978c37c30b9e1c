package okcoin

import (
	"crypto/md5"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// signParams implements the OKCoin v1 request signature: name=value pairs
// (api_key included, sign excluded) sorted ascending by name, joined with
// '&', then '&secret_key=<secret>' appended and the whole string digested
// with MD5, hex-encoded uppercase.
//
// The secret only ever enters the digest input; it must never become a
// request parameter.
func signParams(publicKey, secretKey string, params url.Values) string {
	names := make([]string, 0, len(params)+1)
	for name := range params {
		if name == "sign" || name == "api_key" {
			continue
		}
		names = append(names, name)
	}
	names = append(names, "api_key")
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		value := params.Get(name)
		if name == "api_key" {
			value = publicKey
		}
		pairs = append(pairs, name+"="+value)
	}

	input := strings.Join(pairs, "&") + "&secret_key=" + secretKey
	return fmt.Sprintf("%X", md5.Sum([]byte(input)))
}
