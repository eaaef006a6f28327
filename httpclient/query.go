package httpclient

import (
	"net/url"
	"strings"
)

// QueryString serializes params as k1=v1&k2&k3=v3 with every key and value
// converted to charset and percent-encoded per RFC 3986. Order is preserved.
func QueryString(params []Param, charset string) (string, error) {
	if len(params) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		key, err := urlEncode(p.Key, charset)
		if err != nil {
			return "", err
		}
		b.WriteString(key)
		if !p.HasValue {
			continue
		}
		value, err := urlEncode(p.Value, charset)
		if err != nil {
			return "", err
		}
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String(), nil
}

// urlEncode leaves only A-Z a-z 0-9 - _ . ~ unescaped; space becomes %20.
func urlEncode(s, charset string) (string, error) {
	raw, err := encodeText(charset, s)
	if err != nil {
		return "", err
	}
	// QueryEscape writes '+' only for spaces; a literal '+' is already %2B.
	return strings.ReplaceAll(url.QueryEscape(string(raw)), "+", "%20"), nil
}
