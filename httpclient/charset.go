package httpclient

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	logerrors "github.com/kbukum/logkit/errors"
)

// lookupCharset resolves an IANA charset name such as "UTF-8" or "GBK".
func lookupCharset(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, logerrors.EncodingError(name, err)
	}
	if enc == nil {
		return nil, logerrors.EncodingError(name, fmt.Errorf("no encoder available"))
	}
	return enc, nil
}

// encodeText converts s into bytes of the named charset.
func encodeText(charset, s string) ([]byte, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, logerrors.EncodingError(charset, err)
	}
	return out, nil
}

// headerForm rewrites v so that every octet becomes one ISO-8859-1
// character. Applied after signing: HeaderOctets restores the exact bytes.
func headerForm(v string) string {
	s, err := charmap.ISO8859_1.NewDecoder().String(v)
	if err != nil {
		// ISO-8859-1 maps all 256 octets, decoding cannot fail.
		return v
	}
	return s
}

// HeaderOctets converts a WireRequest header value back to the octets to
// transmit. It fails if v holds a character outside ISO-8859-1.
func HeaderOctets(v string) (string, error) {
	s, err := charmap.ISO8859_1.NewEncoder().String(v)
	if err != nil {
		return "", logerrors.EncodingError("ISO-8859-1", err)
	}
	return s, nil
}

func encodeHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = headerForm(v)
	}
	return out
}

// ValidateCharset reports whether name is a charset the builder can encode with.
func ValidateCharset(name string) error {
	_, err := lookupCharset(name)
	return err
}
