// Package content converts stored document payloads into raw bytes and back
// into the base64 forms clients send and receive.
package content

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
)

const base64Marker = "base64,"

var (
	// ErrUnrecognized is returned for a value outside the accepted representations.
	ErrUnrecognized = errors.New("unrecognized content representation")
	// ErrInvalidByte is returned when a byte array holds a value outside 0..255.
	ErrInvalidByte = errors.New("byte array element out of range")
	// ErrEmptyPayload is returned when a base64 payload carries no data.
	ErrEmptyPayload = errors.New("empty base64 payload")
)

// Binary is a typed binary wrapper, the shape drivers use for subtype-tagged blobs.
type Binary struct {
	Subtype byte
	Data    []byte
}

// Normalize converts v into a byte slice. Accepted inputs:
//
//	nil                 absent content, returns (nil, nil)
//	[]byte              returned as is
//	Binary, *Binary     the wrapped Data
//	[]int, []any        byte arrays; every element must be an integer in 0..255
//	string              base64, optionally prefixed by a data URL header
//
// Anything else yields ErrUnrecognized.
func Normalize(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case Binary:
		return t.Data, nil
	case *Binary:
		if t == nil {
			return nil, nil
		}
		return t.Data, nil
	case []int:
		out := make([]byte, len(t))
		for i, n := range t {
			if n < 0 || n > math.MaxUint8 {
				return nil, fmt.Errorf("%w: index %d value %d", ErrInvalidByte, i, n)
			}
			out[i] = byte(n)
		}
		return out, nil
	case []any:
		out := make([]byte, len(t))
		for i, e := range t {
			b, err := toByte(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = b
		}
		return out, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return DecodeBase64Payload(t)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnrecognized, v)
	}
}

func toByte(e any) (byte, error) {
	var n float64
	switch x := e.(type) {
	case int:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint8:
		return x, nil
	case float64:
		n = x
	default:
		return 0, fmt.Errorf("%w: element %T", ErrUnrecognized, e)
	}
	if n != math.Trunc(n) || n < 0 || n > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidByte, e)
	}
	return byte(n), nil
}

// StripDataURL drops everything up to and including "base64," when present.
func StripDataURL(s string) string {
	if i := strings.Index(s, base64Marker); i >= 0 {
		return s[i+len(base64Marker):]
	}
	return s
}

// DecodeBase64Payload decodes standard base64 with or without padding,
// after stripping an optional data URL header.
func DecodeBase64Payload(s string) ([]byte, error) {
	payload := strings.TrimSpace(StripDataURL(s))
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		b = raw
	}
	// Padding alone decodes to nothing.
	if len(b) == 0 {
		return nil, ErrEmptyPayload
	}
	return b, nil
}

// DataURL renders data as data:<mime>;base64,<payload>. Nil data renders as "".
func DataURL(mimeType string, data []byte) string {
	if data == nil {
		return ""
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
