package content

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	raw := []byte("hello")
	b64 := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		in      any
		want    []byte
		wantErr error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "raw bytes", in: raw, want: raw},
		{name: "binary wrapper", in: Binary{Subtype: 0, Data: raw}, want: raw},
		{name: "binary pointer", in: &Binary{Data: raw}, want: raw},
		{name: "nil binary pointer", in: (*Binary)(nil), want: nil},
		{name: "int array", in: []int{104, 101, 108, 108, 111}, want: raw},
		{name: "json array", in: []any{float64(104), float64(101), 108, int64(108), uint8(111)}, want: raw},
		{name: "base64 string", in: b64, want: raw},
		{name: "data url string", in: "data:text/plain;base64," + b64, want: raw},
		{name: "unpadded base64", in: "aGVsbG8", want: raw},
		{name: "empty string", in: "", want: nil},
		{name: "int out of range", in: []int{1, 256}, wantErr: ErrInvalidByte},
		{name: "negative int", in: []int{-1}, wantErr: ErrInvalidByte},
		{name: "fractional number", in: []any{1.5}, wantErr: ErrInvalidByte},
		{name: "string element", in: []any{"a"}, wantErr: ErrUnrecognized},
		{name: "unsupported type", in: 42, wantErr: ErrUnrecognized},
		{name: "map", in: map[string]any{"type": "Buffer"}, wantErr: ErrUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_InvalidBase64(t *testing.T) {
	_, err := Normalize("not base64 !!!")
	assert.Error(t, err)
}

func TestDecodeBase64Payload(t *testing.T) {
	t.Run("strips prefix and whitespace", func(t *testing.T) {
		got, err := DecodeBase64Payload("data:application/pdf;base64, aGk= \n")
		require.NoError(t, err)
		assert.Equal(t, []byte("hi"), got)
	})

	t.Run("empty after prefix", func(t *testing.T) {
		_, err := DecodeBase64Payload("data:text/plain;base64,")
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("padding only", func(t *testing.T) {
		for _, in := range []string{"=", "==", "data:text/plain;base64,=="} {
			got, err := DecodeBase64Payload(in)
			assert.ErrorIs(t, err, ErrEmptyPayload, in)
			assert.Nil(t, got, in)
		}
	})

	t.Run("unpadded", func(t *testing.T) {
		got, err := DecodeBase64Payload("aGk")
		require.NoError(t, err)
		assert.Equal(t, []byte("hi"), got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeBase64Payload("%%%")
		assert.Error(t, err)
	})
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:text/plain;base64,aGk=", DataURL("text/plain", []byte("hi")))
	assert.Equal(t, "data:text/plain;base64,", DataURL("text/plain", []byte{}))
	assert.Equal(t, "", DataURL("text/plain", nil))
}

func TestRoundTrip(t *testing.T) {
	in := []byte{0, 1, 2, 254, 255, 10, 13}
	got, err := Normalize(DataURL("application/octet-stream", in))
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
