package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePayload(t *testing.T) {
	small := `{"primaryKey":"Name"}`
	large := `{"columns":[` + strings.Repeat(`{"name":"column","label":"Column","type":"string"},`, 200) + `]}`

	t.Run("below threshold is stored raw", func(t *testing.T) {
		data := encodePayload(small, 1024)
		assert.Equal(t, encodingRaw, data[0])
		assert.Equal(t, small, string(data[1:]))
	})

	t.Run("above threshold is compressed", func(t *testing.T) {
		data := encodePayload(large, 1024)
		assert.Equal(t, encodingZstd, data[0])
		assert.Less(t, len(data), len(large))

		decoded, err := decodePayload(data)
		require.NoError(t, err)
		assert.Equal(t, large, decoded)
	})

	t.Run("zero threshold disables compression", func(t *testing.T) {
		data := encodePayload(large, 0)
		assert.Equal(t, encodingRaw, data[0])
	})

	t.Run("empty payload", func(t *testing.T) {
		decoded, err := decodePayload(encodePayload("", 10))
		require.NoError(t, err)
		assert.Equal(t, "", decoded)
	})
}

func TestDecodePayload_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown encoding", []byte("x{}")},
		{"corrupted zstd", []byte("znot-zstd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePayload(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "tablesorter:config:w-1", redisKey("w-1"))
}
