package db

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
)

// Stored payloads carry a one byte header naming their encoding.
const (
	encodingRaw  byte = 'j'
	encodingZstd byte = 'z'
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// encodePayload compresses payloads of at least threshold bytes. A threshold
// of zero disables compression.
func encodePayload(payload string, threshold int) []byte {
	if threshold <= 0 || len(payload) < threshold {
		out := make([]byte, 0, len(payload)+1)
		out = append(out, encodingRaw)
		return append(out, payload...)
	}

	out := zstdEncoder.EncodeAll([]byte(payload), []byte{encodingZstd})
	slog.Debug("Compressed configuration payload",
		"raw", humanize.Bytes(uint64(len(payload))),
		"compressed", humanize.Bytes(uint64(len(out))))
	return out
}

func decodePayload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty stored payload")
	}

	switch data[0] {
	case encodingRaw:
		return string(data[1:]), nil
	case encodingZstd:
		raw, err := zstdDecoder.DecodeAll(data[1:], nil)
		if err != nil {
			return "", fmt.Errorf("failed to decompress payload: %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("unknown payload encoding %q", data[0])
	}
}
