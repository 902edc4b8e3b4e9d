// Package storage holds what the settings store backends share: the key
// value contract and the compression codec applied to stored values.
package storage

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// CompressionAlgo names how a stored value is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the value size above which values are
// compressed.
const DefaultCompressThreshold = 8 * 1024

// Codec compresses large values with zstd. Safe for concurrent use.
type Codec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewCodec creates a codec compressing values larger than threshold
// bytes. A threshold <= 0 uses DefaultCompressThreshold.
func NewCodec(threshold int) (*Codec, error) {
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Codec{encoder: encoder, decoder: decoder, threshold: threshold}, nil
}

// Encode returns the stored form of value and the algorithm used.
func (c *Codec) Encode(value []byte) ([]byte, CompressionAlgo) {
	if len(value) <= c.threshold {
		return value, CompressionNone
	}
	return c.encoder.EncodeAll(value, nil), CompressionZstd
}

// Decode reverses Encode.
func (c *Codec) Decode(stored []byte, algo CompressionAlgo) ([]byte, error) {
	switch algo {
	case CompressionNone, "":
		return stored, nil
	case CompressionZstd:
		value, err := c.decoder.DecodeAll(stored, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress value: %w", err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", algo)
	}
}
