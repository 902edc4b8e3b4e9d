package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	c, err := NewCodec(64)
	require.NoError(t, err)

	small := []byte(`{"a":1}`)
	stored, algo := c.Encode(small)
	assert.Equal(t, CompressionNone, algo)
	assert.Equal(t, small, stored)

	large := bytes.Repeat([]byte(`{"id":"logo","label":"Logo","visible":true},`), 100)
	stored, algo = c.Encode(large)
	assert.Equal(t, CompressionZstd, algo)
	assert.Less(t, len(stored), len(large))

	decoded, err := c.Decode(stored, algo)
	require.NoError(t, err)
	assert.Equal(t, large, decoded)

	decoded, err = c.Decode(small, "")
	require.NoError(t, err)
	assert.Equal(t, small, decoded)
}

func TestCodec_DecodeErrors(t *testing.T) {
	c, err := NewCodec(0)
	require.NoError(t, err)

	_, err = c.Decode([]byte("not zstd"), CompressionZstd)
	assert.Error(t, err)

	_, err = c.Decode([]byte("x"), "lz4")
	assert.Error(t, err)
}
