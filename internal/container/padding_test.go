package container

import (
	"bytes"
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPKCS7Pad(t *testing.T) {
	t.Parallel()

	for size := 0; size <= 2*aes.BlockSize; size++ {
		data := bytes.Repeat([]byte{'x'}, size)
		padded := pkcs7Pad(append([]byte{}, data...), aes.BlockSize)

		require.Zero(t, len(padded)%aes.BlockSize, "size %d", size)
		require.Greater(t, len(padded), size)

		unpadded, err := pkcs7Unpad(padded[len(padded)-aes.BlockSize:])
		require.NoError(t, err)
		recovered := append(append([]byte{}, padded[:len(padded)-aes.BlockSize]...), unpadded...)
		assert.Equal(t, data, recovered, "size %d", size)
	}

	full := pkcs7Pad(bytes.Repeat([]byte{'y'}, aes.BlockSize), aes.BlockSize)
	assert.Equal(t, bytes.Repeat([]byte{aes.BlockSize}, aes.BlockSize), full[aes.BlockSize:])
}

func TestPKCS7UnpadRejects(t *testing.T) {
	t.Parallel()

	block := func(last ...byte) []byte {
		b := bytes.Repeat([]byte{0x41}, aes.BlockSize)
		copy(b[aes.BlockSize-len(last):], last)

		return b
	}

	cases := map[string][]byte{
		"zero padding":         block(0x00),
		"padding over block":   block(0x11),
		"inconsistent padding": block(0x01, 0x03, 0x03),
		"max byte":             block(0xFF),
	}

	for name, data := range cases {
		_, err := pkcs7Unpad(data)
		require.ErrorIs(t, err, ErrInvalidPadding, name)
	}

	_, err := pkcs7Unpad(nil)
	require.ErrorIs(t, err, ErrEmptyCiphertext)
}

func TestPKCS7UnpadAccepts(t *testing.T) {
	t.Parallel()

	got, err := pkcs7Unpad(append([]byte("0123456789abcde"), 0x01))
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789abcde"), got)

	got, err = pkcs7Unpad(bytes.Repeat([]byte{0x10}, aes.BlockSize))
	require.NoError(t, err)
	assert.Empty(t, got)
}
