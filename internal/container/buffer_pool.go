package container

import (
	"crypto/aes"
	"sync"
)

// DefaultChunkSize is the plaintext read size used when no chunk size is given.
const DefaultChunkSize = 32 * 1024

// MaxChunkSize is the largest accepted read size. Larger values are clamped.
const MaxChunkSize = 64 << 20

// bufferPool holds default-sized chunk buffers, with one spare block for carried bytes.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, DefaultChunkSize+aes.BlockSize)

		return &buf
	},
}

// getBuffer returns a buffer of chunkSize+BlockSize bytes and a release func.
func getBuffer(chunkSize int) ([]byte, func()) {
	if chunkSize != DefaultChunkSize {
		return make([]byte, chunkSize+aes.BlockSize), func() {}
	}

	bufp, ok := bufferPool.Get().(*[]byte)
	if !ok {
		return make([]byte, chunkSize+aes.BlockSize), func() {}
	}

	return *bufp, func() { bufferPool.Put(bufp) }
}
