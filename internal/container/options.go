package container

import (
	"crypto/rand"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/fenc/internal/kdf"
)

// KeyDeriver turns a password and salt into a symmetric key.
type KeyDeriver interface {
	Derive(password string, salt []byte) ([]byte, error)
}

// Option configures a Container or a stream operation.
type Option func(*options)

type options struct {
	deriver            KeyDeriver
	chunkSize          int
	random             io.Reader
	removeSource       bool
	preserveTimestamps bool
	logger             logrus.FieldLogger
}

func newOptions(opts []Option) options {
	o := options{
		deriver:   kdf.Default(),
		chunkSize: DefaultChunkSize,
		random:    rand.Reader,
		logger:    discardLogger(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithDeriver replaces the default PBKDF2-HMAC-SHA1 deriver.
// Files written with a different deriver can only be read back with the same one.
func WithDeriver(d KeyDeriver) Option {
	return func(o *options) {
		if d != nil {
			o.deriver = d
		}
	}
}

// WithChunkSize sets the read size for streaming. Values below 1 keep the default
// and values above MaxChunkSize are clamped. The chunk size never changes the produced ciphertext.
func WithChunkSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.chunkSize = min(size, MaxChunkSize)
		}
	}
}

// WithRandom sets the source for salts and IVs. It must be cryptographically secure outside tests.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.random = r
		}
	}
}

// WithRemoveSource deletes the input file after a fully successful operation.
func WithRemoveSource(remove bool) Option {
	return func(o *options) {
		o.removeSource = remove
	}
}

// WithPreserveTimestamps copies the input modification time to the output.
func WithPreserveTimestamps(preserve bool) Option {
	return func(o *options) {
		o.preserveTimestamps = preserve
	}
}

// WithLogger sets the logger for debug output. Key material is never logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}
