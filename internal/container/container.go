package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/fenc/internal/fileutil"
)

// Suffix is appended to encrypted file names.
const Suffix = ".fenc"

// Container encrypts or decrypts a single file with a password.
// A Container holds no key material between calls; each call derives its own key
// and draws its own salt and IV, so separate Containers may run concurrently.
type Container struct {
	path     string
	password string
	opts     options
}

// New returns a Container for path and password.
// Inputs are validated when Encrypt or Decrypt is called.
func New(path, password string, opts ...Option) *Container {
	return &Container{
		path:     path,
		password: password,
		opts:     newOptions(opts),
	}
}

// EncryptedPath returns the output name for encrypting path.
func EncryptedPath(path string) string {
	return path + Suffix
}

// DecryptedPath returns the output name for decrypting path, or false if path lacks the suffix.
func DecryptedPath(path string) (string, bool) {
	if !strings.HasSuffix(path, Suffix) || filepath.Base(path) == Suffix {
		return "", false
	}

	return strings.TrimSuffix(path, Suffix), true
}

// Encrypt writes <path>.fenc beside the source and returns its path.
// The source file is never modified.
func (c *Container) Encrypt(ctx context.Context) (string, error) {
	log := c.logger(opEncrypt)

	if _, err := c.validate(opEncrypt); err != nil {
		log.WithError(err).Debug("rejected input")

		return "", err
	}

	outPath := EncryptedPath(c.path)

	size, err := c.run(ctx, opEncrypt, outPath, func(in *os.File, w io.Writer) error {
		_, _, err := encryptStream(ctx, in, w, c.password, c.opts)

		return err
	})
	if err != nil {
		log.WithError(err).Debug("encryption failed")

		return "", err
	}

	log.WithFields(logrus.Fields{"output": outPath, "bytes": size}).Debug("encrypted")

	return outPath, c.cleanupSource(opEncrypt)
}

// Decrypt writes the plaintext of a .fenc file to the name without the suffix and returns that path.
// On any failure the partial output is removed and the source keeps its exact bytes.
func (c *Container) Decrypt(ctx context.Context) (string, error) {
	log := c.logger(opDecrypt)

	info, err := c.validate(opDecrypt)
	if err != nil {
		log.WithError(err).Debug("rejected input")

		return "", err
	}

	outPath, ok := DecryptedPath(c.path)
	if !ok {
		return "", newError(opDecrypt, c.path, KindInvalidInput, ErrMissingSuffix)
	}

	if info.Size() < FooterSize {
		return "", newError(opDecrypt, c.path, KindInvalidInput, fmt.Errorf("%w: %d bytes", ErrTooShort, info.Size()))
	}

	size, err := c.run(ctx, opDecrypt, outPath, func(in *os.File, w io.Writer) error {
		stat, err := in.Stat()
		if err != nil {
			return newError(opDecrypt, "", KindIO, fmt.Errorf("getting file info: %w", err))
		}

		_, err = decryptStream(ctx, in, stat.Size(), w, c.password, c.opts)

		return err
	})
	if err != nil {
		log.WithError(err).Debug("decryption failed")

		return "", err
	}

	log.WithFields(logrus.Fields{"output": outPath, "bytes": size}).Debug("decrypted")

	return outPath, c.cleanupSource(opDecrypt)
}

// validate checks the password and that the path names an existing regular file.
func (c *Container) validate(op string) (fs.FileInfo, error) {
	if c.path == "" {
		return nil, newError(op, c.path, KindInvalidInput, ErrEmptyPath)
	}

	if c.password == "" {
		return nil, newError(op, c.path, KindInvalidInput, ErrEmptyPassword)
	}

	info, err := os.Stat(c.path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, newError(op, c.path, KindInvalidInput, err)
	case err != nil:
		return nil, newError(op, c.path, KindIO, err)
	case !info.Mode().IsRegular():
		return nil, newError(op, c.path, KindInvalidInput, ErrNotRegular)
	}

	return info, nil
}

// run opens the source read-only, streams it through fn into a temp file and commits the temp file to outPath.
func (c *Container) run(ctx context.Context, op, outPath string, fn func(*os.File, io.Writer) error) (size int64, err error) {
	tc, err := fileutil.NewTempContext(c.path, outPath)
	if err != nil {
		return 0, newError(op, c.path, KindIO, fmt.Errorf("preparing atomic write: %w", err))
	}

	defer tc.CleanupOnError(&err)

	inFile, err := os.Open(filepath.Clean(c.path))
	if err != nil {
		return 0, newError(op, c.path, KindIO, fmt.Errorf("opening input file: %w", err))
	}
	defer inFile.Close()

	if err = fn(inFile, tc.TmpFile); err != nil {
		return 0, withPath(err, c.path)
	}

	if err = inFile.Close(); err != nil {
		return 0, newError(op, c.path, KindIO, fmt.Errorf("closing input file: %w", err))
	}

	size, err = tc.Commit(outPath, c.opts.preserveTimestamps)
	if err != nil {
		return 0, newError(op, c.path, KindIO, err)
	}

	return size, nil
}

// cleanupSource removes the input after success when requested.
func (c *Container) cleanupSource(op string) error {
	if !c.opts.removeSource {
		return nil
	}

	if err := fileutil.RemoveIfExists(c.path); err != nil {
		return newError(op, c.path, KindIO, err)
	}

	return nil
}

func (c *Container) logger(op string) logrus.FieldLogger {
	return c.opts.logger.WithFields(logrus.Fields{
		"op":           op,
		"path":         c.path,
		"operation_id": uuid.NewString(),
	})
}

// withPath fills in the path of an Error raised by the stream layer.
func withPath(err error, path string) error {
	var ce *Error
	if errors.As(err, &ce) && ce.Path == "" {
		cp := *ce
		cp.Path = path

		return &cp
	}

	return err
}
