package container

import (
	"crypto/aes"
	"fmt"
	"io"

	"github.com/idelchi/fenc/internal/kdf"
)

const (
	// SaltSize is the number of salt bytes in the footer.
	SaltSize = kdf.SaltSize
	// IVSize is the number of IV bytes in the footer.
	IVSize = aes.BlockSize
	// FooterSize is the length of the trailing salt || iv footer.
	FooterSize = SaltSize + IVSize
)

// Footer is the trailing metadata of a .fenc file: the KDF salt followed by the CBC IV.
// There is no magic or version; any 24-byte suffix parses as a footer.
type Footer struct {
	Salt [SaltSize]byte
	IV   [IVSize]byte
}

// newFooter draws a fresh salt and then a fresh IV from random.
func newFooter(random io.Reader) (Footer, error) {
	var f Footer

	if _, err := io.ReadFull(random, f.Salt[:]); err != nil {
		return Footer{}, fmt.Errorf("generating salt: %w", err)
	}

	if _, err := io.ReadFull(random, f.IV[:]); err != nil {
		return Footer{}, fmt.Errorf("generating IV: %w", err)
	}

	return f, nil
}

// Bytes returns salt || iv.
func (f Footer) Bytes() []byte {
	out := make([]byte, 0, FooterSize)
	out = append(out, f.Salt[:]...)

	return append(out, f.IV[:]...)
}

// WriteTo writes the raw footer to w.
func (f Footer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("writing footer: %w", err)
	}

	return int64(n), nil
}

// parseFooter splits a 24-byte suffix into salt and IV.
func parseFooter(raw []byte) (Footer, error) {
	if len(raw) != FooterSize {
		return Footer{}, fmt.Errorf("%w: footer is %d bytes", ErrTooShort, len(raw))
	}

	var f Footer

	copy(f.Salt[:], raw[:SaltSize])
	copy(f.IV[:], raw[SaltSize:])

	return f, nil
}

// readFooter reads the last FooterSize bytes of a size-byte source without moving any offset.
func readFooter(src io.ReaderAt, size int64) (Footer, error) {
	if size < FooterSize {
		return Footer{}, ErrTooShort
	}

	raw := make([]byte, FooterSize)
	if _, err := src.ReadAt(raw, size-FooterSize); err != nil {
		return Footer{}, fmt.Errorf("reading footer: %w", err)
	}

	return parseFooter(raw)
}
