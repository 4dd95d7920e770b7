package container

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

const (
	opEncrypt = "encrypt"
	opDecrypt = "decrypt"
)

// EncryptStream encrypts everything read from r and writes ciphertext || salt || iv to w.
// It returns the footer that was appended.
func EncryptStream(ctx context.Context, r io.Reader, w io.Writer, password string, opts ...Option) (Footer, error) {
	o := newOptions(opts)

	footer, _, err := encryptStream(ctx, r, w, password, o)

	return footer, err
}

// DecryptStream decrypts a complete container of size bytes read from src and writes the plaintext to w.
// src is only read through ReadAt, so it is never modified. On failure w may hold partial plaintext;
// the file-level operations discard it.
func DecryptStream(ctx context.Context, src io.ReaderAt, size int64, w io.Writer, password string, opts ...Option) error {
	o := newOptions(opts)

	_, err := decryptStream(ctx, src, size, w, password, o)

	return err
}

func encryptStream(ctx context.Context, r io.Reader, w io.Writer, password string, o options) (Footer, int64, error) {
	if password == "" {
		return Footer{}, 0, newError(opEncrypt, "", KindInvalidInput, ErrEmptyPassword)
	}

	footer, err := newFooter(o.random)
	if err != nil {
		return Footer{}, 0, newError(opEncrypt, "", KindIO, err)
	}

	block, err := newBlock(opEncrypt, o.deriver, password, footer.Salt[:])
	if err != nil {
		return Footer{}, 0, err
	}

	written, err := encryptCBC(ctx, block, footer.IV[:], r, w, o.chunkSize)
	if err != nil {
		return Footer{}, written, err
	}

	n, err := footer.WriteTo(w)
	written += n

	if err != nil {
		return Footer{}, written, newError(opEncrypt, "", KindIO, err)
	}

	return footer, written, nil
}

func decryptStream(ctx context.Context, src io.ReaderAt, size int64, w io.Writer, password string, o options) (int64, error) {
	if password == "" {
		return 0, newError(opDecrypt, "", KindInvalidInput, ErrEmptyPassword)
	}

	if size < FooterSize {
		return 0, newError(opDecrypt, "", KindInvalidInput, ErrTooShort)
	}

	footer, err := readFooter(src, size)
	if err != nil {
		return 0, newError(opDecrypt, "", KindIO, err)
	}

	block, err := newBlock(opDecrypt, o.deriver, password, footer.Salt[:])
	if err != nil {
		return 0, err
	}

	body := io.NewSectionReader(src, 0, size-FooterSize)

	return decryptCBC(ctx, block, footer.IV[:], body, w, o.chunkSize)
}

// newBlock derives the key and expands it into an AES cipher. The derived key is zeroed before returning.
func newBlock(op string, deriver KeyDeriver, password string, salt []byte) (cipher.Block, error) {
	key, err := deriver.Derive(password, salt)
	if err != nil {
		return nil, newError(op, "", KindKeyDerivation, fmt.Errorf("deriving key: %w", err))
	}

	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newError(op, "", KindKeyDerivation, fmt.Errorf("creating cipher: %w", err))
	}

	return block, nil
}
