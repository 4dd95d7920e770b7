package container

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

// encryptCBC streams r through AES-CBC into w and pads the final block.
// Only whole blocks are encrypted per chunk; the remainder is carried to the next read.
func encryptCBC(ctx context.Context, block cipher.Block, iv []byte, r io.Reader, w io.Writer, chunkSize int) (int64, error) {
	cbcMode := cipher.NewCBCEncrypter(block, iv)

	buf, release := getBuffer(chunkSize)
	defer release()

	var (
		carry   int
		written int64
	)

	for {
		if err := ctx.Err(); err != nil {
			return written, newError(opEncrypt, "", KindCanceled, err)
		}

		n, err := io.ReadFull(r, buf[carry:carry+chunkSize])
		total := carry + n

		isEOF := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !isEOF {
			return written, newError(opEncrypt, "", KindIO, fmt.Errorf("reading input: %w", err))
		}

		if isEOF {
			padded := pkcs7Pad(buf[:total], aes.BlockSize)
			cbcMode.CryptBlocks(padded, padded)

			m, err := w.Write(padded)
			written += int64(m)

			if err != nil {
				return written, newError(opEncrypt, "", KindIO, fmt.Errorf("writing final encrypted block: %w", err))
			}

			return written, nil
		}

		full := total - total%aes.BlockSize
		cbcMode.CryptBlocks(buf[:full], buf[:full])

		m, err := w.Write(buf[:full])
		written += int64(m)

		if err != nil {
			return written, newError(opEncrypt, "", KindIO, fmt.Errorf("writing encrypted chunk: %w", err))
		}

		carry = copy(buf, buf[full:total])
	}
}

// decryptCBC streams r through AES-CBC into w and strips the padding of the last block.
// The last full block is always held back until EOF so it can be unpadded.
func decryptCBC(ctx context.Context, block cipher.Block, iv []byte, r io.Reader, w io.Writer, chunkSize int) (int64, error) {
	cbcMode := cipher.NewCBCDecrypter(block, iv)

	buf, release := getBuffer(chunkSize)
	defer release()

	var (
		carry   int
		written int64
	)

	for {
		if err := ctx.Err(); err != nil {
			return written, newError(opDecrypt, "", KindCanceled, err)
		}

		n, err := io.ReadFull(r, buf[carry:carry+chunkSize])
		total := carry + n

		isEOF := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !isEOF {
			return written, newError(opDecrypt, "", KindIO, fmt.Errorf("reading ciphertext: %w", err))
		}

		if isEOF {
			switch {
			case total == 0:
				return written, newError(opDecrypt, "", KindWrongPassword, ErrEmptyCiphertext)
			case total%aes.BlockSize != 0:
				return written, newError(opDecrypt, "", KindWrongPassword, ErrInvalidBlockSize)
			}

			cbcMode.CryptBlocks(buf[:total], buf[:total])

			last := total - aes.BlockSize

			unpadded, err := pkcs7Unpad(buf[last:total])
			if err != nil {
				return written, newError(opDecrypt, "", KindWrongPassword, fmt.Errorf("removing padding: %w", err))
			}

			m, err := w.Write(buf[:last+len(unpadded)])
			written += int64(m)

			if err != nil {
				return written, newError(opDecrypt, "", KindIO, fmt.Errorf("writing final decrypted block: %w", err))
			}

			return written, nil
		}

		keep := total % aes.BlockSize
		if keep == 0 {
			keep = aes.BlockSize
		}

		process := total - keep
		cbcMode.CryptBlocks(buf[:process], buf[:process])

		m, err := w.Write(buf[:process])
		written += int64(m)

		if err != nil {
			return written, newError(opDecrypt, "", KindIO, fmt.Errorf("writing decrypted chunk: %w", err))
		}

		carry = copy(buf, buf[process:total])
	}
}
