package container

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so callers can report them differently.
type Kind uint8

const (
	// KindUnknown is reported for errors not produced by this package.
	KindUnknown Kind = iota
	// KindInvalidInput covers a missing file, an empty password, a wrong suffix
	// or a file too short to hold a footer.
	KindInvalidInput
	// KindIO covers read, write, flush, rename and permission failures.
	KindIO
	// KindWrongPassword is reported when the final padding does not verify.
	// Without an integrity tag a wrong password and a corrupt file look the same.
	KindWrongPassword
	// KindKeyDerivation is reported when the key deriver rejects its parameters.
	KindKeyDerivation
	// KindCanceled is reported when the context is done between chunks.
	KindCanceled
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindIO:
		return "i/o failure"
	case KindWrongPassword:
		return "wrong password or corrupt file"
	case KindKeyDerivation:
		return "key derivation failure"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind. Match them with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrIO            = errors.New("i/o failure")
	ErrWrongPassword = errors.New("wrong password or corrupt file")
	ErrKeyDerivation = errors.New("key derivation failure")
	ErrCanceled      = errors.New("operation canceled")
)

// Causes reported inside an Error.
var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrNotRegular       = errors.New("not a regular file")
	ErrMissingSuffix    = errors.New("file does not have the " + Suffix + " suffix")
	ErrTooShort         = errors.New("file is too short to contain a footer")
	ErrInvalidPadding   = errors.New("invalid padding")
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
	ErrEmptyCiphertext  = errors.New("ciphertext is empty")
)

// Error is returned by every Container operation.
type Error struct {
	Op   string // "encrypt" or "decrypt"
	Path string // Input path, if any
	Kind Kind
	Err  error // Underlying cause
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinel(e.Kind) == target && target != nil
}

func kindSentinel(k Kind) error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindIO:
		return ErrIO
	case KindWrongPassword:
		return ErrWrongPassword
	case KindKeyDerivation:
		return ErrKeyDerivation
	case KindCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

// KindOf returns the kind of err, or KindUnknown if err did not come from this package.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}

	return KindUnknown
}

func newError(op, path string, kind Kind, err error) error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}
