package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/idelchi/fenc/internal/config"
)

// ErrPasswordMismatch is returned when the confirmation does not match the first entry.
var ErrPasswordMismatch = errors.New("passwords do not match")

// terminalPrompter reads the password from in without echo.
// It returns a nil prompter when in is not a terminal, leaving the password unresolved.
func terminalPrompter(in io.Reader, out io.Writer) config.Prompter {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) { //nolint:gosec // fd fits in int
		return nil
	}

	fd := int(file.Fd()) //nolint:gosec // fd fits in int

	read := func(label string) (string, error) {
		fmt.Fprint(out, label)

		password, err := term.ReadPassword(fd)

		fmt.Fprintln(out)

		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}

		return string(password), nil
	}

	return func(confirm bool) (string, error) {
		password, err := read("Password: ")
		if err != nil || !confirm {
			return password, err
		}

		again, err := read("Confirm password: ")
		if err != nil {
			return "", err
		}

		if again != password {
			return "", ErrPasswordMismatch
		}

		return password, nil
	}
}
