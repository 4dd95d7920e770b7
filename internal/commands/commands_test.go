package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/fenc/internal/commands"
	"github.com/idelchi/fenc/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := commands.NewRootCommand(&config.Config{}, "test")
	root.SetArgs(args)
	root.SetIn(bytes.NewReader(nil))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()

	return out.String(), err
}

func TestEncryptDecryptCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("secret notes"), 0o600))

	out, err := execute(t, "encrypt", "--password", "pw", "--delete", path)
	require.NoError(t, err)
	assert.Contains(t, out, "notes.txt.fenc")
	assert.NoFileExists(t, path)

	_, err = execute(t, "dec", "-p", "pw", "-j", "1", path+".fenc")
	require.NoError(t, err)

	got, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "secret notes", string(got))
	assert.FileExists(t, path+".fenc")
}

func TestWrongPasswordCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0o600))

	_, err := execute(t, "encrypt", "-p", "right", "-d", path)
	require.NoError(t, err)

	before, err := os.ReadFile(path + ".fenc") //nolint:gosec // test file
	require.NoError(t, err)

	// A wrong key passes the padding check roughly once in 256 attempts.
	_, err = execute(t, "decrypt", "-p", "wrong", "-q", path+".fenc")
	if err == nil {
		t.Skip("wrong password produced valid padding")
	}

	after, err := os.ReadFile(path + ".fenc") //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NoFileExists(t, path)
}

func TestPasswordFileFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	pwFile := filepath.Join(dir, "pw")

	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600))
	require.NoError(t, os.WriteFile(pwFile, []byte("from-file\n"), 0o600))

	_, err := execute(t, "encrypt", "--password-file", pwFile, "-q", "-d", path)
	require.NoError(t, err)
	assert.FileExists(t, path+".fenc")

	_, err = execute(t, "decrypt", "-p", "from-file", "-q", path+".fenc")
	require.NoError(t, err, "the trimmed file content is the password")

	got, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	_, err = execute(t, "encrypt", "-p", "x", "-f", pwFile, path)
	require.Error(t, err, "password and password-file are mutually exclusive")
}

func TestPasswordFileEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	pwFile := filepath.Join(dir, "pw")

	require.NoError(t, os.WriteFile(path, []byte("env"), 0o600))
	require.NoError(t, os.WriteFile(pwFile, []byte("env-pw"), 0o600))

	t.Setenv(config.EnvPrefix+"_PASSWORD_FILE", pwFile)

	_, err := execute(t, "encrypt", "-q", path)
	require.NoError(t, err)

	_, err = execute(t, "decrypt", "-q", path+".fenc")
	require.NoError(t, err)
}

func TestChunkSizeLimit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	_, err := execute(t, "encrypt", "-p", "pw", "--chunk-size", "1000000000000", path)
	require.Error(t, err)
	assert.NoFileExists(t, path+".fenc")

	_, err = execute(t, "encrypt", "-p", "pw", "-q", "--chunk-size", "67108864", path)
	require.NoError(t, err)
}

func TestMissingPasswordCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	_, err := execute(t, "encrypt", path)
	require.ErrorIs(t, err, config.ErrNoPassword)
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "encrypt", "-p", "pw")
	require.Error(t, err)

	_, err = execute(t, "decrypt", "-p", "pw", "--kdf-hash", "md5", t.TempDir())
	require.Error(t, err)
}
