package processor_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/fenc/internal/config"
	"github.com/idelchi/fenc/internal/container"
	"github.com/idelchi/fenc/internal/processor"
)

func newLogger(buf *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(buf)

	return logger
}

func writeFiles(t *testing.T, dir string, n int) map[string][]byte {
	t.Helper()

	files := make(map[string][]byte, n)

	for i := range n {
		path := filepath.Join(dir, fmt.Sprintf("file-%d.txt", i))
		content := bytes.Repeat([]byte{byte('a' + i)}, 100*(i+1))

		require.NoError(t, os.WriteFile(path, content, 0o600))

		files[path] = content
	}

	return files
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func TestProcessFilesRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := writeFiles(t, dir, 3)

	var stdout, logs bytes.Buffer

	cfg := &config.Config{Password: "batch-pw", Parallel: 2, Delete: true, Files: keys(files)}

	proc, err := processor.NewProcessor(cfg, newLogger(&logs))
	require.NoError(t, err)
	proc.SetOutput(&stdout)

	processed, errored, total, err := proc.ProcessFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	assert.Zero(t, errored)
	assert.Positive(t, total)
	assert.Contains(t, stdout.String(), "Processed")
	assert.Contains(t, stdout.String(), "Deleted")

	encrypted := make([]string, 0, len(files))

	for path := range files {
		assert.NoFileExists(t, path)
		assert.FileExists(t, path+container.Suffix)

		encrypted = append(encrypted, path+container.Suffix)
	}

	cfg = &config.Config{Password: "batch-pw", Parallel: 3, Decrypt: true, Quiet: true, Files: encrypted}

	proc, err = processor.NewProcessor(cfg, newLogger(&logs))
	require.NoError(t, err)

	stdout.Reset()
	proc.SetOutput(&stdout)

	processed, errored, _, err = proc.ProcessFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	assert.Zero(t, errored)
	assert.Empty(t, stdout.String())

	for path, content := range files {
		got, err := os.ReadFile(path) //nolint:gosec // test file
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.FileExists(t, path+container.Suffix)
	}
}

func TestProcessFilesReportsEveryFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := writeFiles(t, dir, 2)
	paths := keys(files)

	missing := filepath.Join(dir, "missing.txt")

	var logs bytes.Buffer

	cfg := &config.Config{Password: "pw", Parallel: 1, Quiet: true, Files: append(paths, missing)}

	proc, err := processor.NewProcessor(cfg, newLogger(&logs))
	require.NoError(t, err)

	processed, errored, _, err := proc.ProcessFiles(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, container.ErrInvalidInput)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 1, errored)
	assert.Contains(t, logs.String(), "missing.txt")
	assert.Contains(t, logs.String(), "kind=\"invalid input\"")
}

func TestNewProcessorValidation(t *testing.T) {
	t.Parallel()

	_, err := processor.NewProcessor(&config.Config{Files: []string{"a"}}, nil)
	require.Error(t, err)

	_, err = processor.NewProcessor(&config.Config{Password: "pw", KDFHash: "md5"}, nil)
	require.Error(t, err)

	proc, err := processor.NewProcessor(&config.Config{Password: "pw", KDFHash: "sha256"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, proc)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	wrong := &container.Error{Op: "decrypt", Kind: container.KindWrongPassword, Err: container.ErrInvalidPadding}
	assert.Equal(t, "decryption failed: wrong password or corrupt file", processor.Describe(wrong))

	io := &container.Error{Op: "encrypt", Kind: container.KindIO, Err: errors.New("disk full")}
	assert.Contains(t, processor.Describe(io), "file error")

	assert.Equal(t, "plain", processor.Describe(errors.New("plain")))
}
