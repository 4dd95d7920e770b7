// Package processor runs many files through independent containers in parallel.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/fenc/internal/config"
	"github.com/idelchi/fenc/internal/container"
	"github.com/idelchi/fenc/internal/kdf"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// deriver is shared read-only by all containers
	deriver kdf.PBKDF2

	// logger receives per-file errors and debug output
	logger *logrus.Logger

	// out receives the per-file progress lines
	out io.Writer

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration.
func NewProcessor(cfg *config.Config, logger *logrus.Logger) (*Processor, error) {
	if cfg.Password == "" {
		return nil, errors.New("password is required")
	}

	hash, err := kdf.ParseHash(cfg.KDFHash)
	if err != nil {
		return nil, fmt.Errorf("parsing kdf hash: %w", err)
	}

	deriver := kdf.Default()
	deriver.Hash = hash

	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Processor{
		cfg:     cfg,
		deriver: deriver,
		logger:  logger,
		out:     os.Stdout,
		results: make(chan Result, len(cfg.Files)),
	}, nil
}

// SetOutput redirects the per-file progress lines.
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// ProcessFiles concurrently processes all files specified in the configuration.
// Every file is attempted; the returned error is the first failure, if any.
// Returns the number of successfully processed files, the number of errors and the total output size.
//
//nolint:cyclop
func (p *Processor) ProcessFiles(ctx context.Context) (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(max(1, p.cfg.Parallel))

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				p.logger.WithFields(logrus.Fields{
					"file": result.Input,
					"kind": container.KindOf(result.Error).String(),
				}).Error(Describe(result.Error))

				continue
			}

			processed++

			totalSize += result.OutputSize

			if !p.cfg.Quiet {
				fmt.Fprintf(p.out, "Processed %q -> %q\n", result.Input, result.Output)

				if p.cfg.Delete {
					fmt.Fprintf(p.out, "Deleted %q\n", result.Input)
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			result := p.processFile(ctx, file)
			p.results <- result

			return result.Error
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile runs one file through its own container.
func (p *Processor) processFile(ctx context.Context, file string) Result {
	c := container.New(file, p.cfg.Password,
		container.WithDeriver(p.deriver),
		container.WithChunkSize(p.cfg.ChunkSize),
		container.WithRemoveSource(p.cfg.Delete),
		container.WithPreserveTimestamps(p.cfg.PreserveTimestamps),
		container.WithLogger(p.logger),
	)

	var (
		outPath string
		err     error
	)

	if p.cfg.Decrypt {
		outPath, err = c.Decrypt(ctx)
	} else {
		outPath, err = c.Encrypt(ctx)
	}

	if err != nil {
		return Result{Input: file, Output: outPath, Error: err}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return Result{Input: file, Output: outPath, Error: fmt.Errorf("stat output %q: %w", outPath, err)}
	}

	return Result{Input: file, Output: outPath, OutputSize: info.Size()}
}

// Describe turns an engine error into a message for the user.
func Describe(err error) string {
	switch container.KindOf(err) {
	case container.KindInvalidInput:
		return fmt.Sprintf("invalid input: %v", err)
	case container.KindWrongPassword:
		return "decryption failed: wrong password or corrupt file"
	case container.KindIO:
		return fmt.Sprintf("file error: %v", err)
	case container.KindKeyDerivation:
		return fmt.Sprintf("key derivation failed: %v", err)
	case container.KindCanceled:
		return "canceled"
	default:
		return err.Error()
	}
}
