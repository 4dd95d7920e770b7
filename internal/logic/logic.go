// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/fenc/internal/config"
	"github.com/idelchi/fenc/internal/container"
	"github.com/idelchi/fenc/internal/fileutil"
	"github.com/idelchi/fenc/internal/processor"
)

// Run is the main logic of the application.
func Run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, stdout, stderr io.Writer) error {
	start := time.Now()

	scanned, err := ResolveFiles(cfg)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	proc, err := processor.NewProcessor(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	proc.SetOutput(stdout)

	processed, errored, totalSize, err := proc.ProcessFiles(ctx)

	if cfg.Stats {
		printStats(stderr, scanned, scanned-len(cfg.Files), processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// ResolveFiles expands directory arguments into the files to process and stores them in cfg.Files.
// Explicit files are kept as given. Walked directories contribute *.fenc files when decrypting
// and every other file when encrypting. Temp files of interrupted runs are skipped.
// Returns the number of files scanned.
func ResolveFiles(cfg *config.Config) (int, error) {
	var (
		files   []string
		scanned int
	)

	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range cfg.Files {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(arg)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.Type().IsRegular() {
				return nil
			}

			scanned++

			if fileutil.IsTemp(path) {
				return nil
			}

			if strings.HasSuffix(path, container.Suffix) == cfg.Decrypt {
				add(path)
			}

			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	if len(files) == 0 {
		return scanned, fmt.Errorf("no files to process in %v", cfg.Files)
	}

	cfg.Files = files

	return scanned, nil
}

func printStats(w io.Writer, scanned, excluded, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(w, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
