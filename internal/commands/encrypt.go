package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fenc/internal/config"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] paths...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files into <name>.fenc",
		Long: `Encrypt files into <name>.fenc beside the original.
Directories are walked and every file not already ending in .fenc is encrypted.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, false),
		RunE:    run(cfg),
	}
}
