package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fenc/internal/config"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] paths...",
		Aliases: []string{"dec"},
		Short:   "Decrypt .fenc files",
		Long: `Decrypt .fenc files to their original name.
Directories are walked for .fenc files. A wrong password leaves the .fenc file untouched.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, true),
		RunE:    run(cfg),
	}
}
