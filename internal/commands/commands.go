package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fenc/internal/config"
	"github.com/idelchi/fenc/internal/logging"
	"github.com/idelchi/fenc/internal/logic"
)

// preRun returns a PreRunE handler that stores positional args in cfg.Files,
// validates the configuration as given and then obtains the password.
// Validation runs first so that --password and --password-file are checked
// before the file's content is copied into the password.
func preRun(cfg *config.Config, decrypt bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg.Files = args
		cfg.Decrypt = decrypt

		if err := cfg.Validate(); err != nil {
			return err
		}

		return cfg.ResolvePassword(terminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()))
	}
}

// run executes the configured operation.
func run(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger := logging.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.Quiet)

		return logic.Run(cmd.Context(), cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
}
