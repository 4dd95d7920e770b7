package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/fenc/internal/config"
	"github.com/idelchi/fenc/internal/container"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "fenc [flags] command [flags]",
		Short: "Password-based file encryption",
		Long: `Encrypts files with a password into self-contained ` + container.Suffix + ` files.
The key is derived with PBKDF2; the salt and IV are stored at the end of the file.
Every flag can also be set through a ` + config.EnvPrefix + `_ environment variable, e.g. ` +
			config.EnvPrefix + `_PASSWORD.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bind(cmd, cfg)
		},
	}

	flags := root.PersistentFlags()

	flags.StringP("password", "p", "", "Password (prompted for when not given)")
	flags.StringP("password-file", "f", "", "Path to a file holding the password")
	flags.String("env-file", "", "Path to a dotenv file with "+config.EnvPrefix+"_ variables")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Bool("stats", false, "Print a summary when done")
	flags.Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")
	flags.String("kdf-hash", "sha1", "PBKDF2 hash (sha1, sha256, sha512); anything but sha1 is not readable by other .fenc tools")
	flags.Int("chunk-size", container.DefaultChunkSize, "Read size in bytes for streaming")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg))

	return root
}

// bind loads the optional env file and unmarshals flags and environment into cfg.
func bind(cmd *cobra.Command, cfg *config.Config) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("reading env-file flag: %w", err)
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}
