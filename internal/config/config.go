// Package config holds the runtime configuration of the fenc command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix for environment variables bound to flags, e.g. FENC_PASSWORD.
const EnvPrefix = "FENC"

// ErrNoPassword is returned when no password source yields a password.
var ErrNoPassword = errors.New("no password provided")

// Config holds all flags and arguments of a run.
type Config struct {
	// Password source, resolved by ResolvePassword
	Password     string `label:"--password"      mapstructure:"password"      validate:"exclusive=PasswordFile"`
	PasswordFile string `label:"--password-file" mapstructure:"password-file"`
	EnvFile      string `label:"--env-file"      mapstructure:"env-file"`

	// Engine options, chunk size capped at container.MaxChunkSize
	KDFHash            string `label:"--kdf-hash"   mapstructure:"kdf-hash"   validate:"omitempty,oneof=sha1 sha256 sha512"`
	ChunkSize          int    `label:"--chunk-size" mapstructure:"chunk-size" validate:"gte=0,lte=67108864"`
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`
	Delete             bool

	// Runtime behavior
	Parallel int `validate:"gte=1"`
	Quiet    bool
	Verbose  bool
	Stats    bool

	// Set by the subcommand
	Decrypt bool `mapstructure:"-"`

	// Positional arguments
	Files []string `label:"files" mapstructure:"-" validate:"min=1"`
}

// Validate validates the configuration against the struct tags.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := registerExclusive(validate); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set are not overridden.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %q: %w", path, err)
	}

	return nil
}

// Prompter reads a password interactively. confirm asks for the password twice.
type Prompter func(confirm bool) (string, error)

// ResolvePassword fills in c.Password from the password file or, failing that, the prompter.
// A password given by flag or environment takes precedence.
func (c *Config) ResolvePassword(prompt Prompter) error {
	if c.Password != "" {
		return nil
	}

	if c.PasswordFile != "" {
		data, err := os.ReadFile(c.PasswordFile) //nolint:gosec // path is from user-supplied config
		if err != nil {
			return fmt.Errorf("reading password file: %w", err)
		}

		c.Password = strings.TrimRight(string(data), "\r\n")
	} else if prompt != nil {
		password, err := prompt(!c.Decrypt)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		c.Password = password
	}

	if c.Password == "" {
		return ErrNoPassword
	}

	return nil
}
