// Package configcmder provides the config command for managing persistent
// parley configuration stored in the .parley/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent parley configuration.

Configuration is stored as config.toml in the .parley/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values, and PARLEY_* environment variables sit between the two.

Keys use dotted notation matching the TOML section structure:
  client.target, client.timeout_seconds,
  sampling.temperature, sampling.top_p, sampling.repetition_penalty,
  history.enabled, history.sqlite_path

The [[models]] menu and the canned prompt list are edited in the file
directly rather than through dotted keys.

Use subcommands to get, set, or list configuration values:
  parley config set <key> <value>    Set a configuration value
  parley config get <key>            Get a configuration value
  parley config list                 List all configuration values

Examples:
  parley config set client.target http://localhost:11434
  parley config set sampling.temperature 0.7
  parley config get history.enabled
  parley config list`

const configShortDesc string = "Manage persistent parley configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
