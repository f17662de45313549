// Package configcmder provides the config command for managing persistent
// inkstone configuration stored in the .inkstone/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent inkstone configuration.

Configuration is stored as config.toml in the .inkstone/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  corpus.root, library.root,
  vector_store.provider, vector_store.target, vector_store.collection,
  embedding.provider, embedding.target, embedding.model,
  embedding.dimensions,
  chunking.target_size, chunking.max_chunks

Use subcommands to get, set, or list configuration values:
  inkstone config set <key> <value>    Set a configuration value
  inkstone config get <key>            Get a configuration value
  inkstone config list                 List all configuration values

Examples:
  inkstone config set vector_store.provider qdrant
  inkstone config set embedding.model nomic-embed-text
  inkstone config get library.root
  inkstone config list`

const configShortDesc string = "Manage persistent inkstone configuration"

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
