// Package inkstonecmder
package inkstonecmder

import (
	"github.com/spf13/cobra"

	addcmder "github.com/inkstoneco/inkstone/cmd/inkstone/add"
	clearcmder "github.com/inkstoneco/inkstone/cmd/inkstone/clear"
	configcmder "github.com/inkstoneco/inkstone/cmd/inkstone/config"
	listcmder "github.com/inkstoneco/inkstone/cmd/inkstone/list"
	removecmder "github.com/inkstoneco/inkstone/cmd/inkstone/remove"
	scancmder "github.com/inkstoneco/inkstone/cmd/inkstone/scan"
	searchcmder "github.com/inkstoneco/inkstone/cmd/inkstone/search"
	statscmder "github.com/inkstoneco/inkstone/cmd/inkstone/stats"
	versioncmder "github.com/inkstoneco/inkstone/cmd/version"
)

const inkstoneLongDesc string = `Inkstone indexes reference prose for style-grounded retrieval.

Add long-form references and inkstone segments them into chunks, classifies
each chunk (dialogue, action, description, mixed), embeds them, and keeps a
similarity index and a JSON catalog mutually consistent.

Common commands:
  inkstone add       Index a reference from a file or stdin
  inkstone scan      Batch-import a folder or the shared library
  inkstone search    Retrieve ranked, filtered style samples
  inkstone list      List cataloged references
  inkstone stats     Show corpus counters and index health`

const inkstoneShortDesc string = "Inkstone - reference corpus for style retrieval"

func NewInkstoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inkstone",
		Short: inkstoneShortDesc,
		Long:  inkstoneLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .inkstone directory location")

	// Add subcommands
	cmd.AddCommand(addcmder.NewAddCmd())
	cmd.AddCommand(removecmder.NewRemoveCmd())
	cmd.AddCommand(listcmder.NewListCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(scancmder.NewScanCmd())
	cmd.AddCommand(clearcmder.NewClearCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
