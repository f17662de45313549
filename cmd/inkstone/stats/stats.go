// Package statscmder provides the `inkstone stats` CLI command.
package statscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkstoneco/inkstone/cmd/inkstone/runtime"
	"github.com/inkstoneco/inkstone/pkg/cliui"
	"github.com/inkstoneco/inkstone/pkg/logger"
)

const statsLongDesc string = `Show corpus statistics.

Reports the number of cataloged references, total chunks and characters,
and the live chunk count from the similarity index. A mismatch between
cataloged and indexed chunks indicates the two stores have drifted apart
(for example after a crash mid-operation); re-adding or removing the
affected references repairs it.

Examples:
  inkstone stats`

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus statistics",
		Long:  statsLongDesc,
		Args:  cobra.NoArgs,
		RunE:  run,
	}

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.NewLogger(debug)
	defer log.Sync()

	settings, err := runtime.Resolve(cmd, nil)
	if err != nil {
		return err
	}

	crp, err := runtime.OpenCorpus(settings, log)
	if err != nil {
		return err
	}
	defer crp.Close()

	stats, err := crp.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s %s\n",
		cliui.KeyStyle.Render("References:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.References)),
	)
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Chunks:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.Chunks)),
	)
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Characters:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.Chars)),
	)
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Indexed:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.Indexed)),
	)

	if stats.Indexed != stats.Chunks {
		fmt.Printf("\n  %s\n",
			cliui.DimStyle.Render(fmt.Sprintf(
				"Warning: index holds %d chunks but the catalog expects %d. The stores have drifted; remove and re-add the affected references.",
				stats.Indexed, stats.Chunks,
			)),
		)
	}

	fmt.Println()
	return nil
}
