// Package listcmder provides the `inkstone list` CLI command.
package listcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkstoneco/inkstone/cmd/inkstone/runtime"
	"github.com/inkstoneco/inkstone/pkg/catalog"
	"github.com/inkstoneco/inkstone/pkg/cliui"
)

const listLongDesc string = `List cataloged references.

Shows every reference in the catalog with its identifier, author, chunk
count, and size, ordered by when it was added.

Examples:
  inkstone list`

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged references",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}

	return cmd
}

func run(cmd *cobra.Command) error {
	settings, err := runtime.Resolve(cmd, nil)
	if err != nil {
		return err
	}

	// Listing only needs the catalog; no index or embedder round-trips.
	cat, err := catalog.Open(settings.CorpusRoot)
	if err != nil {
		return err
	}

	entries := cat.List()
	if len(entries) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No references cataloged. Add one with: inkstone add <file>"))
		return nil
	}

	fmt.Println()
	for _, e := range entries {
		fmt.Printf("  %s  %s\n", cliui.IDStyle.Render(e.RefID), cliui.TitleStyle.Render(e.Title))
		fmt.Printf("            %s · %d chunks · %d chars · added %s\n",
			cliui.ValueStyle.Render(e.Author),
			e.ChunkCount,
			e.TotalChars,
			cliui.DimStyle.Render(e.AddedAt.Local().Format("2006-01-02 15:04")),
		)
	}
	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d reference(s)", len(entries))))

	return nil
}
