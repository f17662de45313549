// Package searchcmder provides the `inkstone search` CLI command.
package searchcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkstoneco/inkstone/cmd/inkstone/runtime"
	"github.com/inkstoneco/inkstone/pkg/cliui"
	"github.com/inkstoneco/inkstone/pkg/corpus"
	"github.com/inkstoneco/inkstone/pkg/logger"
	"github.com/inkstoneco/inkstone/pkg/utils"
)

const searchLongDesc string = `Retrieve ranked style samples for a query.

The query is embedded and matched against indexed chunks. Results are
ordered by ascending distance (most similar first) and can be narrowed to
one category, reference, or author. With --context, a coarse scene type
(dialogue, action, narrative, description) selects the category filter and
the full catalog listing is printed alongside the samples.

Examples:
  inkstone search "rain on the harbor at dusk"
  inkstone search "a tense confrontation" --category dialogue --top 3
  inkstone search "she crossed the square" --author woolf
  inkstone search "the duel begins" --context action`

type searchCommander struct {
	top      int
	category string
	refID    string
	author   string
	context  string
}

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Retrieve ranked style samples for a query",
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().IntVarP(&cmder.top, "top", "k", 5, "Maximum number of samples")
	cmd.Flags().StringVar(&cmder.category, "category", "", "Filter by chunk category (dialogue, action, description, mixed)")
	cmd.Flags().StringVar(&cmder.refID, "ref", "", "Filter by reference id")
	cmd.Flags().StringVar(&cmder.author, "author", "", "Filter by author")
	cmd.Flags().StringVar(&cmder.context, "context", "", "Scene type for style context (dialogue, action, narrative, description)")

	return cmd
}

func (c *searchCommander) run(cmd *cobra.Command, query string) error {
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

	if c.context != "" {
		sc, err := crp.StyleContextFor(cmd.Context(), query, c.context, c.top)
		if err != nil {
			return err
		}
		printSamples(sc.Samples)

		fmt.Printf("  %s\n", cliui.KeyStyle.Render("Corpus:"))
		for _, e := range sc.References {
			fmt.Printf("    %s  %s (%s)\n",
				cliui.IDStyle.Render(e.RefID),
				cliui.ValueStyle.Render(e.Title),
				e.Author,
			)
		}
		fmt.Println()
		return nil
	}

	samples, err := crp.Query(cmd.Context(), query, c.top, corpus.Filters{
		Category: c.category,
		RefID:    c.refID,
		Author:   c.author,
	})
	if err != nil {
		return err
	}

	printSamples(samples)
	return nil
}

func printSamples(samples []corpus.Sample) {
	if len(samples) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No matching samples."))
		return
	}

	fmt.Println()
	for i, s := range samples {
		fmt.Printf("  %s %s %s %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.TitleStyle.Render(s.Meta.Title),
			cliui.DimStyle.Render(fmt.Sprintf("(%s · %s)", s.Meta.Author, s.Meta.Category)),
			cliui.DimStyle.Render(fmt.Sprintf("distance %.4f", s.Distance)),
		)

		excerpt := utils.Truncate(strings.ReplaceAll(s.Text, "\n", " "), 200)
		fmt.Printf("     %s\n\n", cliui.ValueStyle.Render(excerpt))
	}
}
