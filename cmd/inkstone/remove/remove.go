// Package removecmder provides the `inkstone remove` CLI command.
package removecmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkstoneco/inkstone/cmd/inkstone/runtime"
	"github.com/inkstoneco/inkstone/pkg/cliui"
	"github.com/inkstoneco/inkstone/pkg/corpus"
	"github.com/inkstoneco/inkstone/pkg/logger"
)

const removeLongDesc string = `Remove a reference and all of its indexed chunks.

Accepts either a ref_id (as shown by "inkstone list") or a title, which is
resolved to its ref_id.

Examples:
  inkstone remove 3f2a8c1d
  inkstone remove --title "Jane Eyre"`

type removeCommander struct {
	title string
}

func NewRemoveCmd() *cobra.Command {
	cmder := &removeCommander{}

	cmd := &cobra.Command{
		Use:   "remove [ref_id]",
		Short: "Remove a reference and its indexed chunks",
		Long:  removeLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refID := ""
			if len(args) == 1 {
				refID = args[0]
			}
			return cmder.run(cmd, refID)
		},
	}

	cmd.Flags().StringVarP(&cmder.title, "title", "t", "", "Remove by title instead of ref_id")

	return cmd
}

func (c *removeCommander) run(cmd *cobra.Command, refID string) error {
	if refID == "" && c.title == "" {
		return fmt.Errorf("a ref_id argument or --title is required")
	}
	if refID == "" {
		refID = corpus.RefID(c.title)
	}

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

	var removed bool
	if err := cliui.Step(os.Stdout, fmt.Sprintf("Removing %s", refID), func() error {
		var rmErr error
		removed, rmErr = crp.RemoveReference(cmd.Context(), refID)
		return rmErr
	}); err != nil {
		return err
	}

	if !removed {
		fmt.Printf("\n  %s No reference with id %s\n\n", cliui.DimStyle.Render("●"), cliui.IDStyle.Render(refID))
		return nil
	}

	fmt.Printf("\n  %s Removed %s\n\n", cliui.SuccessMark, cliui.IDStyle.Render(refID))
	return nil
}
