// Package clearcmder provides the `inkstone clear` CLI command.
package clearcmder

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkstoneco/inkstone/cmd/inkstone/runtime"
	"github.com/inkstoneco/inkstone/pkg/cliui"
	"github.com/inkstoneco/inkstone/pkg/logger"
)

const clearLongDesc string = `Remove every reference from the corpus.

Drops all indexed chunks from the similarity index and empties the
catalog. The operation prompts for confirmation unless --force is given.

Examples:
  inkstone clear
  inkstone clear --force`

type clearCommander struct {
	force bool
}

func NewClearCmd() *cobra.Command {
	cmder := &clearCommander{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every reference from the corpus",
		Long:  clearLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVarP(&cmder.force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func (c *clearCommander) run(cmd *cobra.Command) error {
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

	n := crp.Catalog().Len()
	if n == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Corpus is already empty."))
		return nil
	}

	if !c.force && !confirm(fmt.Sprintf("Remove all %d reference(s)?", n)) {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Aborted."))
		return nil
	}

	fmt.Println()
	err = cliui.Step(os.Stdout, "Clearing corpus", func() error {
		return crp.Clear(cmd.Context())
	})
	if err != nil {
		return err
	}
	fmt.Println()

	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("\n  %s [y/N] ", prompt)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
