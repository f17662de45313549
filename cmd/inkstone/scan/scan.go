// Package scancmder provides the `inkstone scan` CLI command.
package scancmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkstoneco/inkstone/cmd/inkstone/runtime"
	"github.com/inkstoneco/inkstone/pkg/cliui"
	"github.com/inkstoneco/inkstone/pkg/config"
	"github.com/inkstoneco/inkstone/pkg/corpus"
	"github.com/inkstoneco/inkstone/pkg/logger"
)

const scanLongDesc string = `Batch-import reference files.

With a directory argument, every supported file under it (.txt, .md,
.html, .htm, .epub) is imported sequentially; files whose titles are
already cataloged are skipped. Without an argument, the configured
author-partitioned library root is scanned instead: each subfolder names
an author and its files are imported under that author.

Examples:
  inkstone scan ./manuscripts --author "Alexandre Dumas"
  inkstone scan --library /shared/reference-library
  inkstone scan --author woolf          Import one author from the library
  inkstone scan ./drafts --fail-fast`

type scanCommander struct {
	libraryRoot string
	author      string
	failFast    bool
}

func NewScanCmd() *cobra.Command {
	cmder := &scanCommander{}

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Batch-import a folder or the shared library",
		Long:  scanLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return cmder.run(cmd, dir)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagLibraryRoot, &cmder.libraryRoot)
	cmd.Flags().StringVarP(&cmder.author, "author", "a", "", "Author attribution (or library subfolder to import)")
	cmd.Flags().BoolVar(&cmder.failFast, "fail-fast", false, "Abort on the first failed file")

	return cmd
}

func (c *scanCommander) run(cmd *cobra.Command, dir string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.NewLogger(debug)
	defer log.Sync()

	settings, err := runtime.Resolve(cmd, []string{config.FlagLibraryRoot})
	if err != nil {
		return err
	}

	crp, err := runtime.OpenCorpus(settings, log)
	if err != nil {
		return err
	}
	defer crp.Close()

	opts := corpus.ImportOptions{
		Author:   c.author,
		FailFast: c.failFast,
		Progress: func(path string, err error) {
			fmt.Printf("  %s %s\n", cliui.Mark(err), cliui.DimStyle.Render(path))
		},
	}

	var report *corpus.ImportReport
	if dir != "" {
		report, err = crp.ImportDir(cmd.Context(), dir, opts)
	} else {
		root := settings.LibraryRoot
		if root == "" {
			return fmt.Errorf("no directory given and no library root configured (set library.root or pass a directory)")
		}
		report, err = crp.ImportLibrary(cmd.Context(), root, c.author, opts)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s %s\n\n", cliui.SuccessMark, report.Summary())

	for _, failure := range report.Failed {
		fmt.Fprintf(os.Stderr, "  %s %s: %v\n", cliui.FailMark, failure.Path, failure.Err)
	}
	if len(report.Failed) > 0 {
		fmt.Fprintln(os.Stderr)
	}

	return nil
}
