// Package addcmder provides the `inkstone add` CLI command.
package addcmder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkstoneco/inkstone/cmd/inkstone/runtime"
	"github.com/inkstoneco/inkstone/pkg/cliui"
	"github.com/inkstoneco/inkstone/pkg/config"
	"github.com/inkstoneco/inkstone/pkg/corpus"
	"github.com/inkstoneco/inkstone/pkg/extract"
	"github.com/inkstoneco/inkstone/pkg/logger"
)

const addLongDesc string = `Index a reference work from a file or stdin.

The text is segmented into chunks, each chunk is classified and embedded,
and the reference is recorded in the catalog. The reference gets a stable
identifier derived from its title, so adding the same title twice fails.

When reading a file, the title defaults to the file name without its
extension. When reading stdin, --title is required.

Examples:
  inkstone add novel.txt --author "Charlotte Brontë"
  inkstone add chapter.epub
  cat draft.md | inkstone add --title "Draft Three" --author woolf`

type addCommander struct {
	title  string
	author string

	chunkSize int
	maxChunks int
}

func NewAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Index a reference work from a file or stdin",
		Long:  addLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return cmder.run(cmd, path)
		},
	}

	cmd.Flags().StringVarP(&cmder.title, "title", "t", "", "Reference title (defaults to the file stem)")
	cmd.Flags().StringVarP(&cmder.author, "author", "a", "", "Author attribution")
	config.AddIntFlag(cmd, config.Flags, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, config.Flags, config.FlagMaxChunks, &cmder.maxChunks)

	return cmd
}

func (c *addCommander) run(cmd *cobra.Command, path string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.NewLogger(debug)
	defer log.Sync()

	settings, err := runtime.Resolve(cmd, []string{config.FlagChunkSize, config.FlagMaxChunks})
	if err != nil {
		return err
	}

	title, content, err := c.readInput(path)
	if err != nil {
		return err
	}

	crp, err := runtime.OpenCorpus(settings, log)
	if err != nil {
		return err
	}
	defer crp.Close()

	var result *corpus.AddResult
	if err := cliui.Step(os.Stdout, fmt.Sprintf("Indexing %q", title), func() error {
		opts := corpus.AddOptions{
			Author:       c.author,
			ChunkSize:    c.chunkSize,
			MaxChunks:    c.maxChunks,
			SourcePath:   path,
			SourceFormat: extract.Format(path),
		}

		var addErr error
		result, addErr = crp.AddReference(cmd.Context(), title, content, opts)
		return addErr
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s  %s\n", cliui.KeyStyle.Render("Reference:"), cliui.IDStyle.Render(result.RefID))
	fmt.Printf("  %s     %s\n", cliui.KeyStyle.Render("Author:"), cliui.ValueStyle.Render(result.Author))
	fmt.Printf("  %s     %s\n", cliui.KeyStyle.Render("Chunks:"), cliui.ValueStyle.Render(fmt.Sprintf("%d", result.ChunksAdded)))
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("Characters:"), cliui.ValueStyle.Render(fmt.Sprintf("%d", result.TotalChars)))

	return nil
}

// readInput loads the reference text from a file or stdin and decides the
// title.
func (c *addCommander) readInput(path string) (title, content string, err error) {
	if path == "" {
		if c.title == "" {
			return "", "", fmt.Errorf("--title is required when reading from stdin")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return c.title, string(data), nil
	}

	content, err = extract.Extract(path)
	if err != nil {
		return "", "", err
	}

	title = c.title
	if title == "" {
		name := filepath.Base(path)
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return title, content, nil
}
