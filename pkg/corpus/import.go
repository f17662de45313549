package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/extract"
)

// ImportOptions configures batch imports.
type ImportOptions struct {
	// Author attributed to every imported file. Library imports override
	// this per author folder.
	Author string

	// FailFast aborts the import on the first failure instead of recording
	// it in the report.
	FailFast bool

	// ChunkSize and MaxChunks are forwarded to AddReference.
	ChunkSize int
	MaxChunks int

	// Progress, when set, is called after each file with its outcome.
	Progress func(path string, err error)
}

// ImportFailure records one file that could not be imported.
type ImportFailure struct {
	Path string
	Err  error
}

// ImportReport accounts for every file an import looked at.
type ImportReport struct {
	Succeeded []string
	Skipped   []string
	Failed    []ImportFailure
}

// Summary returns a human-readable account of the import.
func (r *ImportReport) Summary() string {
	return fmt.Sprintf("Imported %d, skipped %d (already cataloged), failed %d",
		len(r.Succeeded), len(r.Skipped), len(r.Failed))
}

// ImportFile extracts one file and adds it as a reference titled after the
// file stem. A file whose ref_id is already cataloged is skipped: the
// result is nil and skipped is true, with no error.
func (c *Corpus) ImportFile(ctx context.Context, path string, opts ImportOptions) (result *AddResult, skipped bool, err error) {
	title := fileStem(path)
	if c.catalog.Has(RefID(title)) {
		c.logger.Debug("skipping already cataloged file",
			zap.String("path", path),
			zap.String("title", title),
		)
		return nil, true, nil
	}

	text, err := extract.Extract(path)
	if err != nil {
		return nil, false, err
	}

	result, err = c.AddReference(ctx, title, text, AddOptions{
		Author:       opts.Author,
		ChunkSize:    opts.ChunkSize,
		MaxChunks:    opts.MaxChunks,
		SourcePath:   path,
		SourceFormat: extract.Format(path),
	})
	if err != nil {
		return nil, false, err
	}
	return result, false, nil
}

// ImportDir walks dir recursively and imports every supported file in
// lexical order, strictly sequentially. Unsupported extensions are filtered
// out before processing. Per-file failures go into the report unless
// opts.FailFast is set.
func (c *Corpus) ImportDir(ctx context.Context, dir string, opts ImportOptions) (*ImportReport, error) {
	paths, err := supportedFiles(dir)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		_, skipped, err := c.ImportFile(ctx, path, opts)
		if opts.Progress != nil {
			opts.Progress(path, err)
		}

		switch {
		case err != nil && opts.FailFast:
			return report, fmt.Errorf("importing %s: %w", path, err)
		case err != nil:
			report.Failed = append(report.Failed, ImportFailure{Path: path, Err: err})
		case skipped:
			report.Skipped = append(report.Skipped, path)
		default:
			report.Succeeded = append(report.Succeeded, path)
		}
	}

	c.logger.Info("directory import finished",
		zap.String("dir", dir),
		zap.Int("succeeded", len(report.Succeeded)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)),
	)

	return report, nil
}

// ImportLibrary walks an author-partitioned tree: each immediate subfolder
// of root names an author, and its files are imported with that author.
// When author is non-empty only that subfolder is imported;
// ErrAuthorNotFound is returned if it does not exist.
func (c *Corpus) ImportLibrary(ctx context.Context, root, author string, opts ImportOptions) (*ImportReport, error) {
	if author != "" {
		dir := filepath.Join(root, author)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %q under %s", ErrAuthorNotFound, author, root)
		}
		opts.Author = author
		return c.ImportDir(ctx, dir, opts)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading library root %s: %w", root, err)
	}

	merged := &ImportReport{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		opts.Author = entry.Name()
		report, err := c.ImportDir(ctx, filepath.Join(root, entry.Name()), opts)
		if report != nil {
			merged.Succeeded = append(merged.Succeeded, report.Succeeded...)
			merged.Skipped = append(merged.Skipped, report.Skipped...)
			merged.Failed = append(merged.Failed, report.Failed...)
		}
		if err != nil {
			return merged, err
		}
	}

	return merged, nil
}

// supportedFiles collects supported files under dir in lexical order.
func supportedFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if extract.Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// fileStem is the filename without its extension, used as the title.
func fileStem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
