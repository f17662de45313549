// Package catalog persists the descriptive sidecar record of which reference
// works exist in the corpus. The catalog is a single JSON document rewritten
// wholesale on every mutation; the similarity index owns the chunk vectors
// and text, the catalog owns the per-reference summary.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileName is the catalog document name under the corpus root.
const FileName = "catalog.json"

// Summary is the descriptive record for one reference work.
type Summary struct {
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	ChunkCount   int       `json:"chunk_count"`
	TotalChars   int       `json:"total_chars"`
	SourcePath   string    `json:"source_path,omitempty"`
	SourceFormat string    `json:"source_format,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}

// Entry pairs a reference identifier with its summary, for listings.
type Entry struct {
	RefID string `json:"ref_id"`
	Summary
}

// document is the on-disk JSON shape.
type document struct {
	References map[string]Summary `json:"references"`
}

// Catalog is the in-memory view of the sidecar document. It is not safe for
// concurrent use; the engine assumes a single writer per corpus.
type Catalog struct {
	path string
	refs map[string]Summary
}

// Open loads the catalog document from dir, creating an empty catalog when
// the file does not exist yet.
func Open(dir string) (*Catalog, error) {
	c := &Catalog{
		path: filepath.Join(dir, FileName),
		refs: make(map[string]Summary),
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("reading catalog %s: %w", c.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", c.path, err)
	}
	if doc.References != nil {
		c.refs = doc.References
	}

	return c, nil
}

// Path returns the absolute location of the catalog document.
func (c *Catalog) Path() string {
	return c.path
}

// Has reports whether refID is cataloged.
func (c *Catalog) Has(refID string) bool {
	_, ok := c.refs[refID]
	return ok
}

// Get returns the summary for refID.
func (c *Catalog) Get(refID string) (Summary, bool) {
	s, ok := c.refs[refID]
	return s, ok
}

// Len returns the number of cataloged references.
func (c *Catalog) Len() int {
	return len(c.refs)
}

// Add catalogs a new reference and persists the document.
// Fails with ErrAlreadyExists when refID is present; existing entries are
// never merged or overwritten.
func (c *Catalog) Add(refID string, s Summary) error {
	if _, ok := c.refs[refID]; ok {
		return fmt.Errorf("reference %s (%q): %w", refID, s.Title, ErrAlreadyExists)
	}

	c.refs[refID] = s
	if err := c.persist(); err != nil {
		delete(c.refs, refID)
		return err
	}
	return nil
}

// Remove deletes a reference and persists the document.
// Fails with ErrNotFound when refID is absent.
func (c *Catalog) Remove(refID string) error {
	s, ok := c.refs[refID]
	if !ok {
		return fmt.Errorf("reference %s: %w", refID, ErrNotFound)
	}

	delete(c.refs, refID)
	if err := c.persist(); err != nil {
		c.refs[refID] = s
		return err
	}
	return nil
}

// Clear empties the catalog and persists the empty document.
func (c *Catalog) Clear() error {
	old := c.refs
	c.refs = make(map[string]Summary)
	if err := c.persist(); err != nil {
		c.refs = old
		return err
	}
	return nil
}

// List returns all entries ordered by added time, then identifier for
// stability when timestamps collide.
func (c *Catalog) List() []Entry {
	entries := make([]Entry, 0, len(c.refs))
	for id, s := range c.refs {
		entries = append(entries, Entry{RefID: id, Summary: s})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].AddedAt.Before(entries[j].AddedAt)
		}
		return entries[i].RefID < entries[j].RefID
	})
	return entries
}

// TotalChunks sums chunk counts across all cataloged references.
func (c *Catalog) TotalChunks() int {
	total := 0
	for _, s := range c.refs {
		total += s.ChunkCount
	}
	return total
}

// TotalChars sums character counts across all cataloged references.
func (c *Catalog) TotalChars() int {
	total := 0
	for _, s := range c.refs {
		total += s.TotalChars
	}
	return total
}

// persist rewrites the whole document: temp file in the same directory, then
// rename, so readers never observe a torn write.
func (c *Catalog) persist() error {
	doc := document{References: c.refs}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(c.path), FileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("staging catalog write: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing catalog write: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}
