// Package export writes the content tree as a static markdown site.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"content-cli/internal/store"
)

type WriteOptions struct {
	// RootID limits the export to one subtree; empty exports everything.
	RootID    string
	Overwrite bool
	// HTML writes .html pages rendered from the markdown instead of .md files.
	HTML bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTree writes index.md plus items/<id>.md for every exported item (or
// the .html equivalents).
func WriteTree(db *store.DB, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	var rootID *string
	ids := []string{}
	if r := strings.TrimSpace(opt.RootID); r != "" {
		if _, ok := db.FindItem(r); !ok {
			return WriteResult{}, store.NotFoundError{Kind: "item", ID: r}
		}
		rootID = &r
		ids = append(ids, r)
		ids = append(ids, db.Descendants(r)...)
	} else {
		for _, it := range db.All() {
			ids = append(ids, it.ID)
		}
	}

	itemsDir := filepath.Join(toDir, "items")
	if err := os.MkdirAll(itemsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	ext := ".md"
	if opt.HTML {
		ext = ".html"
	}
	page := func(title, md string) ([]byte, error) {
		if opt.HTML {
			return RenderHTMLPage(title, md)
		}
		return []byte(md), nil
	}

	indexMD, err := renderIndex(db, rootID, ext)
	if err != nil {
		return WriteResult{}, err
	}
	b, err := page("Index", indexMD)
	if err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index"+ext)
	if err := writeFile(indexPath, b, opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first error; earlier pages stay written.
	written := []string{indexPath}
	for _, id := range ids {
		if err := store.CheckID(id); err != nil {
			return WriteResult{}, fmt.Errorf("export %q: %w", id, err)
		}
		md, err := renderItem(db, id, ext)
		if err != nil {
			return WriteResult{}, err
		}
		it, _ := db.FindItem(id)
		b, err := page(it.Name, md)
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(itemsDir, id+ext)
		if err := writeFile(p, b, opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
