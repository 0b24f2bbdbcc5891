package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Dir stores each document as a JSON file under <root>/<collection>/<id>.json.
//
// Writes are atomic per file (write then rename) but Dir has no Batch, so the
// ledger uses sequential writes with compensation for it.
type Dir struct {
	root string
}

// NewDir returns a store rooted at root, created if missing.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %q: %w", root, err)
	}
	return &Dir{root: root}, nil
}

func (d *Dir) path(collection, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid document id %q", id)
	}
	return filepath.Join(d.root, collection, id+".json"), nil
}

func (d *Dir) Get(_ context.Context, collection, id string) ([]byte, error) {
	p, err := d.path(collection, id)
	if err != nil {
		return nil, err
	}
	doc, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return doc, err
}

// List returns the documents of collection ordered by id.
func (d *Dir) List(_ context.Context, collection string) ([][]byte, error) {
	entries, err := os.ReadDir(filepath.Join(d.root, collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", collection, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	out := make([][]byte, 0, len(names))
	for _, name := range names {
		doc, err := os.ReadFile(filepath.Join(d.root, collection, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (d *Dir) Set(_ context.Context, collection, id string, doc []byte) error {
	p, err := d.path(collection, id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create collection %q: %w", collection, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+id+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (d *Dir) Delete(_ context.Context, collection, id string) error {
	p, err := d.path(collection, id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
