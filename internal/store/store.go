
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"sankara-chandas/internal/models"
)

const ext = ".json"

// ErrNotFound wraps fs.ErrNotExist for documents missing from the store.
var ErrNotFound = fmt.Errorf("document not found: %w", fs.ErrNotExist)

// Store keeps one JSON document per verse group under <root>/<folder>/<filename>.json.
type Store struct {
	root string
}

func New(root string) *Store { return &Store{root: root} }

func (s *Store) Root() string { return s.root }

func (s *Store) path(loc models.Location) (string, error) {
	if !validSegment(loc.Folder) || !validSegment(loc.Filename) {
		return "", fmt.Errorf("invalid location %q", loc.String())
	}
	return filepath.Join(s.root, loc.Folder, loc.Filename+ext), nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func (s *Store) Load(loc models.Location) (*models.VerseGroupDocument, error) {
	p, err := s.path(loc)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", loc, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	var doc models.VerseGroupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", loc, err)
	}
	return &doc, nil
}

// Save overwrites the document at loc. The write goes through a temp file so a
// crash never leaves a truncated document behind.
func (s *Store) Save(loc models.Location, doc *models.VerseGroupDocument) error {
	p, err := s.path(loc)
	if err != nil {
		return err
	}
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", loc, err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", loc, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", loc, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", loc, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", loc, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", loc, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", loc, err)
	}
	return nil
}

// Encode renders a document as indented UTF-8 JSON with a trailing newline.
// Non-ASCII text is written literally.
func Encode(doc *models.VerseGroupDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// List returns the locations of every document in folder, sorted by filename.
func (s *Store) List(folder string) ([]models.Location, error) {
	if !validSegment(folder) {
		return nil, fmt.Errorf("invalid folder %q", folder)
	}
	entries, err := os.ReadDir(filepath.Join(s.root, folder))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	var out []models.Location
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		out = append(out, models.Location{Folder: folder, Filename: strings.TrimSuffix(name, ext)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Folders lists the top-level folders of the store.
func (s *Store) Folders() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// ListAll returns every document location across all folders.
func (s *Store) ListAll() ([]models.Location, error) {
	folders, err := s.Folders()
	if err != nil {
		return nil, err
	}
	var out []models.Location
	for _, f := range folders {
		locs, err := s.List(f)
		if err != nil {
			return nil, err
		}
		out = append(out, locs...)
	}
	return out, nil
}

// Lock takes an exclusive advisory lock on the store root. It fails fast if
// another process holds it.
func (s *Store) Lock() (unlock func() error, err error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	fl := flock.New(filepath.Join(s.root, ".lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock store: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("store %s is locked by another run", s.root)
	}
	return fl.Unlock, nil
}
