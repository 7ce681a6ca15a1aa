
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sankara-chandas/internal/models"
)

// ReadSources reads listing pages from a CSV (header with "folder", "url",
// "select_id") or NDJSON file. If ext cannot be determined, tries CSV first
// then NDJSON.
func ReadSources(path string) ([]models.Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".ndjson", ".jsonl":
		return readNDJSON(path)
	default:
		// try csv then ndjson
		if srcs, err := readCSV(path); err == nil && len(srcs) > 0 {
			return srcs, nil
		}
		return readNDJSON(path)
	}
}

func readCSV(path string) ([]models.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	cols := map[string]int{"folder": -1, "url": -1, "select_id": -1}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := cols[key]; ok {
			cols[key] = i
		}
	}
	for k, i := range cols {
		if i == -1 {
			return nil, fmt.Errorf("csv must contain a '%s' header column", k)
		}
	}
	cell := func(row []string, col string) string {
		if i := cols[col]; i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	var out []models.Source
	for _, row := range rows[1:] {
		s := models.Source{Folder: cell(row, "folder"), URL: cell(row, "url"), SelectID: cell(row, "select_id")}
		if s.URL != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func readNDJSON(path string) ([]models.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []models.Source
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var s models.Source
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if s.URL == "" {
			return nil, fmt.Errorf("line %d: missing url", n)
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no sources found in ndjson")
	}
	return out, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON(w io.Writer, items ...any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

// AppendNDJSON appends items to the file at path, creating it if needed.
func AppendNDJSON(path string, items ...any) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := WriteNDJSON(f, items...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
