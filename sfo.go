package catcodec

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const indexHeader = "// \"file name\" internal name\n"

// IndexEntry is a single line of an sfo index.
type IndexEntry struct {
	Filename string
	Name     string
}

// ReadIndex parses an sfo index. Each line holds a filename, quoted if it
// contains spaces, followed by the internal name. Lines starting with "//"
// are comments.
func ReadIndex(r *Reader) ([]IndexEntry, error) {
	var entries []IndexEntry

	for {
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}

		if err != nil {
			return nil, err
		}

		if strings.HasPrefix(line, "//") || strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := parseIndexLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w in %s at [%s]", err, r.Name(), line)
		}

		entries = append(entries, entry)
	}
}

func parseIndexLine(line string) (IndexEntry, error) {
	var filename, name string

	var found bool

	if rest, quoted := strings.CutPrefix(line, `"`); quoted {
		filename, name, found = strings.Cut(rest, `"`)
	} else {
		filename, name, found = strings.Cut(line, " ")
	}

	if !found {
		return IndexEntry{}, ErrBadIndexLine
	}

	name = strings.TrimSpace(name)

	if err := checkStringLen(filename); err != nil {
		return IndexEntry{}, fmt.Errorf("filename: %w", err)
	}

	if err := checkStringLen(name); err != nil {
		return IndexEntry{}, fmt.Errorf("name: %w", err)
	}

	return IndexEntry{Filename: filename, Name: name}, nil
}

// WriteIndex writes an sfo index listing samples in order.
func WriteIndex(w *Writer, samples []*Sample) error {
	if err := w.WriteText(indexHeader); err != nil {
		return err
	}

	for _, s := range samples {
		if err := w.WriteText("\"%s\" %s\n", s.Filename, s.Name); err != nil {
			return err
		}
	}

	return nil
}
