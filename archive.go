package catcodec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IndexPath returns the path of the sfo index that belongs to catPath.
func IndexPath(catPath string) (string, error) {
	ext := filepath.Ext(catPath)
	if ext != ".cat" {
		return "", fmt.Errorf("%w: %s", ErrBadExtension, catPath)
	}

	return strings.TrimSuffix(catPath, ext) + ".sfo", nil
}

// Decode extracts every sample of the cat file at catPath into its own WAV
// file and writes the matching sfo index next to the cat file.
func Decode(catPath string, opts ...Option) (*Archive, error) {
	o := newOptions(opts)

	sfoPath, err := IndexPath(catPath)
	if err != nil {
		return nil, err
	}

	r, err := OpenReader(catPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	a, err := ReadCat(r, opts...)
	if err != nil {
		return nil, err
	}

	for _, s := range a.Samples {
		if !filepath.IsLocal(s.Filename) {
			return nil, fmt.Errorf("%w: %s: filename %q of %q points outside the sample directory", ErrIO, catPath, s.Filename, s.Name)
		}
	}

	for _, s := range a.Samples {
		if err := WriteWAVFile(filepath.Join(o.baseDir, s.Filename), s, opts...); err != nil {
			return nil, err
		}

		o.tick()
	}

	w, err := CreateWriter(sfoPath)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	w.Logf = o.logf

	if err := WriteIndex(w, a.Samples); err != nil {
		return nil, err
	}

	if err := w.Commit(); err != nil {
		return nil, err
	}

	return a, nil
}

// Encode reads the sfo index that belongs to catPath, loads every WAV file
// it lists and writes them all to the cat file at catPath.
func Encode(catPath string, opts ...Option) ([]*Sample, error) {
	o := newOptions(opts)

	sfoPath, err := IndexPath(catPath)
	if err != nil {
		return nil, err
	}

	r, err := OpenReader(sfoPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	entries, err := ReadIndex(r)
	if err != nil {
		return nil, err
	}

	samples := make([]*Sample, 0, len(entries))
	for _, e := range entries {
		s, err := LoadSample(o.baseDir, e.Filename, e.Name)
		if err != nil {
			return nil, err
		}

		samples = append(samples, s)

		o.tick()
	}

	w, err := CreateWriter(catPath)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	w.Logf = o.logf

	if err := WriteCat(w, samples, opts...); err != nil {
		return nil, err
	}

	if err := w.Commit(); err != nil {
		return nil, err
	}

	return samples, nil
}

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: could not create %s: %w", ErrIO, dir, err)
	}

	return nil
}
