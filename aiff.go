package catcodec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
)

// ExportAIFF encodes the PCM payload of s as an AIFF file.
// Note that the underlying writer is NOT being closed.
func ExportAIFF(w io.WriteSeeker, s *Sample) error {
	enc := aiff.NewEncoder(w, int(s.SampleRate), int(s.BitDepth), int(s.NumChans))

	if err := enc.Write(s.IntBuffer()); err != nil {
		return fmt.Errorf("failed to write audio buffer of %q - %w", s.Name, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close aiff encoder of %q - %w", s.Name, err)
	}

	return nil
}

// AIFFName returns the file name an exported sample is stored under.
func AIFFName(s *Sample) string {
	base := filepath.Base(s.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".aif"
}

// ExportAIFFFile writes s as an AIFF file in dir and returns its path.
func ExportAIFFFile(dir string, s *Sample) (string, error) {
	if err := mkdirAll(dir); err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, AIFFName(s))

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: couldn't create %s: %w", ErrIO, outPath, err)
	}

	if err := ExportAIFF(out, s); err != nil {
		out.Close()
		return "", err
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to close %s: %w", ErrIO, outPath, err)
	}

	return outPath, nil
}
