package catcodec

import (
	"fmt"
)

const (
	// newFormatFlag marks archives written in the current format, both in the
	// first dword of the file and in every offset of the offset table.
	newFormatFlag = uint32(1) << 31
	// tableEntrySize is the size of an (offset, size) pair.
	tableEntrySize = 8

	// corruptSoundName is the entry that old archives store as raw PCM.
	corruptSoundName = "Corrupt sound"
)

// Archive is the decoded content of a cat file.
type Archive struct {
	Samples []*Sample
	// NewFormat is false for legacy archives, whose format fields are not
	// trustworthy and get replaced on decode.
	NewFormat bool
}

type options struct {
	progress func()
	baseDir  string
	logf     func(format string, args ...any)
}

// Option configures reading and writing of archives.
type Option func(*options)

// WithProgress registers fn to be called once per processed entry.
func WithProgress(fn func()) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithBaseDir sets the directory WAV files are read from and written to.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithLogf sets where warnings about backup files go.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(o *options) {
		o.logf = fn
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *options) tick() {
	if o.progress != nil {
		o.progress()
	}
}

// ReadCat decodes a cat file. The offset table is read first; the entry
// bodies are then read in order, each of which must start exactly where the
// table says it does.
func ReadCat(r *Reader, opts ...Option) (*Archive, error) {
	o := newOptions(opts)

	a, err := readOffsetTable(r)
	if err != nil {
		return nil, err
	}

	for _, s := range a.Samples {
		if err := s.readCatEntry(r, a.NewFormat); err != nil {
			return nil, err
		}

		o.tick()
	}

	return a, nil
}

func readOffsetTable(r *Reader) (*Archive, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	a := &Archive{NewFormat: count&newFormatFlag != 0}
	count = (count &^ newFormatFlag) / tableEntrySize

	if err := r.Seek(0); err != nil {
		return nil, err
	}

	// count comes from the file; the table is only as long as what can be read.
	for range count {
		offset, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}

		size, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}

		a.Samples = append(a.Samples, &Sample{
			Offset: offset &^ newFormatFlag,
			Size:   size,
		})
	}

	return a, nil
}

func (s *Sample) readCatEntry(r *Reader, newFormat bool) error {
	if r.Pos() != int64(s.Offset) {
		return fmt.Errorf("%w in file %s: entry expected at %d, found at %d", ErrOffsetMismatch, r.Name(), s.Offset, r.Pos())
	}

	var err error

	s.Name, err = readString(r)
	if err != nil {
		return err
	}

	if !newFormat && s.Name == corruptSoundName {
		// One old sample is raw PCM without any WAV envelope.
		s.Data, err = r.ReadRaw(int(s.Size))
		if err != nil {
			return err
		}

		s.Size += riffHeaderSize
	} else if err := s.readWAV(r, true); err != nil {
		return fmt.Errorf("entry %q: %w", s.Name, err)
	}

	if !newFormat {
		// Old archives sometimes had the wrong values, e.g. a sample rate
		// that made playback too fast.
		s.NumChans = 1
		s.SampleRate = 11025
		s.BitDepth = 8
	}

	// spacer, unused
	if _, err := r.ReadUint8(); err != nil {
		return err
	}

	s.Filename, err = readString(r)

	return err
}

// WriteCat encodes samples as a new format cat file. Offsets are assigned to
// the samples as part of the layout, so each sample can only be written once.
func WriteCat(w *Writer, samples []*Sample, opts ...Option) error {
	o := newOptions(opts)

	if err := assignOffsets(samples); err != nil {
		return err
	}

	if err := writeOffsetTable(w, samples); err != nil {
		return err
	}

	for _, s := range samples {
		if err := s.writeCatEntry(w); err != nil {
			return err
		}

		o.tick()
	}

	return nil
}

// assignOffsets lays the samples out back to back after the offset table.
// Every sample is checked before any offset is set, so a failed layout
// leaves the samples untouched.
func assignOffsets(samples []*Sample) error {
	offsets := make([]uint32, len(samples))
	offset := uint64(len(samples)) * tableEntrySize

	for i, s := range samples {
		if err := checkStringLen(s.Name); err != nil {
			return fmt.Errorf("name of %q: %w", s.Filename, err)
		}

		if err := checkStringLen(s.Filename); err != nil {
			return fmt.Errorf("filename of %q: %w", s.Name, err)
		}

		if s.Offset != 0 {
			return fmt.Errorf("%w: %q is already at offset %d", ErrOffsetAlreadySet, s.Name, s.Offset)
		}

		if offset > uint64(^newFormatFlag) {
			return fmt.Errorf("%w: %q would start at %d, beyond the addressable range", ErrOffsetMismatch, s.Name, offset)
		}

		offsets[i] = uint32(offset)
		offset += uint64(s.Footprint())
	}

	for i, s := range samples {
		if err := s.SetOffset(offsets[i]); err != nil {
			return err
		}
	}

	return nil
}

func writeOffsetTable(w *Writer, samples []*Sample) error {
	for _, s := range samples {
		if err := w.WriteUint32(s.Offset | newFormatFlag); err != nil {
			return err
		}

		if err := w.WriteUint32(s.Size); err != nil {
			return err
		}
	}

	return nil
}

func (s *Sample) writeCatEntry(w *Writer) error {
	if w.Pos() != int64(s.Offset) {
		return fmt.Errorf("%w when writing file %s: entry %q expected at %d, writer at %d", ErrOffsetMismatch, w.Name(), s.Name, s.Offset, w.Pos())
	}

	if err := writeString(w, s.Name); err != nil {
		return err
	}

	if err := WriteWAV(w, s); err != nil {
		return err
	}

	// separator
	if err := w.WriteUint8(0); err != nil {
		return err
	}

	return writeString(w, s.Filename)
}

// readString reads a length-prefixed string. The length includes the
// terminator, which is dropped.
func readString(r *Reader) (string, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return "", err
	}

	if n == 0 {
		return "", nil
	}

	b, err := r.ReadRaw(int(n))
	if err != nil {
		return "", err
	}

	return nullTermStr(b[:n-1]), nil
}

func writeString(w *Writer, str string) error {
	if err := checkStringLen(str); err != nil {
		return err
	}

	if err := w.WriteUint8(uint8(len(str) + 1)); err != nil {
		return err
	}

	if err := w.WriteRaw([]byte(str)); err != nil {
		return err
	}

	return w.WriteUint8(0)
}

func checkStringLen(str string) error {
	if len(str) > maxStringLen {
		return fmt.Errorf("%w: %d bytes, at most %d allowed", ErrStringTooLong, len(str), maxStringLen)
	}

	return nil
}
