package catcodec

import (
	"fmt"

	"github.com/go-audio/riff"
)

// riffHeaderSize is the size of the canonical RIFF/WAVE/fmt/data headers
// that precede the PCM payload.
const riffHeaderSize = 44

// ReadWAV decodes a standalone WAV file. The sample size is taken from the
// RIFF chunk; name and filename are left empty.
func ReadWAV(r *Reader) (*Sample, error) {
	s := &Sample{}

	if err := s.readWAV(r, false); err != nil {
		return nil, err
	}

	return s, nil
}

// ReadWAVFile opens and decodes the WAV file at path.
func ReadWAVFile(path string) (*Sample, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return ReadWAV(r)
}

// readWAV decodes the WAV envelope at the current position of r. With
// checkSize set the RIFF chunk must describe exactly s.Size bytes, which is
// how cat entries are read since the offset table already knows their size.
func (s *Sample) readWAV(r *Reader, checkSize bool) error {
	if err := expectTag(r, riff.RiffID, ErrBadMagic); err != nil {
		return err
	}

	riffSize, err := r.ReadUint32()
	if err != nil {
		return err
	}

	if checkSize {
		if riffSize+8 != s.Size {
			return fmt.Errorf("%w in %s: %d, expected %d", ErrSizeMismatch, r.Name(), riffSize+8, s.Size)
		}
	} else {
		s.Size = riffSize + 8
	}

	if err := expectTag(r, riff.WavFormatID, ErrBadFormat); err != nil {
		return err
	}

	if err := expectTag(r, riff.FmtID, ErrBadFormat); err != nil {
		return err
	}

	f, err := readFmtChunk(r)
	if err != nil {
		return err
	}

	s.NumChans = f.NumChannels
	s.SampleRate = f.SampleRate
	s.BitDepth = f.BitsPerSample

	if err := expectTag(r, riff.DataFormatID, ErrBadMagic); err != nil {
		return err
	}

	// Some files are padded, so the data chunk may be shorter than what the
	// RIFF chunk says. Everything up to the end of the RIFF chunk is kept.
	dataSize, err := r.ReadUint32()
	if err != nil {
		return err
	}

	if uint64(dataSize)+riffHeaderSize > uint64(s.Size) {
		return fmt.Errorf("%w in %s: %d bytes of data in a %d byte RIFF chunk", ErrBadDataSize, r.Name(), dataSize, s.Size)
	}

	s.Data, err = r.ReadRaw(int(s.Size - riffHeaderSize))

	return err
}

// readFmtChunk reads the fmt chunk length and body, validating each field
// as soon as it has been read.
func readFmtChunk(r *Reader) (*FmtChunk, error) {
	size, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	if size != fmtChunkSize {
		return nil, fmt.Errorf("%w in %s: fmt chunk size %d, expected %d", ErrBadFormat, r.Name(), size, fmtChunkSize)
	}

	f := &FmtChunk{}

	if f.FormatTag, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	if f.FormatTag != wavFormatPCM {
		return nil, fmt.Errorf("%w in %s: audio format %d, expected PCM", ErrBadFormat, r.Name(), f.FormatTag)
	}

	if f.NumChannels, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	if f.NumChannels != 1 {
		return nil, fmt.Errorf("%w in %s: got %d", ErrUnsupportedChannels, r.Name(), f.NumChannels)
	}

	if f.SampleRate, err = r.ReadUint32(); err != nil {
		return nil, err
	}

	if !supportedSampleRate(f.SampleRate) {
		return nil, fmt.Errorf("%w in %s: got %d", ErrUnsupportedRate, r.Name(), f.SampleRate)
	}

	// byte rate and block align are derivable, they are only checked.
	if f.AvgBytesPerSec, err = r.ReadUint32(); err != nil {
		return nil, err
	}

	if f.BlockAlign, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	if f.BitsPerSample, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	if !supportedBitDepth(f.BitsPerSample) {
		return nil, fmt.Errorf("%w in %s: got %d", ErrUnsupportedBitDepth, r.Name(), f.BitsPerSample)
	}

	if f.AvgBytesPerSec != f.expectedByteRate() {
		return nil, fmt.Errorf("%w in %s: byte rate %d, expected %d", ErrBadFormat, r.Name(), f.AvgBytesPerSec, f.expectedByteRate())
	}

	if f.BlockAlign != f.expectedBlockAlign() {
		return nil, fmt.Errorf("%w in %s: block align %d, expected %d", ErrBadFormat, r.Name(), f.BlockAlign, f.expectedBlockAlign())
	}

	return f, nil
}

func expectTag(r *Reader, want [4]byte, kind error) error {
	got, err := r.ReadTag()
	if err != nil {
		return err
	}

	if got != want {
		return fmt.Errorf("%w in %s: found %q, expected %q", kind, r.Name(), got[:], want[:])
	}

	return nil
}
