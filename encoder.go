package catcodec

import (
	"fmt"
	"path/filepath"

	"github.com/go-audio/riff"
)

// WriteWAV encodes s as a canonical PCM WAV envelope. Byte rate and block
// align are always derived from the sample's channels, rate and bit depth.
func WriteWAV(w *Writer, s *Sample) error {
	if uint64(len(s.Data))+riffHeaderSize != uint64(s.Size) {
		return fmt.Errorf("%w for %q: %d bytes of data for size %d", ErrBadDataSize, s.Name, len(s.Data), s.Size)
	}

	f := newPCMFmtChunk(s.NumChans, s.SampleRate, s.BitDepth)

	// riff ID
	err := w.WriteRaw(riff.RiffID[:])
	if err != nil {
		return err
	}
	// size of everything following the RIFF chunk header
	err = w.WriteUint32(s.Size - 8)
	if err != nil {
		return err
	}
	// wave headers
	err = w.WriteRaw(riff.WavFormatID[:])
	if err != nil {
		return err
	}

	err = writeFmtChunk(w, f)
	if err != nil {
		return fmt.Errorf("error encoding the fmt chunk of %q - %w", s.Name, err)
	}

	// sound header
	err = w.WriteRaw(riff.DataFormatID[:])
	if err != nil {
		return fmt.Errorf("error encoding sound header %w", err)
	}

	err = w.WriteUint32(uint32(len(s.Data)))
	if err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	return w.WriteRaw(s.Data)
}

func writeFmtChunk(w *Writer, f *FmtChunk) error {
	err := w.WriteRaw(riff.FmtID[:])
	if err != nil {
		return err
	}

	err = w.WriteUint32(fmtChunkSize)
	if err != nil {
		return err
	}

	err = w.WriteUint16(f.FormatTag)
	if err != nil {
		return err
	}

	err = w.WriteUint16(f.NumChannels)
	if err != nil {
		return fmt.Errorf("error encoding the number of channels - %w", err)
	}

	err = w.WriteUint32(f.SampleRate)
	if err != nil {
		return fmt.Errorf("error encoding the sample rate - %w", err)
	}

	err = w.WriteUint32(f.AvgBytesPerSec)
	if err != nil {
		return fmt.Errorf("error encoding the avg bytes per sec - %w", err)
	}

	err = w.WriteUint16(f.BlockAlign)
	if err != nil {
		return err
	}

	err = w.WriteUint16(f.BitsPerSample)
	if err != nil {
		return fmt.Errorf("error encoding bits per sample - %w", err)
	}

	return nil
}

// WriteWAVFile writes s as a standalone WAV file at path.
func WriteWAVFile(path string, s *Sample, opts ...Option) error {
	o := newOptions(opts)

	if dir := filepath.Dir(path); dir != "." {
		if err := mkdirAll(dir); err != nil {
			return err
		}
	}

	w, err := CreateWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	w.Logf = o.logf

	if err := WriteWAV(w, s); err != nil {
		return err
	}

	return w.Commit()
}
