package catcodec

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
)

// maxStringLen is the longest name or filename a cat entry can hold; the
// length byte also counts the terminator.
const maxStringLen = 254

// Sample is a single sound entry: its PCM payload, the WAV parameters needed
// to play it and the names it is known by.
type Sample struct {
	// Offset is the position of the entry in the cat file, 0 until assigned.
	Offset uint32
	// Size is the size of the WAV envelope, i.e. 44 + len(Data).
	Size uint32

	// Name is the internal name of the sound.
	Name string
	// Filename is the WAV file the sound is extracted to or read from.
	Filename string

	NumChans   uint16
	SampleRate uint32
	BitDepth   uint16

	// Data holds the raw PCM payload, including any padding that followed
	// the data chunk inside the RIFF chunk.
	Data []byte
}

// LoadSample reads the WAV file filename, resolved against dir, and returns
// a fully populated Sample named name.
func LoadSample(dir, filename, name string) (*Sample, error) {
	s, err := ReadWAVFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}

	s.Filename = filename
	s.Name = name

	return s, nil
}

// SetOffset places the sample in an archive. A sample can only be placed once.
func (s *Sample) SetOffset(offset uint32) error {
	if s.Offset != 0 {
		return fmt.Errorf("%w: %q is already at offset %d", ErrOffsetAlreadySet, s.Name, s.Offset)
	}

	s.Offset = offset

	return nil
}

// Footprint returns the number of bytes the sample occupies in a cat file.
func (s *Sample) Footprint() uint32 {
	return 1 + // length of the name
		uint32(len(s.Name)+1) + // the name + '\0'
		s.Size + // the WAV envelope
		1 + // spacer
		1 + // length of the filename
		uint32(len(s.Filename)+1) // the filename + '\0'
}

// NextOffset returns the offset of the entry that follows this one.
func (s *Sample) NextOffset() uint32 {
	return s.Offset + s.Footprint()
}

// ByteRate returns the number of bytes per second of audio.
func (s *Sample) ByteRate() uint32 {
	return newPCMFmtChunk(s.NumChans, s.SampleRate, s.BitDepth).AvgBytesPerSec
}

// BlockAlign returns the number of bytes per frame.
func (s *Sample) BlockAlign() uint16 {
	return newPCMFmtChunk(s.NumChans, s.SampleRate, s.BitDepth).BlockAlign
}

// Format returns the audio format of the sample.
func (s *Sample) Format() *audio.Format {
	if s == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(s.NumChans),
		SampleRate:  int(s.SampleRate),
	}
}

// NumFrames returns the number of complete frames in the payload.
func (s *Sample) NumFrames() int {
	return samplesNumFromBytes(len(s.Data), int(s.NumChans), int(s.BitDepth))
}

// Duration returns the play time of the sample.
func (s *Sample) Duration() time.Duration {
	return durationFromSamples(s.NumFrames(), int(s.SampleRate))
}

// IntBuffer returns the payload as signed integer samples. 8-bit WAV data is
// unsigned and gets recentred around 0; a trailing partial frame is dropped.
func (s *Sample) IntBuffer() *audio.IntBuffer {
	numSamples := s.NumFrames() * int(s.NumChans)

	buf := &audio.IntBuffer{
		Format:         s.Format(),
		SourceBitDepth: int(s.BitDepth),
		Data:           make([]int, numSamples),
	}

	switch s.BitDepth {
	case 8:
		for i := range numSamples {
			buf.Data[i] = int(s.Data[i]) - 128
		}
	case 16:
		for i := range numSamples {
			buf.Data[i] = int(int16(uint16(s.Data[2*i]) | uint16(s.Data[2*i+1])<<8))
		}
	}

	return buf
}
