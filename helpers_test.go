package catcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/riff"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

// parseWavChunks splits an encoded WAV file into its chunks using the riff
// parser rather than the package decoder.
func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	r := bytes.NewReader(data)
	parser := riff.New(r)

	id, size, err := parser.IDnSize()
	if err != nil {
		return nil, err
	}

	parser.ID = id
	parser.Size = size

	err = binary.Read(r, binary.BigEndian, &parser.Format)
	if err != nil {
		return nil, err
	}

	if parser.ID != riff.RiffID || parser.Format != riff.WavFormatID {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	for {
		chunk, err := parser.NextChunk()
		if errors.Is(err, io.EOF) {
			return chunks, nil
		}

		if err != nil {
			return nil, err
		}

		payload, err := io.ReadAll(chunk.R)
		if err != nil {
			return nil, err
		}

		if len(payload) != chunk.Size {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, chunk.ID[:])
		}

		chunks = append(chunks, testChunk{id: string(chunk.ID[:]), size: uint32(chunk.Size), data: payload})
	}
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

// wavHeader mirrors the canonical 44-byte header so tests can craft
// malformed files field by field.
type wavHeader struct {
	RiffID     [4]byte
	RiffSize   uint32
	WaveID     [4]byte
	FmtID      [4]byte
	FmtSize    uint32
	Format     uint16
	NumChans   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	BitDepth   uint16
	DataID     [4]byte
	DataSize   uint32
}

func validHeader(sampleRate uint32, bitDepth uint16, payloadLen int) wavHeader {
	return wavHeader{
		RiffID:     [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:   uint32(payloadLen) + 36,
		WaveID:     [4]byte{'W', 'A', 'V', 'E'},
		FmtID:      [4]byte{'f', 'm', 't', ' '},
		FmtSize:    16,
		Format:     1,
		NumChans:   1,
		SampleRate: sampleRate,
		ByteRate:   sampleRate * uint32(bitDepth) / 8,
		BlockAlign: bitDepth / 8,
		BitDepth:   bitDepth,
		DataID:     [4]byte{'d', 'a', 't', 'a'},
		DataSize:   uint32(payloadLen),
	}
}

func (h wavHeader) bytes(payload []byte) []byte {
	var buf bytes.Buffer

	binary.Write(&buf, binary.LittleEndian, h)
	buf.Write(payload)

	return buf.Bytes()
}

func newTestSample(name, filename string, sampleRate uint32, bitDepth uint16, data []byte) *Sample {
	return &Sample{
		Size:       uint32(len(data)) + riffHeaderSize,
		Name:       name,
		Filename:   filename,
		NumChans:   1,
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Data:       data,
	}
}

func memReader(data []byte, name string) *Reader {
	return NewReader(bytes.NewReader(data), name)
}

// writeFile runs fn against a committed Writer and returns the file content.
func writeFile(t *testing.T, name string, fn func(w *Writer) error) (string, []byte) {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	w, err := CreateWriter(path)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer w.Close()

	if err := fn(w); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	if err := w.Commit(); err != nil {
		t.Fatalf("commit %s: %v", name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back %s: %v", path, err)
	}

	return path, data
}

func putString(buf *bytes.Buffer, s string) {
	buf.WriteByte(byte(len(s) + 1))
	buf.WriteString(s)
	buf.WriteByte(0)
}
