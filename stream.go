package catcodec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"
)

// rawChunkSize is the largest read that is allocated up front.
const rawChunkSize = 64 << 10

// Reader provides sequential little-endian reads over a single file.
// Every read either returns exactly what was asked for or fails.
type Reader struct {
	rs     io.ReadSeeker
	br     *bufio.Reader
	c      io.Closer
	name   string
	pos    int64
	closed bool
}

// OpenReader opens the named file for reading.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s for reading: %w", ErrIO, path, err)
	}

	r := NewReader(f, path)
	r.c = f

	return r, nil
}

// NewReader wraps rs. The name is only used in error messages.
// Note that the reader assumes rs is positioned at its start.
func NewReader(rs io.ReadSeeker, name string) *Reader {
	return &Reader{
		rs:   rs,
		br:   bufio.NewReader(rs),
		name: name,
	}
}

// Name returns the name of the underlying file.
func (r *Reader) Name() string {
	return r.name
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if r.closed {
		return 0, r.eof()
	}

	b, err := r.br.ReadByte()
	if err != nil {
		return 0, r.readErr(err)
	}

	r.pos++

	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	lo, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}

	hi, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}

	return uint16(lo) | uint16(hi)<<8, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	lo, err := r.ReadUint16()
	if err != nil {
		return 0, err
	}

	hi, err := r.ReadUint16()
	if err != nil {
		return 0, err
	}

	return uint32(lo) | uint32(hi)<<16, nil
}

// ReadRaw reads exactly n bytes.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if r.closed {
		return nil, r.eof()
	}

	if n <= rawChunkSize {
		buf := make([]byte, n)

		read, err := io.ReadFull(r.br, buf)
		r.pos += int64(read)

		if err != nil {
			return nil, r.readErr(err)
		}

		return buf, nil
	}

	// n comes from the file, so the buffer only grows as data arrives.
	var buf bytes.Buffer

	read, err := io.CopyN(&buf, r.br, int64(n))
	r.pos += read

	if err != nil {
		return nil, r.readErr(err)
	}

	return buf.Bytes(), nil
}

// ReadTag reads a four byte chunk identifier.
func (r *Reader) ReadTag() ([4]byte, error) {
	var id [4]byte

	b, err := r.ReadRaw(len(id))
	if err != nil {
		return id, err
	}

	copy(id[:], b)

	return id, nil
}

// ReadLine reads up to and including the next newline and returns the text
// without its line terminator. io.EOF is returned once nothing is left.
// The returned text may contain NUL bytes.
func (r *Reader) ReadLine() (string, error) {
	if r.closed {
		return "", r.eof()
	}

	line, err := r.br.ReadString('\n')
	r.pos += int64(len(line))

	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", r.readErr(err)
		}

		if line == "" {
			return "", io.EOF
		}
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Seek moves the read position to pos, counted from the start of the file.
func (r *Reader) Seek(pos int64) error {
	if r.closed {
		return r.eof()
	}

	if _, err := r.rs.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking in %s failed: %w", ErrIO, r.name, err)
	}

	r.br.Reset(r.rs)
	r.pos = pos

	return nil
}

// Close releases the underlying file, if the reader opened it.
// Subsequent reads fail with ErrUnexpectedEOF.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true

	if r.c == nil {
		return nil
	}

	if err := r.c.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", ErrIO, r.name, err)
	}

	return nil
}

func (r *Reader) eof() error {
	return fmt.Errorf("%s: %w", r.name, ErrUnexpectedEOF)
}

func (r *Reader) readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return r.eof()
	}

	return fmt.Errorf("%w: reading %s: %w", ErrIO, r.name, err)
}

// Writer provides sequential little-endian writes to a file.
//
// Data goes to "<name>.new". Nothing is visible at name until Commit, which
// keeps the previous file as "<name>.bak". Closing a Writer that was never
// committed removes the temporary file and leaves name untouched.
type Writer struct {
	f       *os.File
	bw      *bufio.Writer
	name    string
	tmpName string
	pos     int64
	done    bool

	// Logf reports problems rotating the backup file. Those don't fail the
	// commit since the new content is already in place. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// CreateWriter creates "<path>.new" and returns a Writer targeting path.
func CreateWriter(path string) (*Writer, error) {
	tmpName := path + ".new"

	f, err := os.Create(tmpName)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s for writing: %w", ErrIO, tmpName, err)
	}

	return &Writer{
		f:       f,
		bw:      bufio.NewWriter(f),
		name:    path,
		tmpName: tmpName,
	}, nil
}

// Name returns the target path.
func (w *Writer) Name() string {
	return w.name
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteRaw([]byte{v})
}

// WriteUint16 writes v in little-endian order.
func (w *Writer) WriteUint16(v uint16) error {
	if err := w.WriteUint8(uint8(v)); err != nil {
		return err
	}

	return w.WriteUint8(uint8(v >> 8))
}

// WriteUint32 writes v in little-endian order.
func (w *Writer) WriteUint32(v uint32) error {
	if err := w.WriteUint16(uint16(v)); err != nil {
		return err
	}

	return w.WriteUint16(uint16(v >> 16))
}

// WriteRaw writes b as is.
func (w *Writer) WriteRaw(b []byte) error {
	if w.done {
		return fmt.Errorf("%w: %s is already closed", ErrIO, w.name)
	}

	n, err := w.bw.Write(b)
	w.pos += int64(n)

	if err != nil {
		return fmt.Errorf("%w: unexpected failure while writing to %s: %w", ErrIO, w.name, err)
	}

	return nil
}

// WriteText formats according to format and writes the result.
func (w *Writer) WriteText(format string, args ...any) error {
	return w.WriteRaw([]byte(fmt.Sprintf(format, args...)))
}

// Commit moves the written content into place.
func (w *Writer) Commit() error {
	if w.done {
		return fmt.Errorf("%w %s: writer is already closed", ErrCommitFailed, w.name)
	}

	w.done = true

	if err := errors.Join(w.bw.Flush(), w.f.Close()); err != nil {
		os.Remove(w.tmpName)
		return fmt.Errorf("%w: unexpected failure while writing to %s: %w", ErrIO, w.name, err)
	}

	bakName := w.name + ".bak"

	err := os.Remove(bakName)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logf("Warning: could not remove %s (%v)", bakName, err)
	}

	err = os.Rename(w.name, bakName)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logf("Warning: could not rename %s to %s (%v)", w.name, bakName, err)
	}

	if err := os.Rename(w.tmpName, w.name); err != nil {
		os.Remove(w.tmpName)
		return fmt.Errorf("%w %s: %w", ErrCommitFailed, w.name, err)
	}

	return nil
}

// Close discards everything written so far unless Commit already ran.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}

	w.done = true

	w.f.Close()

	err := os.Remove(w.tmpName)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: could not remove %s: %w", ErrIO, w.tmpName, err)
	}

	return nil
}

func (w *Writer) logf(format string, args ...any) {
	if w.Logf != nil {
		w.Logf(format, args...)
		return
	}

	log.Printf(format, args...)
}
