// Package iostream implements the append-only writer and sequential reader
// that back a GHT tree's byte stream, on top of either a growable in-memory
// buffer or a file. Nothing here understands the tree wire format itself —
// that lives in pkg/ght — this package only moves bytes.
package iostream

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// initialBufferCapacity is the starting size of an in-memory writer's
// buffer; it grows geometrically (doubling) from here as needed.
const initialBufferCapacity = 1028

// Writer is an append-only destination for a tree's serialized bytes. It
// is backed by either a growable in-memory buffer or a file, optionally
// gzip-framed.
type Writer struct {
	buf     *bytes.Buffer // in-memory backend, nil if file-backed
	file    *os.File      // file backend, nil if memory-backed
	gz      *gzip.Writer  // set when compression is enabled
	out     io.Writer     // the writer actually used: buf, file, or gz
	written int64
	log     zerolog.Logger
}

// NewMemWriter creates an in-memory writer with the standard initial
// capacity, growing geometrically as bytes are appended.
func NewMemWriter(log zerolog.Logger) *Writer {
	buf := bytes.NewBuffer(make([]byte, 0, initialBufferCapacity))
	return &Writer{buf: buf, out: buf, log: log}
}

// NewFileWriter creates a file-backed writer. It refuses to overwrite an
// existing file — callers must remove the destination themselves if
// overwriting is intended. When compress is true, bytes are framed through
// gzip before hitting disk.
func NewFileWriter(path string, compress bool, log zerolog.Logger) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("iostream: create %s: %w", path, err)
	}
	w := &Writer{file: f, out: f, log: log}
	if compress {
		w.gz = gzip.NewWriter(f)
		w.out = w.gz
	}
	return w, nil
}

// Write appends p to the stream.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.out.Write(p)
	w.written += int64(n)
	if err != nil {
		return n, fmt.Errorf("iostream: write: %w", err)
	}
	return n, nil
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// Bytes returns the accumulated bytes of an in-memory writer. It is an
// error to call this on a file-backed writer.
func (w *Writer) Bytes() ([]byte, error) {
	if w.buf == nil {
		return nil, fmt.Errorf("iostream: Bytes called on a non-memory writer")
	}
	return w.buf.Bytes(), nil
}

// Written reports the number of bytes appended so far.
func (w *Writer) Written() int64 {
	return w.written
}

// Close flushes and releases the writer's resources. It is safe to call
// on every exit path, including after a write error.
func (w *Writer) Close() error {
	var gzErr error
	if w.gz != nil {
		gzErr = w.gz.Close()
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			if gzErr != nil {
				return fmt.Errorf("iostream: close gzip: %v; close file: %w", gzErr, err)
			}
			return fmt.Errorf("iostream: close file: %w", err)
		}
	}
	if gzErr != nil {
		return fmt.Errorf("iostream: close gzip: %w", gzErr)
	}
	return nil
}

// Reader is a sequential, bounds-checked source of a tree's serialized
// bytes, backed by either an in-memory slice or a file.
type Reader struct {
	buf     *bytes.Reader // in-memory backend
	file    *os.File      // file backend
	gz      *gzip.Reader  // set when the file is gzip-framed
	in      io.Reader     // the reader actually used
	size    int64         // total bytes available, for bounds checks (mem only)
	readPos int64
	log     zerolog.Logger
}

// NewMemReader wraps a byte slice, bounded by its length; reading past the
// end is a hard error.
func NewMemReader(data []byte, log zerolog.Logger) *Reader {
	r := bytes.NewReader(data)
	return &Reader{buf: r, in: r, size: int64(len(data)), log: log}
}

// NewFileReader opens path for sequential reads. When compressed is true
// the file is assumed to be gzip-framed.
func NewFileReader(path string, compressed bool, log zerolog.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iostream: open %s: %w", path, err)
	}
	r := &Reader{file: f, in: f, log: log}
	if compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("iostream: gzip header %s: %w", path, err)
		}
		r.gz = gz
		r.in = gz
	}
	return r, nil
}

// Read fills p, returning a Warning-equivalent short read at EOF for
// file-backed readers (io.EOF / io.ErrUnexpectedEOF bubble up unwrapped so
// callers can detect them), and a hard error for in-memory readers reading
// past the declared size.
func (r *Reader) Read(p []byte) (int, error) {
	if r.buf != nil && r.readPos+int64(len(p)) > r.size {
		return 0, fmt.Errorf("iostream: read past end of buffer (pos=%d, want=%d, size=%d)",
			r.readPos, len(p), r.size)
	}
	n, err := io.ReadFull(r.in, p)
	r.readPos += int64(n)
	if r.file != nil && (err == io.EOF || err == io.ErrUnexpectedEOF) {
		r.log.Warn().Int64("pos", r.readPos).Int("wanted", len(p)).Int("got", n).Msg("iostream: short read at end of file")
	}
	return n, err
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := r.Read(b[:])
	return b[0], err
}

// Pos reports the number of bytes consumed so far, for callers tallying
// bytes-read metrics.
func (r *Reader) Pos() int64 {
	return r.readPos
}

// Close releases the reader's resources.
func (r *Reader) Close() error {
	var gzErr error
	if r.gz != nil {
		gzErr = r.gz.Close()
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			if gzErr != nil {
				return fmt.Errorf("iostream: close gzip: %v; close file: %w", gzErr, err)
			}
			return fmt.Errorf("iostream: close file: %w", err)
		}
	}
	if gzErr != nil {
		return fmt.Errorf("iostream: close gzip: %w", gzErr)
	}
	return nil
}
