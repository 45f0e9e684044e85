package stream

import (
	"io"
)

// ChunkReader adapts a chunk source into an io.Reader. next returns io.EOF
// once the source is exhausted.
type ChunkReader struct {
	next func() ([]byte, error)
	cur  []byte
	err  error
}

// NewChunkReader creates a ChunkReader over next
func NewChunkReader(next func() ([]byte, error)) *ChunkReader {
	return &ChunkReader{next: next}
}

func (r *ChunkReader) Read(buf []byte) (int, error) {
	for len(r.cur) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.cur, r.err = r.next()
	}
	n := copy(buf, r.cur)
	r.cur = r.cur[n:]
	return n, nil
}

// chunkWriter cuts written bytes into pieces of exactly size bytes (the last
// one may be shorter) and emits each one. Emitted slices are not reused.
type chunkWriter struct {
	size int
	buf  []byte
	emit func([]byte) error
}

func newChunkWriter(size int, emit func([]byte) error) *chunkWriter {
	return &chunkWriter{size: size, emit: emit}
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if w.buf == nil {
			w.buf = make([]byte, 0, w.size)
		}
		n := w.size - len(w.buf)
		if n > len(p) {
			n = len(p)
		}
		w.buf = append(w.buf, p[:n]...)
		p = p[n:]
		written += n
		if len(w.buf) == w.size {
			chunk := w.buf
			w.buf = nil
			if err := w.emit(chunk); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// Close emits any buffered remainder
func (w *chunkWriter) Close() error {
	if len(w.buf) == 0 {
		return nil
	}
	chunk := w.buf
	w.buf = nil
	return w.emit(chunk)
}

var _ io.WriteCloser = &chunkWriter{}
