// Package compress provides the byte-stream codecs applied to uploaded and
// downloaded record streams.
package compress

import (
	"io"
	"io/ioutil"
	"sort"
	"strings"
	"sync"

	"github.com/go-marmot/marmot/errors"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Codec names
const (
	None   = "none"
	LZ4    = "lz4"
	Zstd   = "zstd"
	Snappy = "snappy"
	Gzip   = "gzip"
)

// Codec compresses and decompresses byte streams
type Codec interface {
	Name() string
	// NewWriter wraps w so that bytes written are compressed. Close must be
	// called to flush the compressed stream; it does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader wraps r so that bytes read are decompressed. Close releases
	// decoder resources; it does not close r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var (
	registryLock sync.RWMutex
	registry     = map[string]Codec{}
)

func init() {
	Register(noneCodec{})
	Register(lz4Codec{})
	Register(zstdCodec{})
	Register(snappyCodec{})
	Register(gzipCodec{})
}

// Register makes a Codec available to Lookup, replacing any Codec of the same name
func Register(c Codec) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[strings.ToLower(c.Name())] = c
}

// Lookup returns the Codec with the given (case-insensitive) name. The empty
// name is equivalent to "none".
func Lookup(name string) (Codec, error) {
	if len(name) == 0 {
		name = None
	}
	registryLock.RLock()
	defer registryLock.RUnlock()
	c, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.UnknownCodecError{Name: name}
	}
	return c, nil
}

// Names lists the registered codec names, sorted
func Names() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type noneCodec struct{}

func (noneCodec) Name() string { return None }

func (noneCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return ioutil.NopCloser(r), nil
}

type lz4Codec struct{}

func (lz4Codec) Name() string { return LZ4 }

func (lz4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return ioutil.NopCloser(lz4.NewReader(r)), nil
}

type zstdCodec struct{}

func (zstdCodec) Name() string { return Zstd }

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &lazyReader{src: r, open: func(src io.Reader) (io.ReadCloser, error) {
		dec, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	}}, nil
}

type snappyCodec struct{}

func (snappyCodec) Name() string { return Snappy }

func (snappyCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (snappyCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return ioutil.NopCloser(snappy.NewReader(r)), nil
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return Gzip }

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, gzip.BestSpeed)
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &lazyReader{src: r, open: func(src io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(src)
	}}, nil
}

// lazyReader defers decoder construction to the first Read, since some
// decoders consume the stream header on construction and would block until
// the first bytes arrive.
type lazyReader struct {
	src  io.Reader
	open func(io.Reader) (io.ReadCloser, error)
	dec  io.ReadCloser
	err  error
}

func (l *lazyReader) Read(p []byte) (int, error) {
	if l.dec == nil && l.err == nil {
		l.dec, l.err = l.open(l.src)
	}
	if l.err != nil {
		return 0, l.err
	}
	return l.dec.Read(p)
}

func (l *lazyReader) Close() error {
	if l.dec == nil {
		return nil
	}
	return l.dec.Close()
}

// Compress applies the named codec to src, producing a reader of compressed
// bytes. Compression runs in a goroutine which exits when the returned
// reader is closed or src is exhausted.
func Compress(name string, src io.Reader) (io.ReadCloser, error) {
	c, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if c.Name() == None {
		return ioutil.NopCloser(src), nil
	}
	pr, pw := io.Pipe()
	zw, err := c.NewWriter(pw)
	if err != nil {
		return nil, err
	}
	go func() {
		_, err := io.Copy(zw, src)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()
	return pr, nil
}
