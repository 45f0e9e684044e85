package recordio

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/golang/protobuf/proto"
)

// MaxMessageSize bounds the encoded size of a single record
const MaxMessageSize = 64 << 20

// Writer serializes Records of a single schema onto an io.Writer
type Writer struct {
	out    *bufio.Writer
	schema *marmot.RecordSchema
	count  int64
	lenBuf [binary.MaxVarintLen64]byte
}

// NewWriter writes the RecordSetHeader for schema and returns a Writer for
// its records. Flush must be called once all records are written.
func NewWriter(w io.Writer, schema *marmot.RecordSchema) (*Writer, error) {
	rw := &Writer{out: bufio.NewWriter(w), schema: schema}
	if err := rw.writeMessage(&pb.RecordSetHeader{Schema: pbconv.SchemaToProto(schema)}); err != nil {
		return nil, err
	}
	return rw, nil
}

// Schema returns the schema of the written records
func (w *Writer) Schema() *marmot.RecordSchema {
	return w.schema
}

// Count returns the number of records written so far
func (w *Writer) Count() int64 {
	return w.count
}

// Write serializes a single Record
func (w *Writer) Write(rec *marmot.Record) error {
	if rec.Schema() != w.schema {
		if err := w.schema.Equals(rec.Schema()); err != nil {
			return fmt.Errorf("record does not match the record set schema: %w", err)
		}
	}
	m, err := pbconv.RecordToProto(rec)
	if err != nil {
		return err
	}
	if err := w.writeMessage(m); err != nil {
		return err
	}
	w.count++
	return nil
}

// Flush writes any buffered data to the underlying io.Writer
func (w *Writer) Flush() error {
	return w.out.Flush()
}

func (w *Writer) writeMessage(m proto.Message) error {
	data, err := proto.Marshal(m)
	if err != nil {
		return err
	}
	n := binary.PutUvarint(w.lenBuf[:], uint64(len(data)))
	if _, err := w.out.Write(w.lenBuf[:n]); err != nil {
		return err
	}
	_, err = w.out.Write(data)
	return err
}

// WriteRecordSet serializes every Record of rs onto w and closes rs,
// returning the number of records written
func WriteRecordSet(ctx context.Context, w io.Writer, rs marmot.RecordSet) (int64, error) {
	rw, err := NewWriter(w, rs.Schema())
	if err != nil {
		rs.Close()
		return 0, err
	}
	err = marmot.ForEachRecord(ctx, rs, rw.Write)
	if err != nil {
		return rw.Count(), err
	}
	return rw.Count(), rw.Flush()
}

type pipeReader struct {
	*io.PipeReader
	cancel context.CancelFunc
	done   <-chan struct{}
}

func (p *pipeReader) Close() error {
	err := p.PipeReader.Close()
	p.cancel()
	<-p.done
	return err
}

// Pipe serializes rs on a separate goroutine, returning a reader over the
// encoded bytes. Closing the reader stops the goroutine and closes rs.
func Pipe(ctx context.Context, rs marmot.RecordSet) io.ReadCloser {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := WriteRecordSet(ctx, pw, rs)
		pw.CloseWithError(err)
	}()
	return &pipeReader{PipeReader: pr, cancel: cancel, done: done}
}
