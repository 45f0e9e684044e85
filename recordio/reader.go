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

// Reader is a RecordSet over the output of a Writer
type Reader struct {
	in     *bufio.Reader
	src    io.Reader
	schema *marmot.RecordSchema
	buf    []byte
	closed bool
}

// NewReader reads the RecordSetHeader from r and returns a RecordSet over
// the records which follow. If r is an io.Closer, it is closed along with
// the Reader.
func NewReader(r io.Reader) (*Reader, error) {
	rr := &Reader{in: bufio.NewReader(r), src: r}
	header := &pb.RecordSetHeader{}
	if err := rr.readMessage(header); err == io.EOF {
		return nil, fmt.Errorf("record set header: %w", io.ErrUnexpectedEOF)
	} else if err != nil {
		return nil, err
	}
	schema, err := pbconv.SchemaFromProto(header.Schema)
	if err != nil {
		return nil, err
	}
	rr.schema = schema
	return rr, nil
}

// Schema returns the schema of the Records in this RecordSet
func (r *Reader) Schema() *marmot.RecordSchema {
	return r.schema
}

// Next decodes the next Record, returning io.EOF at the end of the input
func (r *Reader) Next(ctx context.Context) (*marmot.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.closed {
		return nil, io.EOF
	}
	m := &pb.RecordProto{}
	if err := r.readMessage(m); err != nil {
		return nil, err
	}
	return pbconv.RecordFromProto(r.schema, m)
}

// Close releases the underlying reader
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if closer, ok := r.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// readMessage returns io.EOF only when the input ends between messages
func (r *Reader) readMessage(m proto.Message) error {
	size, err := binary.ReadUvarint(r.in)
	if err != nil {
		return err
	}
	if size > MaxMessageSize {
		return fmt.Errorf("record of %d bytes exceeds the limit of %d", size, MaxMessageSize)
	}
	if uint64(cap(r.buf)) < size {
		r.buf = make([]byte, size)
	}
	r.buf = r.buf[:size]
	if _, err := io.ReadFull(r.in, r.buf); err == io.EOF {
		return io.ErrUnexpectedEOF
	} else if err != nil {
		return err
	}
	return proto.Unmarshal(r.buf, m)
}
