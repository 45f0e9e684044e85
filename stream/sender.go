package stream

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"go.uber.org/zap"
)

// lockedSender serializes Send calls on a stream shared by several goroutines
type lockedSender struct {
	lock   sync.Mutex
	stream pb.ChunkStream
	closed bool
}

func (s *lockedSender) send(chunk *pb.StreamChunk) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return errors.StreamClosedError{}
	}
	err := s.stream.Send(chunk)
	if err == io.EOF {
		// the peer has finished; its status is reported by Recv
		return errors.StreamClosedError{}
	}
	return err
}

// closeSend half-closes client streams; server streams are unaffected
func (s *lockedSender) closeSend() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if cs, ok := s.stream.(interface{ CloseSend() error }); ok {
		cs.CloseSend()
	}
}

// sourceError wraps a failure of the payload source, as opposed to a
// failure of the transport
type sourceError struct {
	err error
}

func (e sourceError) Error() string { return e.err.Error() }
func (e sourceError) Unwrap() error { return e.err }

// Sender pumps an io.Reader into DATA chunks. After every SyncInterval
// chunks it sends SYNC(n) and stops until the peer acknowledges with
// SYNC_BACK(n), bounding the data in flight.
type Sender struct {
	out    *lockedSender
	opts   Options
	acks   chan int32
	logger *zap.Logger
	chunks int
	syncs  int32
}

func newSender(out *lockedSender, opts Options) *Sender {
	return &Sender{
		out:    out,
		opts:   opts,
		acks:   make(chan int32, 1),
		logger: opts.Logger,
	}
}

// ack delivers a SYNC_BACK received from the peer. At most one sync is
// outstanding at a time, so this never blocks.
func (s *Sender) ack(id int32) {
	select {
	case s.acks <- id:
	default:
		s.logger.Warn("Dropping unexpected sync acknowledgement", zap.Int32("sync", id))
	}
}

func (s *Sender) emit(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.out.send(&pb.StreamChunk{
		Kind:     pb.ChunkData,
		Data:     data,
		Checksum: xxhash.Sum64(data),
	})
	if err != nil {
		return err
	}
	s.opts.Metrics.chunk(Sent, len(data))
	s.chunks++
	if s.chunks%s.opts.SyncInterval != 0 {
		return nil
	}
	s.syncs++
	if err := s.out.send(&pb.StreamChunk{Kind: pb.ChunkSync, Sync: s.syncs}); err != nil {
		return err
	}
	select {
	case id := <-s.acks:
		if id != s.syncs {
			return fmt.Errorf("Expected acknowledgement of sync %d, got %d", s.syncs, id)
		}
		s.opts.Metrics.sync(Sent)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run sends everything read from src, followed by EOS. If src fails, the
// peer is sent ERROR and a sourceError is returned. If ctx is cancelled,
// the peer is sent CANCEL.
func (s *Sender) Run(ctx context.Context, src io.Reader) error {
	var transportErr error
	w := newChunkWriter(s.opts.ChunkSize, func(data []byte) error {
		transportErr = s.emit(ctx, data)
		return transportErr
	})
	_, err := io.Copy(w, src)
	if err == nil {
		err = w.Close()
	}
	switch {
	case err == nil:
		return s.out.send(&pb.StreamChunk{Kind: pb.ChunkEOS})
	case transportErr == nil:
		s.logger.Debug("Stream source failed", zap.Error(err))
		s.out.send(&pb.StreamChunk{Kind: pb.ChunkError, Error: errors.ToProto(err)})
		return sourceError{err}
	case ctx.Err() != nil && stderrors.Is(transportErr, ctx.Err()):
		s.out.send(&pb.StreamChunk{Kind: pb.ChunkCancel})
		return ctx.Err()
	default:
		return transportErr
	}
}
