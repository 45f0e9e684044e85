package stream

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"go.uber.org/zap"
)

// Receiver feeds incoming DATA chunks into a ChunkPipe. Each SYNC becomes a
// sync marker in the pipe, and is acknowledged with SYNC_BACK only once the
// consumer has read past it.
type Receiver struct {
	in     pb.ChunkStream
	out    *lockedSender
	pipe   *ChunkPipe
	opts   Options
	logger *zap.Logger

	lock     sync.Mutex
	finished bool
}

func newReceiver(in pb.ChunkStream, out *lockedSender, opts Options) *Receiver {
	r := &Receiver{in: in, out: out, opts: opts, logger: opts.Logger}
	r.pipe = NewChunkPipe(opts.PipeCapacity, r.acknowledge)
	return r
}

// Pipe returns the ChunkPipe fed by this Receiver
func (r *Receiver) Pipe() *ChunkPipe {
	return r.pipe
}

// acknowledge runs on the consumer's goroutine
func (r *Receiver) acknowledge(id int32) {
	if err := r.out.send(&pb.StreamChunk{Kind: pb.ChunkSyncBack, Sync: id}); err != nil {
		r.logger.Debug("Unable to acknowledge sync", zap.Int32("sync", id), zap.Error(err))
		return
	}
	r.opts.Metrics.sync(Received)
}

func (r *Receiver) finish(err error) error {
	r.lock.Lock()
	r.finished = true
	r.lock.Unlock()
	r.pipe.EndOfSupply(err)
	return err
}

// cancelOnClose sends CANCEL to the peer if the consumer closes the pipe
// before the stream has finished
func (r *Receiver) cancelOnClose(done <-chan struct{}) {
	select {
	case <-r.pipe.Closed():
		r.lock.Lock()
		finished := r.finished
		r.lock.Unlock()
		if !finished {
			r.out.send(&pb.StreamChunk{Kind: pb.ChunkCancel})
		}
	case <-done:
	}
}

// Run receives chunks until EOS, ERROR, CANCEL or a transport failure, and
// ends the pipe's supply accordingly. It returns nil only after EOS.
func (r *Receiver) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go r.cancelOnClose(done)
	for {
		chunk, err := r.in.Recv()
		if err == io.EOF {
			return r.finish(errors.CancelledError{Reason: "stream ended before EOS"})
		} else if err != nil {
			return r.finish(errors.FromStatus(err))
		}
		switch chunk.GetKind() {
		case pb.ChunkData:
			if sum := xxhash.Sum64(chunk.Data); sum != chunk.Checksum {
				err := errors.ChecksumError{Expected: chunk.Checksum, Actual: sum}
				r.out.send(&pb.StreamChunk{Kind: pb.ChunkError, Error: errors.ToProto(err)})
				return r.finish(err)
			}
			r.opts.Metrics.chunk(Received, len(chunk.Data))
			if err := r.pipe.Supply(ctx, chunk.Data); err != nil {
				return r.finish(err)
			}
		case pb.ChunkSync:
			if err := r.pipe.MarkSync(ctx, chunk.Sync); err != nil {
				return r.finish(err)
			}
		case pb.ChunkEOS:
			return r.finish(nil)
		case pb.ChunkError:
			return r.finish(errors.FromProto(chunk.GetError()))
		case pb.ChunkCancel:
			return r.finish(errors.CancelledError{Reason: "cancelled by peer"})
		default:
			return r.finish(fmt.Errorf("Unexpected %s chunk in data stream", chunk.GetKind()))
		}
	}
}
