package stream

import (
	"context"
	"io"
	"sync"

	pb "github.com/go-marmot/marmot/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// memStream is one end of an in-memory chunk stream, with the same
// end-of-stream semantics as a gRPC bidi stream
type memStream struct {
	ctx      context.Context
	in       chan *pb.StreamChunk
	out      chan *pb.StreamChunk
	peerDone chan struct{}
	peerGone chan struct{} // nil on the server end, where a client half-close does not stop sends
	done     chan struct{}
	doneOnce *sync.Once
}

func (s *memStream) Context() context.Context {
	return s.ctx
}

func (s *memStream) Send(m *pb.StreamChunk) error {
	select {
	case <-s.done:
		return status.Error(codes.Internal, "send after close")
	default:
	}
	select {
	case s.out <- m:
		return nil
	case <-s.peerGone:
		return io.EOF
	case <-s.ctx.Done():
		return io.EOF
	}
}

func (s *memStream) Recv() (*pb.StreamChunk, error) {
	select {
	case m := <-s.in:
		return m, nil
	default:
	}
	select {
	case m := <-s.in:
		return m, nil
	case <-s.peerDone:
		select {
		case m := <-s.in:
			return m, nil
		default:
			return nil, io.EOF
		}
	case <-s.ctx.Done():
		return nil, status.Error(codes.Canceled, s.ctx.Err().Error())
	}
}

func (s *memStream) CloseSend() error {
	s.doneOnce.Do(func() { close(s.done) })
	return nil
}

// memOpener returns an OpenFunc whose streams are served by serve, run on
// its own goroutine. wait blocks until every served stream has returned.
func memOpener(serve func(pb.ChunkStreamServer) error) (open OpenFunc, wait func()) {
	var wg sync.WaitGroup
	open = func(ctx context.Context) (pb.ChunkStreamClient, error) {
		c2s := make(chan *pb.StreamChunk, 32)
		s2c := make(chan *pb.StreamChunk, 32)
		clientDone := make(chan struct{})
		serverDone := make(chan struct{})
		serverCtx, cancelServer := context.WithCancel(ctx)
		client := &memStream{ctx: ctx, in: s2c, out: c2s, peerDone: serverDone, peerGone: serverDone, done: clientDone, doneOnce: &sync.Once{}}
		server := &memStream{ctx: serverCtx, in: c2s, out: s2c, peerDone: clientDone, done: serverDone, doneOnce: &sync.Once{}}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancelServer()
			serve(server)
			server.CloseSend()
		}()
		return client, nil
	}
	return open, wg.Wait
}
