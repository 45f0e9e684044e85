package stream

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/go-marmot/marmot/compress"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/golang/protobuf/proto"
	"go.uber.org/zap"
)

// OpenFunc opens the client side of a chunk stream. The stream must be
// bound to ctx, so that cancelling ctx releases it.
type OpenFunc func(ctx context.Context) (pb.ChunkStreamClient, error)

// ConsumeFunc consumes the payload of an upload on the server, producing
// the result returned to the client
type ConsumeFunc func(ctx context.Context, header *Header, r io.Reader) ([]byte, error)

type uploadReply struct {
	result []byte
	err    error
}

// Upload opens a stream, sends request as its header followed by the
// (compressed) contents of src, and returns the server's result
func Upload(ctx context.Context, open OpenFunc, request proto.Message, src io.Reader, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	codec, err := compress.Lookup(opts.Codec)
	if err != nil {
		return nil, err
	}
	header, err := encodeHeader(codec.Name(), request)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream, err := open(streamCtx)
	if err != nil {
		return nil, errors.FromStatus(err)
	}
	out := &lockedSender{stream: stream}
	if err := out.send(header); err != nil {
		return nil, awaitFailure(stream, err)
	}

	sender := newSender(out, opts)
	sendCtx, stopSending := context.WithCancel(streamCtx)
	defer stopSending()
	replies := make(chan uploadReply, 1)
	go func() {
		defer stopSending()
		result, err := awaitResult(stream, sender, stopSending)
		replies <- uploadReply{result: result, err: err}
	}()

	zsrc, err := compress.Compress(codec.Name(), src)
	if err != nil {
		cancel()
		<-replies
		return nil, err
	}
	sendErr := sender.Run(sendCtx, zsrc)
	zsrc.Close()
	out.closeSend()

	reply := <-replies
	if reply.err == nil {
		return reply.result, nil
	}
	var srcErr sourceError
	if stderrors.As(sendErr, &srcErr) {
		return nil, srcErr.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.Logger.Debug("Upload failed", zap.Error(reply.err))
	return nil, reply.err
}

// awaitResult reads the server's replies to an upload: acknowledgements,
// cancellation, and finally RESULT or ERROR
func awaitResult(stream pb.ChunkStream, sender *Sender, stopSending func()) ([]byte, error) {
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			return nil, errors.CancelledError{Reason: "stream ended without a result"}
		} else if err != nil {
			return nil, errors.FromStatus(err)
		}
		switch chunk.GetKind() {
		case pb.ChunkSyncBack:
			sender.ack(chunk.Sync)
		case pb.ChunkCancel:
			// the server stopped reading; it still sends a RESULT or ERROR
			stopSending()
		case pb.ChunkResult:
			return chunk.Result, nil
		case pb.ChunkError:
			return nil, errors.FromProto(chunk.GetError())
		}
	}
}

// awaitFailure recovers the server's status after a failed Send
func awaitFailure(stream pb.ChunkStream, sendErr error) error {
	if _, err := stream.Recv(); err != nil && err != io.EOF {
		return errors.FromStatus(err)
	}
	return errors.FromStatus(sendErr)
}

// ServeUpload runs the server side of an upload: it decodes the header,
// hands the (decompressed) payload to consume and replies with RESULT, or
// ERROR if consume fails. consume may return before reading everything; the
// client is then told to stop sending.
func ServeUpload(stream pb.ChunkStreamServer, opts Options, consume ConsumeFunc) error {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	out := &lockedSender{stream: stream}

	first, err := stream.Recv()
	if err != nil {
		return err
	}
	header, err := decodeHeader(first)
	if err != nil {
		return sendFailure(out, err)
	}
	codec, err := compress.Lookup(header.Codec)
	if err != nil {
		return sendFailure(out, err)
	}

	receiver := newReceiver(stream, out, opts)
	received := make(chan error, 1)
	go func() {
		received <- receiver.Run(ctx)
	}()

	r, err := codec.NewReader(receiver.Pipe())
	if err != nil {
		receiver.Pipe().Close()
		<-received
		return sendFailure(out, err)
	}
	result, err := consume(ctx, header, r)
	r.Close()
	receiver.Pipe().Close()
	if err != nil {
		opts.Logger.Debug("Upload consumer failed", zap.Error(err))
		out.send(&pb.StreamChunk{Kind: pb.ChunkError, Error: errors.ToProto(err)})
	} else {
		out.send(&pb.StreamChunk{Kind: pb.ChunkResult, Result: result})
	}
	cancel()
	<-received
	return nil
}

func sendFailure(out *lockedSender, err error) error {
	if sendErr := out.send(&pb.StreamChunk{Kind: pb.ChunkError, Error: errors.ToProto(err)}); sendErr != nil {
		return errors.ToStatus(err)
	}
	return nil
}
