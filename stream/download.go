package stream

import (
	"context"
	"io"

	"github.com/go-marmot/marmot/compress"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/golang/protobuf/proto"
	"go.uber.org/zap"
)

// ProduceFunc produces the payload of a download on the server. If the
// returned reader is also an io.Closer, it is closed once sent.
type ProduceFunc func(ctx context.Context, header *Header) (io.Reader, error)

type downloadReader struct {
	decoded  io.ReadCloser
	pipe     *ChunkPipe
	cancel   context.CancelFunc
	received <-chan struct{}
}

func (d *downloadReader) Read(buf []byte) (int, error) {
	return d.decoded.Read(buf)
}

// Close stops the download. If the payload was not fully read, the server
// is sent CANCEL.
func (d *downloadReader) Close() error {
	err := d.decoded.Close()
	d.pipe.Close()
	d.cancel()
	<-d.received
	return err
}

// Download opens a stream, sends request as its header, and returns a
// reader over the (decompressed) payload the server sends back. The reader
// must be closed.
func Download(ctx context.Context, open OpenFunc, request proto.Message, opts Options) (io.ReadCloser, error) {
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
	stream, err := open(streamCtx)
	if err != nil {
		cancel()
		return nil, errors.FromStatus(err)
	}
	out := &lockedSender{stream: stream}
	if err := out.send(header); err != nil {
		err = awaitFailure(stream, err)
		cancel()
		return nil, err
	}

	receiver := newReceiver(stream, out, opts)
	received := make(chan struct{})
	go func() {
		defer close(received)
		if err := receiver.Run(streamCtx); err != nil {
			opts.Logger.Debug("Download ended", zap.Error(err))
		}
		out.closeSend()
	}()
	decoded, err := codec.NewReader(receiver.Pipe())
	if err != nil {
		receiver.Pipe().Close()
		cancel()
		<-received
		return nil, err
	}
	return &downloadReader{decoded: decoded, pipe: receiver.Pipe(), cancel: cancel, received: received}, nil
}

// ServeDownload runs the server side of a download: it decodes the header,
// asks produce for the payload and sends it (compressed with the codec the
// client asked for), honouring the client's flow control. If the client
// cancels, the context passed to produce is cancelled.
func ServeDownload(stream pb.ChunkStreamServer, opts Options, produce ProduceFunc) error {
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
	src, err := produce(ctx, header)
	if err != nil {
		return sendFailure(out, err)
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	sender := newSender(out, opts)
	replied := make(chan struct{})
	go func() {
		defer close(replied)
		defer cancel()
		for {
			chunk, err := stream.Recv()
			if err != nil {
				return
			}
			switch chunk.GetKind() {
			case pb.ChunkSyncBack:
				sender.ack(chunk.Sync)
			case pb.ChunkCancel:
				opts.Logger.Debug("Download cancelled by client")
				return
			}
		}
	}()

	zsrc, err := compress.Compress(codec.Name(), src)
	if err != nil {
		cancel()
		sendFailure(out, err)
		<-replied
		return nil
	}
	if err := sender.Run(ctx, zsrc); err != nil {
		opts.Logger.Debug("Download stopped", zap.Error(err))
	}
	zsrc.Close()
	<-replied
	return nil
}
