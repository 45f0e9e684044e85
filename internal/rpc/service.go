package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ChunkStream is the half of a bidirectional StreamChunk stream visible to
// the transport code; it is implemented by both client and server streams.
type ChunkStream interface {
	Send(*StreamChunk) error
	Recv() (*StreamChunk, error)
	Context() context.Context
}

// ChunkStreamClient is the client side of a StreamChunk stream
type ChunkStreamClient interface {
	ChunkStream
	CloseSend() error
}

// ChunkStreamServer is the server side of a StreamChunk stream
type ChunkStreamServer interface {
	ChunkStream
}

type chunkStreamClient struct {
	grpc.ClientStream
}

func (x *chunkStreamClient) Send(m *StreamChunk) error {
	return x.ClientStream.SendMsg(m)
}

func (x *chunkStreamClient) Recv() (*StreamChunk, error) {
	m := new(StreamChunk)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type chunkStreamServer struct {
	grpc.ServerStream
}

func (x *chunkStreamServer) Send(m *StreamChunk) error {
	return x.ServerStream.SendMsg(m)
}

func (x *chunkStreamServer) Recv() (*StreamChunk, error) {
	m := new(StreamChunk)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type unaryInvoker func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error)

// unaryMethod builds the MethodDesc of a unary RPC, honouring server interceptors
func unaryMethod(service, method string, newReq func() interface{}, invoke unaryInvoker) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return invoke(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return invoke(srv, ctx, req)
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// chunkStreamMethod builds the StreamDesc of a bidirectional StreamChunk RPC
func chunkStreamMethod(method string, serve func(srv interface{}, stream ChunkStreamServer) error) grpc.StreamDesc {
	return grpc.StreamDesc{
		StreamName: method,
		Handler: func(srv interface{}, stream grpc.ServerStream) error {
			return serve(srv, &chunkStreamServer{stream})
		},
		ServerStreams: true,
		ClientStreams: true,
	}
}

func newChunkStream(ctx context.Context, cc grpc.ClientConnInterface, desc *grpc.ServiceDesc, method string, opts ...grpc.CallOption) (ChunkStreamClient, error) {
	for i := range desc.Streams {
		if desc.Streams[i].StreamName == method {
			stream, err := cc.NewStream(ctx, &desc.Streams[i], "/"+desc.ServiceName+"/"+method, opts...)
			if err != nil {
				return nil, err
			}
			return &chunkStreamClient{stream}, nil
		}
	}
	panic("unknown stream method " + method)
}
