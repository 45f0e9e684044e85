package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// PlanExecutionServiceName is the fully-qualified gRPC service name
const PlanExecutionServiceName = "marmot.PlanExecutionService"

// PlanExecutionServiceClient is the client API for PlanExecutionService
type PlanExecutionServiceClient interface {
	GetOutputSchema(ctx context.Context, in *GetOutputSchemaRequest, opts ...grpc.CallOption) (*RecordSchemaProto, error)
	Execute(ctx context.Context, in *ExecutePlanRequest, opts ...grpc.CallOption) (*ExecutionStateProto, error)
	ExecuteToRecord(ctx context.Context, in *ExecutePlanRequest, opts ...grpc.CallOption) (*OptionalRecordProto, error)
	ExecuteToRecordSet(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error)
	Start(ctx context.Context, in *ExecutePlanRequest, opts ...grpc.CallOption) (*ExecutionStateProto, error)
	GetExecutionState(ctx context.Context, in *ExecutionIdProto, opts ...grpc.CallOption) (*ExecutionStateProto, error)
	CancelExecution(ctx context.Context, in *ExecutionIdProto, opts ...grpc.CallOption) (*ExecutionStateProto, error)
	WaitForFinished(ctx context.Context, in *WaitForFinishedRequest, opts ...grpc.CallOption) (*ExecutionStateProto, error)
}

type planExecutionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPlanExecutionServiceClient creates a PlanExecutionServiceClient over a connection
func NewPlanExecutionServiceClient(cc grpc.ClientConnInterface) PlanExecutionServiceClient {
	return &planExecutionServiceClient{cc}
}

func (c *planExecutionServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+PlanExecutionServiceName+"/"+method, in, out, opts...)
}

func (c *planExecutionServiceClient) GetOutputSchema(ctx context.Context, in *GetOutputSchemaRequest, opts ...grpc.CallOption) (*RecordSchemaProto, error) {
	out := new(RecordSchemaProto)
	if err := c.invoke(ctx, "GetOutputSchema", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *planExecutionServiceClient) Execute(ctx context.Context, in *ExecutePlanRequest, opts ...grpc.CallOption) (*ExecutionStateProto, error) {
	out := new(ExecutionStateProto)
	if err := c.invoke(ctx, "Execute", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *planExecutionServiceClient) ExecuteToRecord(ctx context.Context, in *ExecutePlanRequest, opts ...grpc.CallOption) (*OptionalRecordProto, error) {
	out := new(OptionalRecordProto)
	if err := c.invoke(ctx, "ExecuteToRecord", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *planExecutionServiceClient) ExecuteToRecordSet(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error) {
	return newChunkStream(ctx, c.cc, &planExecutionServiceDesc, "ExecuteToRecordSet", opts...)
}

func (c *planExecutionServiceClient) Start(ctx context.Context, in *ExecutePlanRequest, opts ...grpc.CallOption) (*ExecutionStateProto, error) {
	out := new(ExecutionStateProto)
	if err := c.invoke(ctx, "Start", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *planExecutionServiceClient) GetExecutionState(ctx context.Context, in *ExecutionIdProto, opts ...grpc.CallOption) (*ExecutionStateProto, error) {
	out := new(ExecutionStateProto)
	if err := c.invoke(ctx, "GetExecutionState", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *planExecutionServiceClient) CancelExecution(ctx context.Context, in *ExecutionIdProto, opts ...grpc.CallOption) (*ExecutionStateProto, error) {
	out := new(ExecutionStateProto)
	if err := c.invoke(ctx, "CancelExecution", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *planExecutionServiceClient) WaitForFinished(ctx context.Context, in *WaitForFinishedRequest, opts ...grpc.CallOption) (*ExecutionStateProto, error) {
	out := new(ExecutionStateProto)
	if err := c.invoke(ctx, "WaitForFinished", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// PlanExecutionServiceServer is the server API for PlanExecutionService
type PlanExecutionServiceServer interface {
	GetOutputSchema(context.Context, *GetOutputSchemaRequest) (*RecordSchemaProto, error)
	Execute(context.Context, *ExecutePlanRequest) (*ExecutionStateProto, error)
	ExecuteToRecord(context.Context, *ExecutePlanRequest) (*OptionalRecordProto, error)
	ExecuteToRecordSet(ChunkStreamServer) error
	Start(context.Context, *ExecutePlanRequest) (*ExecutionStateProto, error)
	GetExecutionState(context.Context, *ExecutionIdProto) (*ExecutionStateProto, error)
	CancelExecution(context.Context, *ExecutionIdProto) (*ExecutionStateProto, error)
	WaitForFinished(context.Context, *WaitForFinishedRequest) (*ExecutionStateProto, error)
}

// RegisterPlanExecutionServiceServer registers a PlanExecutionServiceServer with a gRPC server
func RegisterPlanExecutionServiceServer(s *grpc.Server, srv PlanExecutionServiceServer) {
	s.RegisterService(&planExecutionServiceDesc, srv)
}

func peServer(srv interface{}) PlanExecutionServiceServer {
	return srv.(PlanExecutionServiceServer)
}

var planExecutionServiceDesc = grpc.ServiceDesc{
	ServiceName: PlanExecutionServiceName,
	HandlerType: (*PlanExecutionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(PlanExecutionServiceName, "GetOutputSchema",
			func() interface{} { return new(GetOutputSchemaRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return peServer(srv).GetOutputSchema(ctx, req.(*GetOutputSchemaRequest))
			}),
		unaryMethod(PlanExecutionServiceName, "Execute",
			func() interface{} { return new(ExecutePlanRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return peServer(srv).Execute(ctx, req.(*ExecutePlanRequest))
			}),
		unaryMethod(PlanExecutionServiceName, "ExecuteToRecord",
			func() interface{} { return new(ExecutePlanRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return peServer(srv).ExecuteToRecord(ctx, req.(*ExecutePlanRequest))
			}),
		unaryMethod(PlanExecutionServiceName, "Start",
			func() interface{} { return new(ExecutePlanRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return peServer(srv).Start(ctx, req.(*ExecutePlanRequest))
			}),
		unaryMethod(PlanExecutionServiceName, "GetExecutionState",
			func() interface{} { return new(ExecutionIdProto) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return peServer(srv).GetExecutionState(ctx, req.(*ExecutionIdProto))
			}),
		unaryMethod(PlanExecutionServiceName, "CancelExecution",
			func() interface{} { return new(ExecutionIdProto) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return peServer(srv).CancelExecution(ctx, req.(*ExecutionIdProto))
			}),
		unaryMethod(PlanExecutionServiceName, "WaitForFinished",
			func() interface{} { return new(WaitForFinishedRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return peServer(srv).WaitForFinished(ctx, req.(*WaitForFinishedRequest))
			}),
	},
	Streams: []grpc.StreamDesc{
		chunkStreamMethod("ExecuteToRecordSet", func(srv interface{}, stream ChunkStreamServer) error {
			return peServer(srv).ExecuteToRecordSet(stream)
		}),
	},
	Metadata: "execution.proto",
}
