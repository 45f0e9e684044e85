package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DataSetServiceName is the fully-qualified gRPC service name
const DataSetServiceName = "marmot.DataSetService"

// DataSetServiceClient is the client API for DataSetService
type DataSetServiceClient interface {
	CreateDataSet(ctx context.Context, in *CreateDataSetRequest, opts ...grpc.CallOption) (*DataSetInfoProto, error)
	CreateDataSetFromPlan(ctx context.Context, in *CreateDataSetFromPlanRequest, opts ...grpc.CallOption) (*DataSetInfoProto, error)
	GetDataSetInfo(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*DataSetInfoProto, error)
	ListDataSets(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DataSetInfoListProto, error)
	ListDataSetsInFolder(ctx context.Context, in *ListDataSetsInFolderRequest, opts ...grpc.CallOption) (*DataSetInfoListProto, error)
	ListFolders(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StringListProto, error)
	MoveDataSet(ctx context.Context, in *MoveDataSetRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeleteDataSet(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeleteFolder(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	CreateSpatialIndex(ctx context.Context, in *CreateSpatialIndexRequest, opts ...grpc.CallOption) (*DataSetInfoProto, error)
	DeleteSpatialIndex(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*DataSetInfoProto, error)
	GetDataSetLength(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error)
	AppendRecordSet(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error)
	ReadDataSet(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error)
	QueryRange(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error)
}

type dataSetServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDataSetServiceClient creates a DataSetServiceClient over a connection
func NewDataSetServiceClient(cc grpc.ClientConnInterface) DataSetServiceClient {
	return &dataSetServiceClient{cc}
}

func (c *dataSetServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+DataSetServiceName+"/"+method, in, out, opts...)
}

func (c *dataSetServiceClient) CreateDataSet(ctx context.Context, in *CreateDataSetRequest, opts ...grpc.CallOption) (*DataSetInfoProto, error) {
	out := new(DataSetInfoProto)
	if err := c.invoke(ctx, "CreateDataSet", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) CreateDataSetFromPlan(ctx context.Context, in *CreateDataSetFromPlanRequest, opts ...grpc.CallOption) (*DataSetInfoProto, error) {
	out := new(DataSetInfoProto)
	if err := c.invoke(ctx, "CreateDataSetFromPlan", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) GetDataSetInfo(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*DataSetInfoProto, error) {
	out := new(DataSetInfoProto)
	if err := c.invoke(ctx, "GetDataSetInfo", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) ListDataSets(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DataSetInfoListProto, error) {
	out := new(DataSetInfoListProto)
	if err := c.invoke(ctx, "ListDataSets", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) ListDataSetsInFolder(ctx context.Context, in *ListDataSetsInFolderRequest, opts ...grpc.CallOption) (*DataSetInfoListProto, error) {
	out := new(DataSetInfoListProto)
	if err := c.invoke(ctx, "ListDataSetsInFolder", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) ListFolders(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StringListProto, error) {
	out := new(StringListProto)
	if err := c.invoke(ctx, "ListFolders", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) MoveDataSet(ctx context.Context, in *MoveDataSetRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.invoke(ctx, "MoveDataSet", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) DeleteDataSet(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.invoke(ctx, "DeleteDataSet", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) DeleteFolder(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.invoke(ctx, "DeleteFolder", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) CreateSpatialIndex(ctx context.Context, in *CreateSpatialIndexRequest, opts ...grpc.CallOption) (*DataSetInfoProto, error) {
	out := new(DataSetInfoProto)
	if err := c.invoke(ctx, "CreateSpatialIndex", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) DeleteSpatialIndex(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*DataSetInfoProto, error) {
	out := new(DataSetInfoProto)
	if err := c.invoke(ctx, "DeleteSpatialIndex", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) GetDataSetLength(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.invoke(ctx, "GetDataSetLength", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dataSetServiceClient) AppendRecordSet(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error) {
	return newChunkStream(ctx, c.cc, &dataSetServiceDesc, "AppendRecordSet", opts...)
}

func (c *dataSetServiceClient) ReadDataSet(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error) {
	return newChunkStream(ctx, c.cc, &dataSetServiceDesc, "ReadDataSet", opts...)
}

func (c *dataSetServiceClient) QueryRange(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error) {
	return newChunkStream(ctx, c.cc, &dataSetServiceDesc, "QueryRange", opts...)
}

// DataSetServiceServer is the server API for DataSetService
type DataSetServiceServer interface {
	CreateDataSet(context.Context, *CreateDataSetRequest) (*DataSetInfoProto, error)
	CreateDataSetFromPlan(context.Context, *CreateDataSetFromPlanRequest) (*DataSetInfoProto, error)
	GetDataSetInfo(context.Context, *wrapperspb.StringValue) (*DataSetInfoProto, error)
	ListDataSets(context.Context, *emptypb.Empty) (*DataSetInfoListProto, error)
	ListDataSetsInFolder(context.Context, *ListDataSetsInFolderRequest) (*DataSetInfoListProto, error)
	ListFolders(context.Context, *emptypb.Empty) (*StringListProto, error)
	MoveDataSet(context.Context, *MoveDataSetRequest) (*emptypb.Empty, error)
	DeleteDataSet(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	DeleteFolder(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	CreateSpatialIndex(context.Context, *CreateSpatialIndexRequest) (*DataSetInfoProto, error)
	DeleteSpatialIndex(context.Context, *wrapperspb.StringValue) (*DataSetInfoProto, error)
	GetDataSetLength(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
	AppendRecordSet(ChunkStreamServer) error
	ReadDataSet(ChunkStreamServer) error
	QueryRange(ChunkStreamServer) error
}

// UnimplementedDataSetServiceServer can be embedded to have forward compatible implementations
type UnimplementedDataSetServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedDataSetServiceServer) CreateDataSet(context.Context, *CreateDataSetRequest) (*DataSetInfoProto, error) {
	return nil, unimplemented("CreateDataSet")
}
func (UnimplementedDataSetServiceServer) CreateDataSetFromPlan(context.Context, *CreateDataSetFromPlanRequest) (*DataSetInfoProto, error) {
	return nil, unimplemented("CreateDataSetFromPlan")
}
func (UnimplementedDataSetServiceServer) GetDataSetInfo(context.Context, *wrapperspb.StringValue) (*DataSetInfoProto, error) {
	return nil, unimplemented("GetDataSetInfo")
}
func (UnimplementedDataSetServiceServer) ListDataSets(context.Context, *emptypb.Empty) (*DataSetInfoListProto, error) {
	return nil, unimplemented("ListDataSets")
}
func (UnimplementedDataSetServiceServer) ListDataSetsInFolder(context.Context, *ListDataSetsInFolderRequest) (*DataSetInfoListProto, error) {
	return nil, unimplemented("ListDataSetsInFolder")
}
func (UnimplementedDataSetServiceServer) ListFolders(context.Context, *emptypb.Empty) (*StringListProto, error) {
	return nil, unimplemented("ListFolders")
}
func (UnimplementedDataSetServiceServer) MoveDataSet(context.Context, *MoveDataSetRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("MoveDataSet")
}
func (UnimplementedDataSetServiceServer) DeleteDataSet(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, unimplemented("DeleteDataSet")
}
func (UnimplementedDataSetServiceServer) DeleteFolder(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, unimplemented("DeleteFolder")
}
func (UnimplementedDataSetServiceServer) CreateSpatialIndex(context.Context, *CreateSpatialIndexRequest) (*DataSetInfoProto, error) {
	return nil, unimplemented("CreateSpatialIndex")
}
func (UnimplementedDataSetServiceServer) DeleteSpatialIndex(context.Context, *wrapperspb.StringValue) (*DataSetInfoProto, error) {
	return nil, unimplemented("DeleteSpatialIndex")
}
func (UnimplementedDataSetServiceServer) GetDataSetLength(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	return nil, unimplemented("GetDataSetLength")
}
func (UnimplementedDataSetServiceServer) AppendRecordSet(ChunkStreamServer) error {
	return unimplemented("AppendRecordSet")
}
func (UnimplementedDataSetServiceServer) ReadDataSet(ChunkStreamServer) error {
	return unimplemented("ReadDataSet")
}
func (UnimplementedDataSetServiceServer) QueryRange(ChunkStreamServer) error {
	return unimplemented("QueryRange")
}

// RegisterDataSetServiceServer registers a DataSetServiceServer with a gRPC server
func RegisterDataSetServiceServer(s *grpc.Server, srv DataSetServiceServer) {
	s.RegisterService(&dataSetServiceDesc, srv)
}

func dsServer(srv interface{}) DataSetServiceServer {
	return srv.(DataSetServiceServer)
}

var dataSetServiceDesc = grpc.ServiceDesc{
	ServiceName: DataSetServiceName,
	HandlerType: (*DataSetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(DataSetServiceName, "CreateDataSet",
			func() interface{} { return new(CreateDataSetRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).CreateDataSet(ctx, req.(*CreateDataSetRequest))
			}),
		unaryMethod(DataSetServiceName, "CreateDataSetFromPlan",
			func() interface{} { return new(CreateDataSetFromPlanRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).CreateDataSetFromPlan(ctx, req.(*CreateDataSetFromPlanRequest))
			}),
		unaryMethod(DataSetServiceName, "GetDataSetInfo",
			func() interface{} { return new(wrapperspb.StringValue) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).GetDataSetInfo(ctx, req.(*wrapperspb.StringValue))
			}),
		unaryMethod(DataSetServiceName, "ListDataSets",
			func() interface{} { return new(emptypb.Empty) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).ListDataSets(ctx, req.(*emptypb.Empty))
			}),
		unaryMethod(DataSetServiceName, "ListDataSetsInFolder",
			func() interface{} { return new(ListDataSetsInFolderRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).ListDataSetsInFolder(ctx, req.(*ListDataSetsInFolderRequest))
			}),
		unaryMethod(DataSetServiceName, "ListFolders",
			func() interface{} { return new(emptypb.Empty) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).ListFolders(ctx, req.(*emptypb.Empty))
			}),
		unaryMethod(DataSetServiceName, "MoveDataSet",
			func() interface{} { return new(MoveDataSetRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).MoveDataSet(ctx, req.(*MoveDataSetRequest))
			}),
		unaryMethod(DataSetServiceName, "DeleteDataSet",
			func() interface{} { return new(wrapperspb.StringValue) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).DeleteDataSet(ctx, req.(*wrapperspb.StringValue))
			}),
		unaryMethod(DataSetServiceName, "DeleteFolder",
			func() interface{} { return new(wrapperspb.StringValue) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).DeleteFolder(ctx, req.(*wrapperspb.StringValue))
			}),
		unaryMethod(DataSetServiceName, "CreateSpatialIndex",
			func() interface{} { return new(CreateSpatialIndexRequest) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).CreateSpatialIndex(ctx, req.(*CreateSpatialIndexRequest))
			}),
		unaryMethod(DataSetServiceName, "DeleteSpatialIndex",
			func() interface{} { return new(wrapperspb.StringValue) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).DeleteSpatialIndex(ctx, req.(*wrapperspb.StringValue))
			}),
		unaryMethod(DataSetServiceName, "GetDataSetLength",
			func() interface{} { return new(wrapperspb.StringValue) },
			func(srv interface{}, ctx context.Context, req interface{}) (interface{}, error) {
				return dsServer(srv).GetDataSetLength(ctx, req.(*wrapperspb.StringValue))
			}),
	},
	Streams: []grpc.StreamDesc{
		chunkStreamMethod("AppendRecordSet", func(srv interface{}, stream ChunkStreamServer) error {
			return dsServer(srv).AppendRecordSet(stream)
		}),
		chunkStreamMethod("ReadDataSet", func(srv interface{}, stream ChunkStreamServer) error {
			return dsServer(srv).ReadDataSet(stream)
		}),
		chunkStreamMethod("QueryRange", func(srv interface{}, stream ChunkStreamServer) error {
			return dsServer(srv).QueryRange(stream)
		}),
	},
	Metadata: "dataset.proto",
}
