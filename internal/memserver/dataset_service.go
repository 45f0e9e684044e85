package memserver

import (
	"context"
	"io"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/errors"
	"github.com/go-marmot/marmot/geo"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/plan"
	"github.com/go-marmot/marmot/recordio"
	"github.com/go-marmot/marmot/stream"
	"github.com/golang/protobuf/proto"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type dataSetServer struct {
	pb.UnimplementedDataSetServiceServer
	server *Server
}

func (s *dataSetServer) logger() *zap.Logger {
	return s.server.opts.Logger
}

func infoReply(info *marmot.DataSetInfo, err error) (*pb.DataSetInfoProto, error) {
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	return pbconv.DataSetInfoToProto(info), nil
}

func toCreateOptions(m *pb.CreateDataSetOptionsProto) createOptions {
	if m == nil {
		return createOptions{}
	}
	return createOptions{
		geometryColumn:   pbconv.GeometryColumnFromProto(m.GeometryColumn),
		force:            m.Force,
		blockSize:        m.BlockSize,
		compressionCodec: m.CompressionCodec,
		dsType:           marmot.DataSetType(m.Type),
	}
}

func (s *dataSetServer) CreateDataSet(ctx context.Context, req *pb.CreateDataSetRequest) (*pb.DataSetInfoProto, error) {
	schema, err := pbconv.SchemaFromProto(req.Schema)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	s.logger().Debug("Creating dataset", zap.String("dataset", req.Id), zap.Stringer("schema", schema))
	return infoReply(s.server.catalog.create(req.Id, schema, toCreateOptions(req.Options)))
}

func (s *dataSetServer) CreateDataSetFromPlan(ctx context.Context, req *pb.CreateDataSetFromPlanRequest) (*pb.DataSetInfoProto, error) {
	p, err := plan.FromProto(req.Plan)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	if _, ok := p.OutputDataSet(); ok {
		return nil, errors.ToStatus(errors.InvalidPlanError{Reason: "plan already ends with a store"})
	}
	opts := toCreateOptions(req.Options)
	store := &pb.OperatorProto{
		Kind:    int32(plan.OpStore),
		Dataset: req.Id,
		Store:   &pb.StoreOptionsProto{Force: opts.force, BlockSize: opts.blockSize, CompressionCodec: opts.compressionCodec},
	}
	if gc := opts.geometryColumn; gc != nil {
		store.Store.GeometryColumn = gc.Name
		store.Store.Srid = gc.SRID
	}
	withStore := proto.Clone(p.ToProto()).(*pb.PlanProto)
	withStore.Operators = append(withStore.Operators, store)
	if p, err = plan.FromProto(withStore); err != nil {
		return nil, errors.ToStatus(err)
	}
	if err := s.server.execute(ctx, "", p); err != nil {
		return nil, errors.ToStatus(err)
	}
	return infoReply(s.server.catalog.info(req.Id))
}

func (s *dataSetServer) GetDataSetInfo(ctx context.Context, req *wrapperspb.StringValue) (*pb.DataSetInfoProto, error) {
	return infoReply(s.server.catalog.info(req.GetValue()))
}

func infoListReply(infos []*marmot.DataSetInfo) *pb.DataSetInfoListProto {
	res := &pb.DataSetInfoListProto{Infos: make([]*pb.DataSetInfoProto, len(infos))}
	for i, info := range infos {
		res.Infos[i] = pbconv.DataSetInfoToProto(info)
	}
	return res
}

func (s *dataSetServer) ListDataSets(ctx context.Context, _ *emptypb.Empty) (*pb.DataSetInfoListProto, error) {
	return infoListReply(s.server.catalog.list(nil)), nil
}

func (s *dataSetServer) ListDataSetsInFolder(ctx context.Context, req *pb.ListDataSetsInFolderRequest) (*pb.DataSetInfoListProto, error) {
	return infoListReply(s.server.catalog.listInFolder(req.Folder, req.Recursive)), nil
}

func (s *dataSetServer) ListFolders(ctx context.Context, _ *emptypb.Empty) (*pb.StringListProto, error) {
	return &pb.StringListProto{Values: s.server.catalog.folders()}, nil
}

func (s *dataSetServer) MoveDataSet(ctx context.Context, req *pb.MoveDataSetRequest) (*emptypb.Empty, error) {
	if err := s.server.catalog.move(req.From, req.To); err != nil {
		return nil, errors.ToStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// DeleteDataSet fails with DataSetNotFound for an unknown id
func (s *dataSetServer) DeleteDataSet(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if !s.server.catalog.remove(req.GetValue()) {
		return nil, errors.ToStatus(errors.DataSetNotFoundError{ID: req.GetValue()})
	}
	s.logger().Debug("Deleted dataset", zap.String("dataset", req.GetValue()))
	return &emptypb.Empty{}, nil
}

func (s *dataSetServer) DeleteFolder(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	count := s.server.catalog.removeFolder(req.GetValue())
	s.logger().Debug("Deleted folder", zap.String("folder", req.GetValue()), zap.Int("datasets", count))
	return &emptypb.Empty{}, nil
}

func (s *dataSetServer) CreateSpatialIndex(ctx context.Context, req *pb.CreateSpatialIndexRequest) (*pb.DataSetInfoProto, error) {
	return infoReply(s.server.catalog.setSpatialIndex(req.Id, true))
}

func (s *dataSetServer) DeleteSpatialIndex(ctx context.Context, req *wrapperspb.StringValue) (*pb.DataSetInfoProto, error) {
	return infoReply(s.server.catalog.setSpatialIndex(req.GetValue(), false))
}

func (s *dataSetServer) GetDataSetLength(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	info, err := s.server.catalog.info(req.GetValue())
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	// an in-memory dataset has no files; report an estimate of its encoded size
	return wrapperspb.Int64(info.RecordCount * 64), nil
}

// AppendRecordSet appends an uploaded record stream. Either every record is
// appended or none is.
func (s *dataSetServer) AppendRecordSet(cs pb.ChunkStreamServer) error {
	return stream.ServeUpload(cs, s.server.opts.Stream, func(ctx context.Context, header *stream.Header, r io.Reader) ([]byte, error) {
		req := &pb.AppendRecordSetHeader{}
		if err := header.Unmarshal(req); err != nil {
			return nil, err
		}
		info, err := s.server.catalog.info(req.Id)
		if err != nil {
			return nil, err
		}
		rs, err := recordio.NewReader(r)
		if err != nil {
			return nil, err
		}
		if err := info.Schema.Equals(rs.Schema()); err != nil {
			rs.Close()
			return nil, status.Errorf(codes.InvalidArgument, "record set does not match dataset %s: %s", req.Id, err)
		}
		records, err := marmot.CollectRecords(ctx, rs)
		if err != nil {
			return nil, err
		}
		if _, err := s.server.catalog.appendRecords(req.Id, records); err != nil {
			return nil, err
		}
		s.logger().Debug("Appended records", zap.String("dataset", req.Id), zap.Int("count", len(records)))
		return proto.Marshal(wrapperspb.Int64(int64(len(records))))
	})
}

func (s *dataSetServer) ReadDataSet(cs pb.ChunkStreamServer) error {
	return stream.ServeDownload(cs, s.server.opts.Stream, func(ctx context.Context, header *stream.Header) (io.Reader, error) {
		req := &pb.ReadDataSetHeader{}
		if err := header.Unmarshal(req); err != nil {
			return nil, err
		}
		info, records, err := s.server.catalog.lookup(req.Id)
		if err != nil {
			return nil, err
		}
		return recordio.Pipe(ctx, marmot.RecordSetFromRecords(info.Schema, records...)), nil
	})
}

// QueryRange streams the records whose default geometry intersects the
// requested range
func (s *dataSetServer) QueryRange(cs pb.ChunkStreamServer) error {
	return stream.ServeDownload(cs, s.server.opts.Stream, func(ctx context.Context, header *stream.Header) (io.Reader, error) {
		req := &pb.QueryRangeHeader{}
		if err := header.Unmarshal(req); err != nil {
			return nil, err
		}
		info, records, err := s.server.catalog.lookup(req.Id)
		if err != nil {
			return nil, err
		}
		if info.GeometryColumn == nil {
			return nil, errors.ColumnNotFoundError{Name: "<geometry>"}
		}
		col, ok := info.Schema.GetColumn(info.GeometryColumn.Name)
		if !ok {
			return nil, errors.ColumnNotFoundError{Name: info.GeometryColumn.Name}
		}
		bound := pbconv.EnvelopeFromProto(req.Range)
		var matches []*marmot.Record
		for _, rec := range records {
			if req.SampleCount > 0 && len(matches) >= int(req.SampleCount) {
				break
			}
			if g, ok := rec.Get(col.Ordinal).(orb.Geometry); ok && g != nil && geo.Intersects(g.Bound(), bound) {
				matches = append(matches, rec)
			}
		}
		return recordio.Pipe(ctx, marmot.RecordSetFromRecords(info.Schema, matches...)), nil
	})
}
