package client

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/errors"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/plan"
	"github.com/go-marmot/marmot/recordio"
	"github.com/go-marmot/marmot/stream"
	"github.com/golang/protobuf/proto"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// CreateDataSetOptions configures a new dataset
type CreateDataSetOptions struct {
	GeometryColumn   *marmot.GeometryColumnInfo // GeometryColumn is the default geometry column, if any
	Force            bool                       // Force replaces an existing dataset with the same id
	BlockSize        int64                      // BlockSize of the dataset's files, or 0 for the server default
	CompressionCodec string                     // CompressionCodec of the dataset's files
	Type             marmot.DataSetType
}

func (o CreateDataSetOptions) toProto() *pb.CreateDataSetOptionsProto {
	return &pb.CreateDataSetOptionsProto{
		GeometryColumn:   pbconv.GeometryColumnToProto(o.GeometryColumn),
		Force:            o.Force,
		BlockSize:        o.BlockSize,
		CompressionCodec: o.CompressionCodec,
		Type:             int32(o.Type),
	}
}

// DataSetServiceProxy manages the datasets of a Marmot server
type DataSetServiceProxy struct {
	client     pb.DataSetServiceClient
	rpc        *rpcCaller
	streamOpts stream.Options
	logger     *zap.Logger
}

func (p *DataSetServiceProxy) toDataSet(m *pb.DataSetInfoProto) (marmot.DataSet, error) {
	info, err := pbconv.DataSetInfoFromProto(m)
	if err != nil {
		return nil, err
	}
	return &dataSet{proxy: p, info: info}, nil
}

func (p *DataSetServiceProxy) toInfos(m *pb.DataSetInfoListProto) ([]*marmot.DataSetInfo, error) {
	infos := make([]*marmot.DataSetInfo, len(m.Infos))
	for i, info := range m.Infos {
		var err error
		if infos[i], err = pbconv.DataSetInfoFromProto(info); err != nil {
			return nil, err
		}
	}
	return infos, nil
}

// CreateDataSet creates an empty dataset. It fails with DataSetExistsError
// if the id is taken, unless opts.Force is set.
func (p *DataSetServiceProxy) CreateDataSet(ctx context.Context, id string, schema *marmot.RecordSchema, opts CreateDataSetOptions) (marmot.DataSet, error) {
	req := &pb.CreateDataSetRequest{Id: id, Schema: pbconv.SchemaToProto(schema), Options: opts.toProto()}
	var res *pb.DataSetInfoProto
	err := p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.CreateDataSet(ctx, req)
		return
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Created dataset", zap.String("dataset", id))
	return p.toDataSet(res)
}

// CreateDataSetFromPlan executes pl and stores its output as a new dataset.
// pl must not end with a store operator.
func (p *DataSetServiceProxy) CreateDataSetFromPlan(ctx context.Context, id string, pl *plan.Plan, opts CreateDataSetOptions) (marmot.DataSet, error) {
	req := &pb.CreateDataSetFromPlanRequest{Id: id, Plan: pl.ToProto(), Options: opts.toProto()}
	// building a dataset is not bounded by the unary timeout
	res, err := p.client.CreateDataSetFromPlan(ctx, req)
	if err != nil {
		return nil, errors.FromStatus(err)
	}
	return p.toDataSet(res)
}

// GetDataSet fails with DataSetNotFoundError for an unknown id
func (p *DataSetServiceProxy) GetDataSet(ctx context.Context, id string) (marmot.DataSet, error) {
	info, err := p.getInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.toDataSet(info)
}

// GetDataSetOrNil returns nil, rather than an error, for an unknown id
func (p *DataSetServiceProxy) GetDataSetOrNil(ctx context.Context, id string) (marmot.DataSet, error) {
	ds, err := p.GetDataSet(ctx, id)
	var notFound errors.DataSetNotFoundError
	if stderrors.As(err, &notFound) {
		return nil, nil
	}
	return ds, err
}

func (p *DataSetServiceProxy) getInfo(ctx context.Context, id string) (res *pb.DataSetInfoProto, err error) {
	err = p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.GetDataSetInfo(ctx, wrapperspb.String(id))
		return
	})
	return
}

// ListDataSets returns the info of every dataset, sorted by id
func (p *DataSetServiceProxy) ListDataSets(ctx context.Context) ([]*marmot.DataSetInfo, error) {
	var res *pb.DataSetInfoListProto
	err := p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.ListDataSets(ctx, &emptypb.Empty{})
		return
	})
	if err != nil {
		return nil, err
	}
	return p.toInfos(res)
}

// ListDataSetsInFolder returns the datasets directly in folder, or anywhere
// below it if recursive is set
func (p *DataSetServiceProxy) ListDataSetsInFolder(ctx context.Context, folder string, recursive bool) ([]*marmot.DataSetInfo, error) {
	var res *pb.DataSetInfoListProto
	err := p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.ListDataSetsInFolder(ctx, &pb.ListDataSetsInFolderRequest{Folder: folder, Recursive: recursive})
		return
	})
	if err != nil {
		return nil, err
	}
	return p.toInfos(res)
}

// ListFolders returns every non-empty folder
func (p *DataSetServiceProxy) ListFolders(ctx context.Context) ([]string, error) {
	var res *pb.StringListProto
	err := p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.ListFolders(ctx, &emptypb.Empty{})
		return
	})
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// MoveDataSet renames a dataset
func (p *DataSetServiceProxy) MoveDataSet(ctx context.Context, from string, to string) error {
	return p.rpc.call(ctx, func(ctx context.Context) error {
		_, err := p.client.MoveDataSet(ctx, &pb.MoveDataSetRequest{From: from, To: to})
		return err
	})
}

// DeleteDataSet fails with DataSetNotFoundError for an unknown id
func (p *DataSetServiceProxy) DeleteDataSet(ctx context.Context, id string) error {
	return p.rpc.call(ctx, func(ctx context.Context) error {
		_, err := p.client.DeleteDataSet(ctx, wrapperspb.String(id))
		return err
	})
}

// DeleteDataSets attempts to delete every dataset in ids, returning all
// failures together
func (p *DataSetServiceProxy) DeleteDataSets(ctx context.Context, ids ...string) error {
	var result *multierror.Error
	for _, id := range ids {
		if err := p.DeleteDataSet(ctx, id); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// DeleteFolder deletes every dataset in or below folder
func (p *DataSetServiceProxy) DeleteFolder(ctx context.Context, folder string) error {
	return p.rpc.call(ctx, func(ctx context.Context) error {
		_, err := p.client.DeleteFolder(ctx, wrapperspb.String(folder))
		return err
	})
}

// CreateSpatialIndex indexes a dataset by its default geometry column
func (p *DataSetServiceProxy) CreateSpatialIndex(ctx context.Context, id string, opts marmot.SpatialIndexOptions) (*marmot.DataSetInfo, error) {
	req := &pb.CreateSpatialIndexRequest{
		Id:          id,
		SampleSize:  int32(opts.SampleSize),
		BlockSize:   opts.BlockSize,
		WorkerCount: opts.WorkerCount,
	}
	var res *pb.DataSetInfoProto
	err := p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.CreateSpatialIndex(ctx, req)
		return
	})
	if err != nil {
		return nil, err
	}
	return pbconv.DataSetInfoFromProto(res)
}

// DeleteSpatialIndex drops a dataset's spatial index, if it has one
func (p *DataSetServiceProxy) DeleteSpatialIndex(ctx context.Context, id string) (*marmot.DataSetInfo, error) {
	var res *pb.DataSetInfoProto
	err := p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.DeleteSpatialIndex(ctx, wrapperspb.String(id))
		return
	})
	if err != nil {
		return nil, err
	}
	return pbconv.DataSetInfoFromProto(res)
}

// GetDataSetLength returns the stored size of a dataset, in bytes
func (p *DataSetServiceProxy) GetDataSetLength(ctx context.Context, id string) (int64, error) {
	var res *wrapperspb.Int64Value
	err := p.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = p.client.GetDataSetLength(ctx, wrapperspb.String(id))
		return
	})
	if err != nil {
		return 0, err
	}
	return res.GetValue(), nil
}

// AppendRecordSet uploads the records of rs to the end of a dataset and
// closes rs. The dataset and rs must have the same schema. The records are
// appended all together or not at all.
func (p *DataSetServiceProxy) AppendRecordSet(ctx context.Context, id string, rs marmot.RecordSet) (int64, error) {
	open := func(ctx context.Context) (pb.ChunkStreamClient, error) {
		return p.client.AppendRecordSet(ctx)
	}
	header := &pb.AppendRecordSetHeader{Id: id, Schema: pbconv.SchemaToProto(rs.Schema())}
	src := recordio.Pipe(ctx, rs)
	defer src.Close()
	result, err := stream.Upload(ctx, open, header, src, p.streamOpts)
	if err != nil {
		return 0, err
	}
	count := &wrapperspb.Int64Value{}
	if err := proto.Unmarshal(result, count); err != nil {
		return 0, err
	}
	p.logger.Debug("Appended records", zap.String("dataset", id), zap.Int64("count", count.GetValue()))
	return count.GetValue(), nil
}

// openRecordSet decodes a downloaded record stream
func openRecordSet(rc io.ReadCloser, err error) (marmot.RecordSet, error) {
	if err != nil {
		return nil, err
	}
	rs, err := recordio.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return rs, nil
}

// ReadDataSet streams every record of a dataset. The RecordSet must be closed.
func (p *DataSetServiceProxy) ReadDataSet(ctx context.Context, id string) (marmot.RecordSet, error) {
	open := func(ctx context.Context) (pb.ChunkStreamClient, error) {
		return p.client.ReadDataSet(ctx)
	}
	return openRecordSet(stream.Download(ctx, open, &pb.ReadDataSetHeader{Id: id}, p.streamOpts))
}

// QueryRange streams the records of a dataset whose default geometry
// intersects bound. The RecordSet must be closed.
func (p *DataSetServiceProxy) QueryRange(ctx context.Context, id string, bound orb.Bound, opts ...marmot.QueryOption) (marmot.RecordSet, error) {
	qopts := &marmot.QueryOptions{}
	for _, o := range opts {
		o(qopts)
	}
	open := func(ctx context.Context) (pb.ChunkStreamClient, error) {
		return p.client.QueryRange(ctx)
	}
	header := &pb.QueryRangeHeader{Id: id, Range: pbconv.EnvelopeToProto(bound), SampleCount: int32(qopts.SampleCount)}
	return openRecordSet(stream.Download(ctx, open, header, p.streamOpts))
}

// dataSet is a marmot.DataSet backed by a DataSetServiceProxy
type dataSet struct {
	proxy *DataSetServiceProxy
	info  *marmot.DataSetInfo
}

func (d *dataSet) ID() string {
	return d.info.ID
}

// Info returns the catalog entry as of the last Refresh
func (d *dataSet) Info() *marmot.DataSetInfo {
	return d.info
}

func (d *dataSet) Read(ctx context.Context) (marmot.RecordSet, error) {
	return d.proxy.ReadDataSet(ctx, d.info.ID)
}

func (d *dataSet) Query(ctx context.Context, bound orb.Bound, opts ...marmot.QueryOption) (marmot.RecordSet, error) {
	return d.proxy.QueryRange(ctx, d.info.ID, bound, opts...)
}

func (d *dataSet) Append(ctx context.Context, rs marmot.RecordSet) (int64, error) {
	return d.proxy.AppendRecordSet(ctx, d.info.ID, rs)
}

func (d *dataSet) CreateSpatialIndex(ctx context.Context, opts marmot.SpatialIndexOptions) error {
	info, err := d.proxy.CreateSpatialIndex(ctx, d.info.ID, opts)
	if err != nil {
		return err
	}
	d.info = info
	return nil
}

func (d *dataSet) Refresh(ctx context.Context) error {
	m, err := d.proxy.getInfo(ctx, d.info.ID)
	if err != nil {
		return err
	}
	info, err := pbconv.DataSetInfoFromProto(m)
	if err != nil {
		return err
	}
	d.info = info
	return nil
}
