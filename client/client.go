// Package client connects to a Marmot server. A MarmotClient holds one gRPC
// connection shared by a DataSetServiceProxy, which manages the server's
// catalog and moves records in and out of it, and a PlanExecutionServiceProxy,
// which runs Plans.
package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/config"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/logging"
	"github.com/go-marmot/marmot/plan"
	"github.com/go-marmot/marmot/stream"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Option customizes a MarmotClient
type Option func(*MarmotClient)

// WithLogger replaces the logger derived from ClientOptions.LogLevel
func WithLogger(logger *zap.Logger) Option {
	return func(c *MarmotClient) {
		c.logger = logging.OrNop(logger)
	}
}

// WithMetrics records chunk and flow-control counters for every stream
func WithMetrics(metrics *stream.Metrics) Option {
	return func(c *MarmotClient) {
		c.metrics = metrics
	}
}

// MarmotClient is the entry point to a Marmot server
type MarmotClient struct {
	opts     *config.ClientOptions
	conn     grpc.ClientConnInterface
	logger   *zap.Logger
	metrics  *stream.Metrics
	dataSets *DataSetServiceProxy
	plans    *PlanExecutionServiceProxy
}

// Connect dials the server named by opts, blocking until the connection is
// up or opts.DialTimeout elapses. dialOpts are appended to the defaults, so
// they may override the transport.
func Connect(ctx context.Context, opts *config.ClientOptions, dialOpts ...grpc.DialOption) (*MarmotClient, error) {
	if opts == nil {
		opts = config.Default()
	}
	opts.EnsureDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dialCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, opts.Target(), append([]grpc.DialOption{grpc.WithInsecure(), grpc.WithBlock()}, dialOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to Marmot server %s: %w", opts.Target(), err)
	}
	c := NewMarmotClient(conn, opts)
	c.logger.Info("Connected to Marmot server", zap.String("target", opts.Target()))
	return c, nil
}

// NewMarmotClient wraps an established connection. Close closes conn if it
// is an io.Closer.
func NewMarmotClient(conn grpc.ClientConnInterface, opts *config.ClientOptions, options ...Option) *MarmotClient {
	if opts == nil {
		opts = config.Default()
	}
	opts.EnsureDefaults()
	c := &MarmotClient{opts: opts, conn: conn}
	if level, err := logging.ParseLogLevel(opts.LogLevel); err == nil {
		c.logger = logging.New(level, false)
	} else {
		c.logger = zap.NewNop()
	}
	for _, o := range options {
		o(c)
	}
	streamOpts := stream.OptionsFrom(opts)
	streamOpts.Metrics = c.metrics
	streamOpts.Logger = c.logger
	rpc := &rpcCaller{timeout: opts.RPCTimeout}
	c.dataSets = &DataSetServiceProxy{
		client:     pb.NewDataSetServiceClient(conn),
		rpc:        rpc,
		streamOpts: streamOpts,
		logger:     c.logger,
	}
	c.plans = &PlanExecutionServiceProxy{
		client:     pb.NewPlanExecutionServiceClient(conn),
		dataSets:   c.dataSets,
		rpc:        rpc,
		streamOpts: streamOpts,
		logger:     c.logger,
	}
	return c
}

// Options returns the (defaulted) options of this client
func (c *MarmotClient) Options() *config.ClientOptions {
	return c.opts
}

// DataSets returns the proxy for the dataset service
func (c *MarmotClient) DataSets() *DataSetServiceProxy {
	return c.dataSets
}

// Plans returns the proxy for the plan execution service
func (c *MarmotClient) Plans() *PlanExecutionServiceProxy {
	return c.plans
}

// Close closes the underlying connection
func (c *MarmotClient) Close() error {
	defer c.logger.Sync()
	if closer, ok := c.conn.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetDataSet is shorthand for DataSets().GetDataSet
func (c *MarmotClient) GetDataSet(ctx context.Context, id string) (marmot.DataSet, error) {
	return c.dataSets.GetDataSet(ctx, id)
}

// CreateDataSet is shorthand for DataSets().CreateDataSet
func (c *MarmotClient) CreateDataSet(ctx context.Context, id string, schema *marmot.RecordSchema, opts CreateDataSetOptions) (marmot.DataSet, error) {
	return c.dataSets.CreateDataSet(ctx, id, schema, opts)
}

// Upload creates a dataset holding the records of rs. The dataset is
// deleted again if the records cannot be appended.
func (c *MarmotClient) Upload(ctx context.Context, id string, rs marmot.RecordSet, opts CreateDataSetOptions) (marmot.DataSet, error) {
	ds, err := c.dataSets.CreateDataSet(ctx, id, rs.Schema(), opts)
	if err != nil {
		rs.Close()
		return nil, err
	}
	if _, err := ds.Append(ctx, rs); err != nil {
		delCtx, cancel := context.WithTimeout(context.Background(), c.opts.RPCTimeout)
		defer cancel()
		if delErr := c.dataSets.DeleteDataSet(delCtx, id); delErr != nil {
			c.logger.Warn("Unable to delete partially uploaded dataset", zap.String("dataset", id), zap.Error(delErr))
		}
		return nil, err
	}
	if err := ds.Refresh(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

// Execute is shorthand for Plans().Execute
func (c *MarmotClient) Execute(ctx context.Context, p *plan.Plan, opts ExecuteOptions) error {
	return c.plans.Execute(ctx, p, opts)
}

// ExecuteToRecordSet is shorthand for Plans().ExecuteToRecordSet
func (c *MarmotClient) ExecuteToRecordSet(ctx context.Context, p *plan.Plan) (marmot.RecordSet, error) {
	return c.plans.ExecuteToRecordSet(ctx, p)
}

// rpcCaller bounds unary calls by the configured timeout
type rpcCaller struct {
	timeout time.Duration
}

// call runs fn with a deadline of at most timeout, converting the status
// error it returns into a typed error
func (r *rpcCaller) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return errors.FromStatus(fn(ctx))
}
