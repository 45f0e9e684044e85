package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/compress"
	"github.com/go-marmot/marmot/errors"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/plan"
	"github.com/go-marmot/marmot/stream"
	uuid "github.com/gofrs/uuid"
	"github.com/golang/protobuf/proto"
	"go.uber.org/zap"
)

// TempFolder holds the datasets ExecuteLocally creates for its input
const TempFolder = "tmp/local"

// ExecuteOptions configures a plan execution
type ExecuteOptions struct {
	DisableLocalExecution bool          // DisableLocalExecution forces the server to distribute even small plans
	MapOutputCompression  string        // MapOutputCompression names the codec for intermediate output
	Timeout               time.Duration // Timeout bounds the execution on the server, 0 for none
}

func (o ExecuteOptions) toProto() (*pb.ExecuteOptionsProto, error) {
	if len(o.MapOutputCompression) > 0 {
		if _, err := compress.Lookup(o.MapOutputCompression); err != nil {
			return nil, err
		}
	}
	if o.Timeout < 0 {
		return nil, fmt.Errorf("ExecuteOptions.Timeout must not be negative")
	}
	return &pb.ExecuteOptionsProto{
		DisableLocalExecution: o.DisableLocalExecution,
		MapOutputCompression:  o.MapOutputCompression,
		TimeoutMillis:         o.Timeout.Milliseconds(),
	}, nil
}

// Status is the lifecycle stage of an Execution
type Status int32

const (
	// Running executions have not finished yet
	Running Status = Status(pb.ExecutionRunning)
	// Completed executions finished successfully
	Completed Status = Status(pb.ExecutionCompleted)
	// Failed executions stopped on an error
	Failed Status = Status(pb.ExecutionFailed)
	// Cancelled executions were stopped by a client or by the server
	Cancelled Status = Status(pb.ExecutionCancelled)
)

// String returns the name of this Status
func (s Status) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Completed:
		return "COMPLETED"
	case Failed:
		return "FAILED"
	case Cancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// ExecutionState is a snapshot of an Execution
type ExecutionState struct {
	ID         string
	Status     Status
	Failure    error // Failure is the cause of a FAILED or CANCELLED execution
	StartedAt  time.Time
	FinishedAt time.Time // FinishedAt is zero while RUNNING
}

// IsFinished returns true unless the execution is still running
func (s ExecutionState) IsFinished() bool {
	return s.Status != Running
}

func executionStateFromProto(m *pb.ExecutionStateProto) ExecutionState {
	res := ExecutionState{
		ID:        m.Id,
		Status:    Status(m.State),
		Failure:   errors.FromProto(m.GetFailure()),
		StartedAt: time.UnixMilli(m.StartedMillis),
	}
	if m.FinishedMillis > 0 {
		res.FinishedAt = time.UnixMilli(m.FinishedMillis)
	}
	return res
}

// PlanExecutionServiceProxy runs Plans on a Marmot server
type PlanExecutionServiceProxy struct {
	client     pb.PlanExecutionServiceClient
	dataSets   *DataSetServiceProxy
	rpc        *rpcCaller
	streamOpts stream.Options
	logger     *zap.Logger
}

func executeRequest(p *plan.Plan, opts ExecuteOptions) (*pb.ExecutePlanRequest, error) {
	m, err := opts.toProto()
	if err != nil {
		return nil, err
	}
	return &pb.ExecutePlanRequest{Plan: p.ToProto(), Options: m}, nil
}

// GetOutputSchema computes the schema of the records p produces. If
// inputSchema is non-nil, it stands in for the output of p's loader.
func (x *PlanExecutionServiceProxy) GetOutputSchema(ctx context.Context, p *plan.Plan, inputSchema *marmot.RecordSchema) (*marmot.RecordSchema, error) {
	req := &pb.GetOutputSchemaRequest{Plan: p.ToProto()}
	if inputSchema != nil {
		req.InputSchema = pbconv.SchemaToProto(inputSchema)
	}
	var res *pb.RecordSchemaProto
	err := x.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = x.client.GetOutputSchema(ctx, req)
		return
	})
	if err != nil {
		return nil, err
	}
	return pbconv.SchemaFromProto(res)
}

// Execute runs p to completion, discarding its output. Plans which end with
// a store operator are executed this way. Only ctx and opts.Timeout bound
// the call.
func (x *PlanExecutionServiceProxy) Execute(ctx context.Context, p *plan.Plan, opts ExecuteOptions) error {
	req, err := executeRequest(p, opts)
	if err != nil {
		return err
	}
	x.logger.Debug("Executing plan", zap.Stringer("plan", p))
	if _, err := x.client.Execute(ctx, req); err != nil {
		return errors.FromStatus(err)
	}
	return nil
}

// ExecuteToRecordSet runs p and streams its output. The RecordSet must be
// closed.
func (x *PlanExecutionServiceProxy) ExecuteToRecordSet(ctx context.Context, p *plan.Plan) (marmot.RecordSet, error) {
	req, err := executeRequest(p, ExecuteOptions{})
	if err != nil {
		return nil, err
	}
	open := func(ctx context.Context) (pb.ChunkStreamClient, error) {
		return x.client.ExecuteToRecordSet(ctx)
	}
	return openRecordSet(stream.Download(ctx, open, req, x.streamOpts))
}

// ExecuteToRecord runs p and returns its first output record. The boolean
// is false if p produced no records.
func (x *PlanExecutionServiceProxy) ExecuteToRecord(ctx context.Context, p *plan.Plan) (*marmot.Record, bool, error) {
	schema, err := x.GetOutputSchema(ctx, p, nil)
	if err != nil {
		return nil, false, err
	}
	req, err := executeRequest(p, ExecuteOptions{})
	if err != nil {
		return nil, false, err
	}
	res, err := x.client.ExecuteToRecord(ctx, req)
	if err != nil {
		return nil, false, errors.FromStatus(err)
	}
	if !res.Present {
		return nil, false, nil
	}
	rec, err := pbconv.RecordFromProto(schema, res.Record)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// ExecuteLocally runs p over the records of input instead of the datasets
// its loader names. input is uploaded to a temporary dataset, which is
// deleted when the returned RecordSet is closed. p must start with a Load.
func (x *PlanExecutionServiceProxy) ExecuteLocally(ctx context.Context, p *plan.Plan, input marmot.RecordSet) (marmot.RecordSet, error) {
	if kinds := p.Kinds(); len(kinds) == 0 || kinds[0] != plan.OpLoad {
		input.Close()
		return nil, errors.InvalidPlanError{Reason: "local execution needs a plan starting with load"}
	}
	uid, err := uuid.NewV4()
	if err != nil {
		input.Close()
		return nil, err
	}
	tempID := TempFolder + "/" + uid.String()
	if _, err := x.dataSets.CreateDataSet(ctx, tempID, input.Schema(), CreateDataSetOptions{}); err != nil {
		input.Close()
		return nil, err
	}
	cleanup := func() {
		// ctx may be done by now
		delCtx, cancel := context.WithTimeout(context.Background(), x.rpc.timeout)
		defer cancel()
		if err := x.dataSets.DeleteDataSet(delCtx, tempID); err != nil {
			x.logger.Warn("Unable to delete temporary dataset", zap.String("dataset", tempID), zap.Error(err))
		}
	}
	if _, err := x.dataSets.AppendRecordSet(ctx, tempID, input); err != nil {
		cleanup()
		return nil, err
	}

	local := proto.Clone(p.ToProto()).(*pb.PlanProto)
	local.Operators[0] = &pb.OperatorProto{Kind: int32(plan.OpLoad), Datasets: []string{tempID}}
	localPlan, err := plan.FromProto(local)
	if err != nil {
		cleanup()
		return nil, err
	}
	rs, err := x.ExecuteToRecordSet(ctx, localPlan)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &cleanupRecordSet{RecordSet: rs, cleanup: cleanup}, nil
}

// cleanupRecordSet runs cleanup once it is closed
type cleanupRecordSet struct {
	marmot.RecordSet
	cleanup func()
	closed  bool
}

func (c *cleanupRecordSet) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.RecordSet.Close()
	c.cleanup()
	return err
}

// Start runs p in the background
func (x *PlanExecutionServiceProxy) Start(ctx context.Context, p *plan.Plan, opts ExecuteOptions) (*Execution, error) {
	req, err := executeRequest(p, opts)
	if err != nil {
		return nil, err
	}
	var res *pb.ExecutionStateProto
	err = x.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = x.client.Start(ctx, req)
		return
	})
	if err != nil {
		return nil, err
	}
	x.logger.Debug("Started execution", zap.String("execution", res.Id), zap.Stringer("plan", p))
	return &Execution{proxy: x, id: res.Id}, nil
}

// Execution is a handle on a plan started with Start
type Execution struct {
	proxy *PlanExecutionServiceProxy
	id    string
}

// ID returns the server-assigned id of this Execution
func (e *Execution) ID() string {
	return e.id
}

// State fetches the current state of this Execution
func (e *Execution) State(ctx context.Context) (ExecutionState, error) {
	var res *pb.ExecutionStateProto
	err := e.proxy.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = e.proxy.client.GetExecutionState(ctx, &pb.ExecutionIdProto{Id: e.id})
		return
	})
	if err != nil {
		return ExecutionState{}, err
	}
	return executionStateFromProto(res), nil
}

// Cancel stops this Execution. Cancelling a finished Execution has no
// effect.
func (e *Execution) Cancel(ctx context.Context) (ExecutionState, error) {
	var res *pb.ExecutionStateProto
	err := e.proxy.rpc.call(ctx, func(ctx context.Context) (err error) {
		res, err = e.proxy.client.CancelExecution(ctx, &pb.ExecutionIdProto{Id: e.id})
		return
	})
	if err != nil {
		return ExecutionState{}, err
	}
	return executionStateFromProto(res), nil
}

// Wait blocks until this Execution finishes or timeout elapses, and
// returns its state then. A zero timeout waits for as long as ctx allows.
func (e *Execution) Wait(ctx context.Context, timeout time.Duration) (ExecutionState, error) {
	req := &pb.WaitForFinishedRequest{Id: e.id, TimeoutMillis: timeout.Milliseconds()}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout+e.proxy.rpc.timeout)
		defer cancel()
	}
	res, err := e.proxy.client.WaitForFinished(ctx, req)
	if err != nil {
		return ExecutionState{}, errors.FromStatus(err)
	}
	return executionStateFromProto(res), nil
}
