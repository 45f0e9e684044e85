package memserver

import (
	"context"
	"io"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/errors"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/plan"
	"github.com/go-marmot/marmot/recordio"
	"github.com/go-marmot/marmot/stream"
	uuid "github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// execution tracks a plan started with Start
type execution struct {
	id       string
	state    int32
	failure  error
	started  time.Time
	finished time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

// toProto must be called with the Server's execLock held
func (e *execution) toProto() *pb.ExecutionStateProto {
	res := &pb.ExecutionStateProto{
		Id:            e.id,
		State:         e.state,
		Failure:       errors.ToProto(e.failure),
		StartedMillis: e.started.UnixMilli(),
	}
	if !e.finished.IsZero() {
		res.FinishedMillis = e.finished.UnixMilli()
	}
	return res
}

// runPlan executes p to completion under the execution limit
func (s *Server) runPlan(ctx context.Context, id string, p *plan.Plan) (*frame, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	if s.opts.OnExecute != nil {
		if err := s.opts.OnExecute(ctx, id); err != nil {
			return nil, err
		}
	}
	s.opts.Logger.Debug("Executing plan", zap.String("execution", id), zap.Stringer("plan", p))
	return s.executor.run(ctx, p, nil, true)
}

func (s *Server) execute(ctx context.Context, id string, p *plan.Plan) error {
	_, err := s.runPlan(ctx, id, p)
	return err
}

func (s *Server) lookupExecution(id string) (*execution, error) {
	s.execLock.Lock()
	defer s.execLock.Unlock()
	exec, ok := s.execs[id]
	if !ok {
		return nil, errors.ExecutionNotFoundError{ID: id}
	}
	return exec, nil
}

func (s *Server) executionState(exec *execution) *pb.ExecutionStateProto {
	s.execLock.Lock()
	defer s.execLock.Unlock()
	return exec.toProto()
}

// start runs p in the background. The execution outlives the request which
// started it, but not the Server.
func (s *Server) start(p *plan.Plan, timeout time.Duration) (*execution, error) {
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(s.ctx, timeout)
	exec := &execution{
		id:      uid.String(),
		state:   pb.ExecutionRunning,
		started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.execLock.Lock()
	s.execs[exec.id] = exec
	s.execLock.Unlock()

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		defer cancel()
		err := s.execute(ctx, exec.id, p)
		s.finish(exec, err)
	}()
	return exec, nil
}

func (s *Server) finish(exec *execution, err error) {
	s.execLock.Lock()
	defer s.execLock.Unlock()
	defer close(exec.done)
	if exec.state != pb.ExecutionRunning {
		// already cancelled
		return
	}
	exec.finished = time.Now()
	switch {
	case err == nil:
		exec.state = pb.ExecutionCompleted
	case s.ctx.Err() != nil:
		exec.state = pb.ExecutionCancelled
		exec.failure = errors.CancelledError{Reason: "server stopped"}
	default:
		exec.state = pb.ExecutionFailed
		exec.failure = err
	}
	s.opts.Logger.Debug("Execution finished", zap.String("execution", exec.id), zap.Int32("state", exec.state), zap.Error(err))
}

// cancelExecution marks exec cancelled right away; its plan stops at the
// next operator boundary
func (s *Server) cancelExecution(exec *execution) *pb.ExecutionStateProto {
	s.execLock.Lock()
	defer s.execLock.Unlock()
	if exec.state == pb.ExecutionRunning {
		exec.state = pb.ExecutionCancelled
		exec.failure = errors.CancelledError{Reason: "cancelled by client"}
		exec.finished = time.Now()
		exec.cancel()
	}
	return exec.toProto()
}

type executionServer struct {
	server *Server
}

func timeoutOf(m *pb.ExecuteOptionsProto) time.Duration {
	return time.Duration(m.GetTimeoutMillis()) * time.Millisecond
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// GetOutputSchema computes a plan's output schema without touching any
// records. An input schema replaces the output of the plan's loader.
func (s *executionServer) GetOutputSchema(ctx context.Context, req *pb.GetOutputSchemaRequest) (*pb.RecordSchemaProto, error) {
	p, err := plan.FromProto(req.Plan)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	var input *frame
	if req.InputSchema != nil {
		schema, err := pbconv.SchemaFromProto(req.InputSchema)
		if err != nil {
			return nil, errors.ToStatus(err)
		}
		input = &frame{schema: schema}
	}
	out, err := s.server.executor.run(ctx, p, input, false)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	return pbconv.SchemaToProto(out.schema), nil
}

func (s *executionServer) Execute(ctx context.Context, req *pb.ExecutePlanRequest) (*pb.ExecutionStateProto, error) {
	p, err := plan.FromProto(req.Plan)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	ctx, cancel := withTimeout(ctx, timeoutOf(req.Options))
	defer cancel()
	started := time.Now()
	if err := s.server.execute(ctx, "", p); err != nil {
		return nil, errors.ToStatus(err)
	}
	return &pb.ExecutionStateProto{
		State:          pb.ExecutionCompleted,
		StartedMillis:  started.UnixMilli(),
		FinishedMillis: time.Now().UnixMilli(),
	}, nil
}

// ExecuteToRecord returns the first output record, if any
func (s *executionServer) ExecuteToRecord(ctx context.Context, req *pb.ExecutePlanRequest) (*pb.OptionalRecordProto, error) {
	p, err := plan.FromProto(req.Plan)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	ctx, cancel := withTimeout(ctx, timeoutOf(req.Options))
	defer cancel()
	out, err := s.server.runPlan(ctx, "", p)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	if len(out.records) == 0 {
		return &pb.OptionalRecordProto{}, nil
	}
	rec, err := pbconv.RecordToProto(out.records[0])
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	return &pb.OptionalRecordProto{Record: rec, Present: true}, nil
}

// ExecuteToRecordSet streams the output records of the plan carried in the
// stream header
func (s *executionServer) ExecuteToRecordSet(cs pb.ChunkStreamServer) error {
	return stream.ServeDownload(cs, s.server.opts.Stream, func(ctx context.Context, header *stream.Header) (io.Reader, error) {
		req := &pb.ExecutePlanRequest{}
		if err := header.Unmarshal(req); err != nil {
			return nil, err
		}
		p, err := plan.FromProto(req.Plan)
		if err != nil {
			return nil, err
		}
		// the deadline covers the execution, not the download of its output
		runCtx, cancel := withTimeout(ctx, timeoutOf(req.Options))
		defer cancel()
		out, err := s.server.runPlan(runCtx, "", p)
		if err != nil {
			return nil, err
		}
		return recordio.Pipe(ctx, marmot.RecordSetFromRecords(out.schema, out.records...)), nil
	})
}

func (s *executionServer) Start(ctx context.Context, req *pb.ExecutePlanRequest) (*pb.ExecutionStateProto, error) {
	p, err := plan.FromProto(req.Plan)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	exec, err := s.server.start(p, timeoutOf(req.Options))
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	s.server.opts.Logger.Debug("Started execution", zap.String("execution", exec.id))
	return s.server.executionState(exec), nil
}

func (s *executionServer) GetExecutionState(ctx context.Context, req *pb.ExecutionIdProto) (*pb.ExecutionStateProto, error) {
	exec, err := s.server.lookupExecution(req.Id)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	return s.server.executionState(exec), nil
}

// CancelExecution has no effect on a finished execution
func (s *executionServer) CancelExecution(ctx context.Context, req *pb.ExecutionIdProto) (*pb.ExecutionStateProto, error) {
	exec, err := s.server.lookupExecution(req.Id)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	return s.server.cancelExecution(exec), nil
}

// WaitForFinished blocks until the execution finishes or the timeout
// elapses, then reports its state. A zero timeout waits indefinitely.
func (s *executionServer) WaitForFinished(ctx context.Context, req *pb.WaitForFinishedRequest) (*pb.ExecutionStateProto, error) {
	exec, err := s.server.lookupExecution(req.Id)
	if err != nil {
		return nil, errors.ToStatus(err)
	}
	var expired <-chan time.Time
	if req.TimeoutMillis > 0 {
		timer := time.NewTimer(time.Duration(req.TimeoutMillis) * time.Millisecond)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case <-exec.done:
	case <-expired:
	case <-ctx.Done():
		return nil, errors.ToStatus(ctx.Err())
	}
	return s.server.executionState(exec), nil
}
