// Package memserver is an in-memory implementation of the Marmot dataset
// and plan execution services. It keeps datasets as record slices and
// evaluates only a handful of operators, enough to exercise clients and
// the streaming protocol end to end.
package memserver

import (
	"context"
	"fmt"
	"net"
	"sync"

	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/logging"
	"github.com/go-marmot/marmot/stream"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// DefaultMaxExecutions bounds the number of plans executing at once
const DefaultMaxExecutions = 4

// Options configures a Server
type Options struct {
	MaxExecutions int64          // MaxExecutions bounds the number of plans executing at once
	Stream        stream.Options // Stream configures the server half of every stream
	Logger        *zap.Logger
	// OnExecute, if set, is called before each plan runs. Tests use it to hold
	// or fail executions.
	OnExecute func(ctx context.Context, id string) error
}

func ensureDefaultOptions(opts *Options) {
	if opts.MaxExecutions <= 0 {
		opts.MaxExecutions = DefaultMaxExecutions
	}
	opts.Logger = logging.OrNop(opts.Logger)
	if opts.Stream.Logger == nil {
		opts.Stream.Logger = opts.Logger
	}
}

// Server serves both Marmot services from memory
type Server struct {
	opts      *Options
	server    *grpc.Server
	catalog   *catalog
	executor  *executor
	sem       *semaphore.Weighted
	ctx       context.Context
	cancel    context.CancelFunc
	execLock  sync.Mutex
	execs     map[string]*execution
	running   sync.WaitGroup
	stopOnce  sync.Once
	dataSets  *dataSetServer
	execution *executionServer
}

// New creates a Server. opts may be nil.
func New(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	ensureDefaultOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:    opts,
		catalog: newCatalog(),
		sem:     semaphore.NewWeighted(opts.MaxExecutions),
		ctx:     ctx,
		cancel:  cancel,
		execs:   make(map[string]*execution),
	}
	s.executor = &executor{catalog: s.catalog, logger: opts.Logger}
	s.dataSets = &dataSetServer{server: s}
	s.execution = &executionServer{server: s}
	s.server = grpc.NewServer()
	pb.RegisterDataSetServiceServer(s.server, s.dataSets)
	pb.RegisterPlanExecutionServiceServer(s.server, s.execution)
	return s
}

// Serve accepts connections on lis, blocking until the Server stops
func (s *Server) Serve(lis net.Listener) error {
	s.opts.Logger.Info("Starting Marmot test server", zap.String("addr", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop cancels every running execution, waits for them, and closes all
// connections
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.opts.Logger.Info("Stopping Marmot test server")
		s.cancel()
		s.server.Stop()
		s.running.Wait()
	})
}

// StartInProcess starts a Server on an in-memory listener. Clients connect
// with grpc.WithContextDialer and the listener's DialContext.
func StartInProcess(opts *Options) (*Server, *bufconn.Listener) {
	s := New(opts)
	lis := bufconn.Listen(1 << 20)
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		if err := s.Serve(lis); err != nil {
			s.opts.Logger.Debug("Test server stopped", zap.Error(err))
		}
	}()
	return s, lis
}
