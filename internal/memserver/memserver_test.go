package memserver

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/go-marmot/marmot/plan"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func testSchema(t *testing.T) *marmot.RecordSchema {
	schema, err := marmot.ParseRecordSchema("id:long,name:string,the_geom:point")
	require.Nil(t, err)
	return schema
}

func testRecords(t *testing.T, schema *marmot.RecordSchema, n int) []*marmot.Record {
	records := make([]*marmot.Record, n)
	for i := range records {
		rec, err := marmot.NewRecordWithValues(schema, int64(i), fmt.Sprintf("name-%d", i%3), orb.Point{float64(i), float64(i)})
		require.Nil(t, err)
		records[i] = rec
	}
	return records
}

func createTestDataSet(t *testing.T, c *catalog, id string, n int) *marmot.RecordSchema {
	schema := testSchema(t)
	_, err := c.create(id, schema, createOptions{geometryColumn: &marmot.GeometryColumnInfo{Name: "the_geom", SRID: "EPSG:4326"}})
	require.Nil(t, err)
	_, err = c.appendRecords(id, testRecords(t, schema, n))
	require.Nil(t, err)
	return schema
}

func TestCatalogCreate(t *testing.T) {
	c := newCatalog()
	createTestDataSet(t, c, "/a/b/c/", 10)

	info, err := c.info("a/b/c")
	require.Nil(t, err)
	require.Equal(t, "a/b/c", info.ID)
	require.EqualValues(t, 10, info.RecordCount)
	require.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{9, 9}}, info.Bounds)

	_, err = c.create("a/b/c", info.Schema, createOptions{})
	require.Equal(t, errors.DataSetExistsError{ID: "a/b/c"}, err)
	info, err = c.create("a/b/c", info.Schema, createOptions{force: true})
	require.Nil(t, err)
	require.EqualValues(t, 0, info.RecordCount)

	_, err = c.create(" ", info.Schema, createOptions{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCatalogGeometryColumnIsChecked(t *testing.T) {
	c := newCatalog()
	schema := testSchema(t)
	_, err := c.create("x", schema, createOptions{geometryColumn: &marmot.GeometryColumnInfo{Name: "missing"}})
	require.Equal(t, errors.ColumnNotFoundError{Name: "missing"}, err)
	_, err = c.create("x", schema, createOptions{geometryColumn: &marmot.GeometryColumnInfo{Name: "name"}})
	require.IsType(t, errors.TypeMismatchError{}, err)
}

func TestCatalogFolders(t *testing.T) {
	c := newCatalog()
	for _, id := range []string{"a/b/c", "a/b/d", "a/e", "f"} {
		createTestDataSet(t, c, id, 1)
	}
	require.Equal(t, []string{"a", "a/b"}, c.folders())

	ids := func(infos []*marmot.DataSetInfo) []string {
		res := make([]string, len(infos))
		for i, info := range infos {
			res[i] = info.ID
		}
		return res
	}
	require.Equal(t, []string{"a/e"}, ids(c.listInFolder("a", false)))
	require.Equal(t, []string{"a/b/c", "a/b/d", "a/e"}, ids(c.listInFolder("a", true)))
	require.Equal(t, []string{"a/b/c", "a/b/d", "a/e", "f"}, ids(c.list(nil)))

	require.Equal(t, 2, c.removeFolder("a/b"))
	require.Equal(t, []string{"a/e", "f"}, ids(c.list(nil)))
}

func TestCatalogMove(t *testing.T) {
	c := newCatalog()
	createTestDataSet(t, c, "a", 3)
	createTestDataSet(t, c, "b", 3)

	require.Equal(t, errors.DataSetExistsError{ID: "b"}, c.move("a", "b"))
	require.Equal(t, errors.DataSetNotFoundError{ID: "z"}, c.move("z", "y"))
	require.Nil(t, c.move("a", "x/a"))
	_, err := c.info("a")
	require.Equal(t, errors.DataSetNotFoundError{ID: "a"}, err)
	info, err := c.info("x/a")
	require.Nil(t, err)
	require.EqualValues(t, 3, info.RecordCount)
	require.Equal(t, "/marmot/datasets/x/a", info.HdfsPath)
}

func TestCatalogAppendChecksSchema(t *testing.T) {
	c := newCatalog()
	createTestDataSet(t, c, "a", 3)
	other, err := marmot.ParseRecordSchema("id:long")
	require.Nil(t, err)
	rec, err := marmot.NewRecordWithValues(other, int64(1))
	require.Nil(t, err)
	_, err = c.appendRecords("a", []*marmot.Record{rec})
	require.NotNil(t, err)
	info, err := c.info("a")
	require.Nil(t, err)
	require.EqualValues(t, 3, info.RecordCount)
}

func TestCatalogSnapshotIsStable(t *testing.T) {
	c := newCatalog()
	schema := createTestDataSet(t, c, "a", 3)
	_, snapshot, err := c.lookup("a")
	require.Nil(t, err)
	_, err = c.appendRecords("a", testRecords(t, schema, 2))
	require.Nil(t, err)
	require.Len(t, snapshot, 3)
}

func TestSpatialIndexNeedsGeometry(t *testing.T) {
	c := newCatalog()
	schema, err := marmot.ParseRecordSchema("id:long")
	require.Nil(t, err)
	_, err = c.create("plain", schema, createOptions{})
	require.Nil(t, err)
	_, err = c.setSpatialIndex("plain", true)
	require.IsType(t, errors.ColumnNotFoundError{}, err)

	createTestDataSet(t, c, "geo", 1)
	info, err := c.setSpatialIndex("geo", true)
	require.Nil(t, err)
	require.True(t, info.HasSpatialIndex)
}

func buildPlan(t *testing.T, ops ...plan.Operator) *plan.Plan {
	p, err := plan.Build("test", ops...)
	require.Nil(t, err)
	return p
}

func TestExecutor(t *testing.T) {
	ctx := context.Background()
	e := &executor{catalog: newCatalog()}
	createTestDataSet(t, e.catalog, "src", 10)

	out, err := e.run(ctx, buildPlan(t,
		plan.Load("src"),
		plan.Filter("name = 'name-1'"),
		plan.Project("id,name"),
		plan.Rename("id", "key"),
		plan.AssignUID("seq"),
		plan.Drop(1),
		plan.Take(2),
	), nil, true)
	require.Nil(t, err)
	require.Equal(t, "key:long,name:string,seq:long", out.schema.String())
	require.Len(t, out.records, 2)
	require.Equal(t, []interface{}{int64(4), "name-1", int64(1)}, out.records[0].Values())
	require.Equal(t, []interface{}{int64(7), "name-1", int64(2)}, out.records[1].Values())
}

func TestExecutorSchemaOnly(t *testing.T) {
	ctx := context.Background()
	e := &executor{catalog: newCatalog()}
	createTestDataSet(t, e.catalog, "src", 10)

	out, err := e.run(ctx, buildPlan(t, plan.Load("src"), plan.Project("*-{the_geom}")), nil, false)
	require.Nil(t, err)
	require.Equal(t, "id:long,name:string", out.schema.String())
	require.Empty(t, out.records)

	// a substituted input replaces the loader's output
	input, err := marmot.ParseRecordSchema("a:int,b:double")
	require.Nil(t, err)
	out, err = e.run(ctx, buildPlan(t, plan.Load("missing"), plan.Project("b")), &frame{schema: input}, false)
	require.Nil(t, err)
	require.Equal(t, "b:double", out.schema.String())
}

func TestExecutorStore(t *testing.T) {
	ctx := context.Background()
	e := &executor{catalog: newCatalog()}
	createTestDataSet(t, e.catalog, "src", 10)

	out, err := e.run(ctx, buildPlan(t,
		plan.Load("src"),
		plan.Take(4),
		plan.StoreAndReturnCount("dst", plan.StoreOptions{GeometryColumn: "the_geom", Srid: "EPSG:4326"}),
	), nil, true)
	require.Nil(t, err)
	require.Len(t, out.records, 1)
	require.Equal(t, int64(4), out.records[0].Get(0))

	info, err := e.catalog.info("dst")
	require.Nil(t, err)
	require.EqualValues(t, 4, info.RecordCount)
	require.Equal(t, "the_geom", info.GeometryColumn.Name)

	_, err = e.run(ctx, buildPlan(t, plan.Load("src"), plan.Store("dst", plan.StoreOptions{})), nil, true)
	require.Equal(t, errors.DataSetExistsError{ID: "dst"}, err)
	_, err = e.run(ctx, buildPlan(t, plan.Load("src"), plan.Store("dst", plan.StoreOptions{Append: true})), nil, true)
	require.Nil(t, err)
	info, err = e.catalog.info("dst")
	require.Nil(t, err)
	require.EqualValues(t, 14, info.RecordCount)
}

func TestExecutorStoreFailureRemovesDataSet(t *testing.T) {
	ctx := context.Background()
	e := &executor{catalog: newCatalog()}
	other, err := marmot.ParseRecordSchema("id:long")
	require.Nil(t, err)
	rec, err := marmot.NewRecordWithValues(other, int64(1))
	require.Nil(t, err)

	store := e.store(&pb.OperatorProto{Kind: int32(plan.OpStore), Dataset: "dst"}, false)
	_, err = store(ctx, &frame{schema: testSchema(t), records: []*marmot.Record{rec}}, true)
	require.NotNil(t, err)
	_, err = e.catalog.info("dst")
	require.Equal(t, errors.DataSetNotFoundError{ID: "dst"}, err)

	createTestDataSet(t, e.catalog, "kept", 3)
	appendTo := e.store(&pb.OperatorProto{Kind: int32(plan.OpStore), Dataset: "kept", Store: &pb.StoreOptionsProto{Append: true}}, false)
	_, err = appendTo(ctx, &frame{schema: testSchema(t), records: []*marmot.Record{rec}}, true)
	require.NotNil(t, err)
	info, err := e.catalog.info("kept")
	require.Nil(t, err)
	require.EqualValues(t, 3, info.RecordCount)
}

func TestExecutorUnsupported(t *testing.T) {
	ctx := context.Background()
	e := &executor{catalog: newCatalog()}
	createTestDataSet(t, e.catalog, "src", 1)

	_, err := e.run(ctx, buildPlan(t, plan.Load("src"), plan.Sort(plan.Asc("id"))), nil, true)
	require.Equal(t, codes.Unimplemented, status.Code(err))
	_, err = e.run(ctx, buildPlan(t, plan.Load("src"), plan.Filter("id > 3")), nil, true)
	require.Equal(t, codes.Unimplemented, status.Code(err))
	_, err = e.run(ctx, buildPlan(t, plan.Load("src"), plan.Filter("missing = 3")), nil, true)
	require.Equal(t, errors.ColumnNotFoundError{Name: "missing"}, err)
	_, err = e.run(ctx, buildPlan(t, plan.Load("nowhere")), nil, true)
	require.Equal(t, errors.DataSetNotFoundError{ID: "nowhere"}, err)
}

func executeRequest(t *testing.T, p *plan.Plan) *pb.ExecutePlanRequest {
	return &pb.ExecutePlanRequest{Plan: p.ToProto()}
}

func TestStartAndWait(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	s := New(nil)
	defer s.Stop()
	createTestDataSet(t, s.catalog, "src", 5)

	state, err := s.execution.Start(ctx, executeRequest(t, buildPlan(t, plan.Load("src"), plan.Store("dst", plan.StoreOptions{}))))
	require.Nil(t, err)
	require.NotEmpty(t, state.Id)

	state, err = s.execution.WaitForFinished(ctx, &pb.WaitForFinishedRequest{Id: state.Id})
	require.Nil(t, err)
	require.Equal(t, pb.ExecutionCompleted, state.State)
	require.Nil(t, state.Failure)
	require.GreaterOrEqual(t, state.FinishedMillis, state.StartedMillis)

	info, err := s.catalog.info("dst")
	require.Nil(t, err)
	require.EqualValues(t, 5, info.RecordCount)
}

func TestStartFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	s := New(nil)
	defer s.Stop()

	state, err := s.execution.Start(ctx, executeRequest(t, buildPlan(t, plan.Load("missing"))))
	require.Nil(t, err)
	state, err = s.execution.WaitForFinished(ctx, &pb.WaitForFinishedRequest{Id: state.Id})
	require.Nil(t, err)
	require.Equal(t, pb.ExecutionFailed, state.State)
	require.Equal(t, errors.DataSetNotFoundError{ID: "missing"}, errors.FromProto(state.Failure))
}

func TestCancelExecution(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	entered := make(chan struct{})
	s := New(&Options{OnExecute: func(ctx context.Context, id string) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	}})
	defer s.Stop()
	createTestDataSet(t, s.catalog, "src", 5)

	state, err := s.execution.Start(ctx, executeRequest(t, buildPlan(t, plan.Load("src"))))
	require.Nil(t, err)
	<-entered

	// still running
	waited, err := s.execution.WaitForFinished(ctx, &pb.WaitForFinishedRequest{Id: state.Id, TimeoutMillis: 10})
	require.Nil(t, err)
	require.Equal(t, pb.ExecutionRunning, waited.State)

	cancelled, err := s.execution.CancelExecution(ctx, &pb.ExecutionIdProto{Id: state.Id})
	require.Nil(t, err)
	require.Equal(t, pb.ExecutionCancelled, cancelled.State)

	waited, err = s.execution.WaitForFinished(ctx, &pb.WaitForFinishedRequest{Id: state.Id})
	require.Nil(t, err)
	require.Equal(t, pb.ExecutionCancelled, waited.State)
	require.IsType(t, errors.CancelledError{}, errors.FromProto(waited.Failure))
}

func TestStopCancelsExecutions(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	entered := make(chan struct{})
	s := New(&Options{OnExecute: func(ctx context.Context, id string) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	}})
	createTestDataSet(t, s.catalog, "src", 1)

	state, err := s.execution.Start(ctx, executeRequest(t, buildPlan(t, plan.Load("src"))))
	require.Nil(t, err)
	<-entered
	s.Stop()

	state, err = s.execution.GetExecutionState(ctx, &pb.ExecutionIdProto{Id: state.Id})
	require.Nil(t, err)
	require.Equal(t, pb.ExecutionCancelled, state.State)
}

func TestExecutionTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	s := New(&Options{OnExecute: func(ctx context.Context, id string) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	defer s.Stop()
	createTestDataSet(t, s.catalog, "src", 1)

	req := executeRequest(t, buildPlan(t, plan.Load("src")))
	req.Options = &pb.ExecuteOptionsProto{TimeoutMillis: 20}
	start := time.Now()
	_, err := s.execution.Execute(ctx, req)
	require.NotNil(t, err)
	require.Less(t, int64(time.Since(start)), int64(5*time.Second))
}

func TestUnknownExecution(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	defer s.Stop()
	_, err := s.execution.GetExecutionState(ctx, &pb.ExecutionIdProto{Id: "nope"})
	require.Equal(t, errors.ExecutionNotFoundError{ID: "nope"}, errors.FromStatus(err))
	_, err = s.execution.CancelExecution(ctx, &pb.ExecutionIdProto{Id: "nope"})
	require.Equal(t, errors.ExecutionNotFoundError{ID: "nope"}, errors.FromStatus(err))
}

func TestExecuteToRecord(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	defer s.Stop()
	createTestDataSet(t, s.catalog, "src", 5)

	res, err := s.execution.ExecuteToRecord(ctx, executeRequest(t, buildPlan(t, plan.Load("src"), plan.Drop(2))))
	require.Nil(t, err)
	require.True(t, res.Present)
	require.NotNil(t, res.Record)

	res, err = s.execution.ExecuteToRecord(ctx, executeRequest(t, buildPlan(t, plan.Load("src"), plan.Drop(10))))
	require.Nil(t, err)
	require.False(t, res.Present)
}

func TestCreateDataSetFromPlan(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	defer s.Stop()
	createTestDataSet(t, s.catalog, "src", 5)

	req := &pb.CreateDataSetFromPlanRequest{
		Id:   "dst",
		Plan: buildPlan(t, plan.Load("src"), plan.Take(3)).ToProto(),
		Options: &pb.CreateDataSetOptionsProto{
			GeometryColumn: &pb.GeometryColumnInfoProto{Name: "the_geom", Srid: "EPSG:4326"},
		},
	}
	info, err := s.dataSets.CreateDataSetFromPlan(ctx, req)
	require.Nil(t, err)
	require.Equal(t, "dst", info.Id)
	require.EqualValues(t, 3, info.RecordCount)

	req.Plan = buildPlan(t, plan.Load("src"), plan.Store("x", plan.StoreOptions{})).ToProto()
	_, err = s.dataSets.CreateDataSetFromPlan(ctx, req)
	require.IsType(t, errors.InvalidPlanError{}, errors.FromStatus(err))
}

func TestSafeStepRecoversPanics(t *testing.T) {
	s := safeStep(plan.OpFilter, func(context.Context, *frame, bool) (*frame, error) {
		panic("boom")
	})
	_, err := s(context.Background(), nil, true)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "boom")
	require.Contains(t, err.Error(), plan.OpFilter.String())
}

func TestExecutorLogsStatistics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := &executor{catalog: newCatalog(), logger: zap.New(core)}
	createTestDataSet(t, e.catalog, "src", 10)

	_, err := e.run(context.Background(), buildPlan(t, plan.Load("src"), plan.Take(4)), nil, true)
	require.Nil(t, err)
	entries := logs.FilterMessage("Evaluated plan").All()
	require.Len(t, entries, 1)
	ctxMap := entries[0].ContextMap()
	require.Equal(t, "test", ctxMap["plan"])
	operators, ok := ctxMap["operators"].([]interface{})
	require.True(t, ok)
	require.Len(t, operators, 2)
	require.Equal(t, 4, operators[1].(map[string]interface{})["records"])
}
