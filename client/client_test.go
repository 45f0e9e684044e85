package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/compress"
	"github.com/go-marmot/marmot/config"
	"github.com/go-marmot/marmot/errors"
	"github.com/go-marmot/marmot/internal/memserver"
	"github.com/go-marmot/marmot/plan"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

type testEnv struct {
	client *MarmotClient
	server *memserver.Server
}

func (e *testEnv) close() {
	e.client.Close()
	e.server.Stop()
}

func startTestEnv(t *testing.T, codec string, serverOpts *memserver.Options) *testEnv {
	if serverOpts == nil {
		serverOpts = &memserver.Options{}
	}
	srv, lis := memserver.StartInProcess(serverOpts)
	opts := config.Default()
	opts.ChunkSize = 512
	opts.SyncInterval = 2
	opts.PipeCapacity = 2
	opts.Compression = codec
	opts.LogLevel = "ERROR"
	dialer := grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	})
	c, err := Connect(context.Background(), opts, dialer)
	if err != nil {
		srv.Stop()
	}
	require.Nil(t, err)
	return &testEnv{client: c, server: srv}
}

func testSchema(t *testing.T) *marmot.RecordSchema {
	schema, err := marmot.ParseRecordSchema("id:long,name:string,the_geom:point")
	require.Nil(t, err)
	return schema
}

var geomInfo = &marmot.GeometryColumnInfo{Name: "the_geom", SRID: "EPSG:4326"}

func testRecordSet(t *testing.T, schema *marmot.RecordSchema, n int) (marmot.RecordSet, []*marmot.Record) {
	records := make([]*marmot.Record, n)
	for i := range records {
		rec, err := marmot.NewRecordWithValues(schema, int64(i), fmt.Sprintf("name-%d", i%4), orb.Point{float64(i), float64(i)})
		require.Nil(t, err)
		records[i] = rec
	}
	return marmot.RecordSetFromRecords(schema, records...), records
}

func uploadTestDataSet(t *testing.T, env *testEnv, id string, n int) (marmot.DataSet, []*marmot.Record) {
	rs, records := testRecordSet(t, testSchema(t), n)
	ds, err := env.client.Upload(context.Background(), id, rs, CreateDataSetOptions{GeometryColumn: geomInfo})
	require.Nil(t, err)
	return ds, records
}

func requireSameRecords(t *testing.T, expected []*marmot.Record, rs marmot.RecordSet) {
	actual, err := marmot.CollectRecords(context.Background(), rs)
	require.Nil(t, err)
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.Equal(t, expected[i].Values(), actual[i].Values())
	}
}

func TestCreateAndGetDataSet(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()
	ctx := context.Background()
	proxy := env.client.DataSets()

	ds, err := proxy.CreateDataSet(ctx, "a/b", testSchema(t), CreateDataSetOptions{GeometryColumn: geomInfo, BlockSize: 1024})
	require.Nil(t, err)
	require.Equal(t, "a/b", ds.ID())
	require.EqualValues(t, 1024, ds.Info().BlockSize)
	require.Equal(t, geomInfo, ds.Info().GeometryColumn)

	_, err = proxy.CreateDataSet(ctx, "a/b", testSchema(t), CreateDataSetOptions{})
	require.Equal(t, errors.DataSetExistsError{ID: "a/b"}, err)
	_, err = proxy.CreateDataSet(ctx, "a/b", testSchema(t), CreateDataSetOptions{Force: true})
	require.Nil(t, err)

	got, err := env.client.GetDataSet(ctx, "a/b")
	require.Nil(t, err)
	require.Nil(t, testSchema(t).Equals(got.Info().Schema))

	_, err = proxy.GetDataSet(ctx, "missing")
	require.Equal(t, errors.DataSetNotFoundError{ID: "missing"}, err)
	got, err = proxy.GetDataSetOrNil(ctx, "missing")
	require.Nil(t, err)
	require.Nil(t, got)
}

func TestAppendThenRead(t *testing.T) {
	defer goleak.VerifyNone(t)
	for _, codec := range compress.Names() {
		t.Run(codec, func(t *testing.T) {
			env := startTestEnv(t, codec, nil)
			defer env.close()
			ctx := context.Background()

			ds, records := uploadTestDataSet(t, env, "points", 500)
			require.EqualValues(t, 500, ds.Info().RecordCount)
			require.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{499, 499}}, ds.Info().Bounds)

			rs, err := ds.Read(ctx)
			require.Nil(t, err)
			requireSameRecords(t, records, rs)

			more, extra := testRecordSet(t, testSchema(t), 10)
			count, err := ds.Append(ctx, more)
			require.Nil(t, err)
			require.EqualValues(t, 10, count)
			require.Nil(t, ds.Refresh(ctx))
			require.EqualValues(t, 510, ds.Info().RecordCount)

			rs, err = ds.Read(ctx)
			require.Nil(t, err)
			requireSameRecords(t, append(records, extra...), rs)
		})
	}
}

// brokenRecordSet fails after yielding remaining records
type brokenRecordSet struct {
	marmot.RecordSet
	remaining int
}

func (b *brokenRecordSet) Next(ctx context.Context) (*marmot.Record, error) {
	if b.remaining == 0 {
		return nil, fmt.Errorf("source went away")
	}
	b.remaining--
	return b.RecordSet.Next(ctx)
}

func TestUploadFailureRemovesDataSet(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()
	ctx := context.Background()

	rs, _ := testRecordSet(t, testSchema(t), 50)
	_, err := env.client.Upload(ctx, "broken", &brokenRecordSet{RecordSet: rs, remaining: 20}, CreateDataSetOptions{GeometryColumn: geomInfo})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "source went away")

	ds, err := env.client.DataSets().GetDataSetOrNil(ctx, "broken")
	require.Nil(t, err)
	require.Nil(t, ds)
}

func TestAppendSchemaMismatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()
	ctx := context.Background()
	ds, _ := uploadTestDataSet(t, env, "points", 5)

	other, err := marmot.ParseRecordSchema("id:long")
	require.Nil(t, err)
	rec, err := marmot.NewRecordWithValues(other, int64(1))
	require.Nil(t, err)
	_, err = ds.Append(ctx, marmot.RecordSetFromRecords(other, rec))
	require.NotNil(t, err)

	require.Nil(t, ds.Refresh(ctx))
	require.EqualValues(t, 5, ds.Info().RecordCount)
}

func TestReadMissingDataSet(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()

	_, err := env.client.DataSets().ReadDataSet(context.Background(), "missing")
	var notFound errors.DataSetNotFoundError
	require.True(t, stderrors.As(err, &notFound), "unexpected error %v", err)
	require.Equal(t, "missing", notFound.ID)
}

func TestQueryRange(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.LZ4, nil)
	defer env.close()
	ctx := context.Background()
	ds, records := uploadTestDataSet(t, env, "points", 100)

	rs, err := ds.Query(ctx, orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{19.5, 19.5}})
	require.Nil(t, err)
	requireSameRecords(t, records[10:20], rs)

	rs, err = ds.Query(ctx, orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{50, 50}}, marmot.WithSampleCount(3))
	require.Nil(t, err)
	count, err := marmot.CountRecords(ctx, rs)
	require.Nil(t, err)
	require.EqualValues(t, 3, count)
}

func TestCatalogOperations(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()
	ctx := context.Background()
	proxy := env.client.DataSets()
	for _, id := range []string{"roads/seoul", "roads/busan", "roads/old/daegu", "parks"} {
		uploadTestDataSet(t, env, id, 2)
	}

	folders, err := proxy.ListFolders(ctx)
	require.Nil(t, err)
	require.Equal(t, []string{"roads", "roads/old"}, folders)

	infos, err := proxy.ListDataSetsInFolder(ctx, "roads", false)
	require.Nil(t, err)
	require.Len(t, infos, 2)
	infos, err = proxy.ListDataSetsInFolder(ctx, "roads", true)
	require.Nil(t, err)
	require.Len(t, infos, 3)

	require.Nil(t, proxy.MoveDataSet(ctx, "parks", "green/parks"))
	_, err = proxy.GetDataSet(ctx, "green/parks")
	require.Nil(t, err)
	require.Equal(t, errors.DataSetNotFoundError{ID: "parks"}, proxy.DeleteDataSet(ctx, "parks"))

	length, err := proxy.GetDataSetLength(ctx, "green/parks")
	require.Nil(t, err)
	require.Greater(t, length, int64(0))

	err = proxy.DeleteDataSets(ctx, "roads/seoul", "nope1", "nope2")
	var merr *multierror.Error
	require.True(t, stderrors.As(err, &merr))
	require.Len(t, merr.Errors, 2)

	require.Nil(t, proxy.DeleteFolder(ctx, "roads"))
	infos, err = proxy.ListDataSets(ctx)
	require.Nil(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, "green/parks", infos[0].ID)
}

func TestSpatialIndex(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()
	ctx := context.Background()
	ds, _ := uploadTestDataSet(t, env, "points", 2)

	require.Nil(t, ds.CreateSpatialIndex(ctx, marmot.SpatialIndexOptions{SampleSize: 100}))
	require.True(t, ds.Info().HasSpatialIndex)
	info, err := env.client.DataSets().DeleteSpatialIndex(ctx, "points")
	require.Nil(t, err)
	require.False(t, info.HasSpatialIndex)
}

func TestExecutePlans(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.Zstd, nil)
	defer env.close()
	ctx := context.Background()
	_, records := uploadTestDataSet(t, env, "points", 20)
	plans := env.client.Plans()

	p, err := plan.Build("copy", plan.Load("points"), plan.Filter("name = name-1"), plan.Store("copy", plan.StoreOptions{GeometryColumn: "the_geom"}))
	require.Nil(t, err)
	require.Nil(t, env.client.Execute(ctx, p, ExecuteOptions{Timeout: time.Minute}))
	copied, err := env.client.GetDataSet(ctx, "copy")
	require.Nil(t, err)
	require.EqualValues(t, 5, copied.Info().RecordCount)

	p, err = plan.Build("read", plan.Load("points"), plan.Project("id,name"), plan.Take(3))
	require.Nil(t, err)
	schema, err := plans.GetOutputSchema(ctx, p, nil)
	require.Nil(t, err)
	require.Equal(t, "id:long,name:string", schema.String())

	rs, err := env.client.ExecuteToRecordSet(ctx, p)
	require.Nil(t, err)
	out, err := marmot.CollectRecords(ctx, rs)
	require.Nil(t, err)
	require.Len(t, out, 3)
	for i, rec := range out {
		require.Equal(t, records[i].Values()[:2], rec.Values())
	}

	rec, ok, err := plans.ExecuteToRecord(ctx, p)
	require.Nil(t, err)
	require.True(t, ok)
	require.Equal(t, []interface{}{int64(0), "name-0"}, rec.Values())

	p, err = plan.Build("none", plan.Load("points"), plan.Drop(100))
	require.Nil(t, err)
	_, ok, err = plans.ExecuteToRecord(ctx, p)
	require.Nil(t, err)
	require.False(t, ok)
}

func TestCreateDataSetFromPlan(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()
	ctx := context.Background()
	uploadTestDataSet(t, env, "points", 20)

	p, err := plan.Build("sub", plan.Load("points"), plan.AssignUID("uid"), plan.Take(7))
	require.Nil(t, err)
	ds, err := env.client.DataSets().CreateDataSetFromPlan(ctx, "sub", p, CreateDataSetOptions{GeometryColumn: geomInfo})
	require.Nil(t, err)
	require.EqualValues(t, 7, ds.Info().RecordCount)
	require.True(t, ds.Info().Schema.HasColumn("uid"))
}

func TestUnsupportedOperator(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()
	ctx := context.Background()
	uploadTestDataSet(t, env, "points", 2)

	p, err := plan.Build("sort", plan.Load("points"), plan.Sort(plan.Desc("id")))
	require.Nil(t, err)
	err = env.client.Execute(ctx, p, ExecuteOptions{})
	require.IsType(t, errors.RemoteError{}, err)
}

func TestExecuteOptionsAreValidated(t *testing.T) {
	_, err := ExecuteOptions{MapOutputCompression: "brotli"}.toProto()
	require.Equal(t, errors.UnknownCodecError{Name: "brotli"}, err)
	_, err = ExecuteOptions{Timeout: -time.Second}.toProto()
	require.NotNil(t, err)
	m, err := ExecuteOptions{MapOutputCompression: compress.Snappy, Timeout: 1500 * time.Millisecond}.toProto()
	require.Nil(t, err)
	require.EqualValues(t, 1500, m.TimeoutMillis)
}

func TestExecuteLocally(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.Gzip, nil)
	defer env.close()
	ctx := context.Background()
	plans := env.client.Plans()

	input, records := testRecordSet(t, testSchema(t), 10)
	p, err := plan.Build("local", plan.Load("ignored"), plan.Filter("name = 'name-2'"))
	require.Nil(t, err)
	rs, err := plans.ExecuteLocally(ctx, p, input)
	require.Nil(t, err)
	requireSameRecords(t, []*marmot.Record{records[2], records[6]}, rs)

	infos, err := env.client.DataSets().ListDataSetsInFolder(ctx, TempFolder, true)
	require.Nil(t, err)
	require.Empty(t, infos)
}

func TestExecuteLocallyNeedsLoad(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := startTestEnv(t, compress.None, nil)
	defer env.close()

	input, _ := testRecordSet(t, testSchema(t), 1)
	p, err := plan.Build("text", plan.LoadTextFile("/data/a.txt"))
	require.Nil(t, err)
	_, err = env.client.Plans().ExecuteLocally(context.Background(), p, input)
	require.IsType(t, errors.InvalidPlanError{}, err)
}

func TestStartWaitAndCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	hold := make(chan struct{})
	env := startTestEnv(t, compress.None, &memserver.Options{
		Logger: zap.NewNop(),
		OnExecute: func(ctx context.Context, id string) error {
			if len(id) == 0 {
				return nil
			}
			select {
			case <-hold:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	defer env.close()
	ctx := context.Background()
	uploadTestDataSet(t, env, "points", 4)
	plans := env.client.Plans()

	p, err := plan.Build("copy", plan.Load("points"), plan.Store("copy", plan.StoreOptions{}))
	require.Nil(t, err)

	// released execution
	exec, err := plans.Start(ctx, p, ExecuteOptions{})
	require.Nil(t, err)
	require.NotEmpty(t, exec.ID())
	state, err := exec.State(ctx)
	require.Nil(t, err)
	require.Equal(t, Running, state.Status)
	require.False(t, state.IsFinished())
	close(hold)
	state, err = exec.Wait(ctx, 0)
	require.Nil(t, err)
	require.Equal(t, Completed, state.Status)
	require.Nil(t, state.Failure)
	require.False(t, state.FinishedAt.IsZero())

	// cancelled execution
	hold = make(chan struct{})
	p, err = plan.Build("copy2", plan.Load("points"), plan.Store("copy2", plan.StoreOptions{}))
	require.Nil(t, err)
	exec, err = plans.Start(ctx, p, ExecuteOptions{})
	require.Nil(t, err)
	state, err = exec.Wait(ctx, 20*time.Millisecond)
	require.Nil(t, err)
	require.Equal(t, Running, state.Status)
	state, err = exec.Cancel(ctx)
	require.Nil(t, err)
	require.Equal(t, Cancelled, state.Status)
	state, err = exec.Wait(ctx, 0)
	require.Nil(t, err)
	require.Equal(t, Cancelled, state.Status)
	require.IsType(t, errors.CancelledError{}, state.Failure)
	require.Nil(t, env.client.DataSets().DeleteDataSet(ctx, "copy"))
	_, err = env.client.GetDataSet(ctx, "copy2")
	require.Equal(t, errors.DataSetNotFoundError{ID: "copy2"}, err)

	// failed execution
	p, err = plan.Build("missing", plan.Load("missing"))
	require.Nil(t, err)
	close(hold)
	exec, err = plans.Start(ctx, p, ExecuteOptions{})
	require.Nil(t, err)
	state, err = exec.Wait(ctx, 0)
	require.Nil(t, err)
	require.Equal(t, Failed, state.Status)
	require.Equal(t, errors.DataSetNotFoundError{ID: "missing"}, state.Failure)

	unknown := &Execution{proxy: plans, id: "unknown"}
	_, err = unknown.State(ctx)
	require.Equal(t, errors.ExecutionNotFoundError{ID: "unknown"}, err)
}

func TestStatusNames(t *testing.T) {
	require.Equal(t, "RUNNING", Running.String())
	require.Equal(t, "CANCELLED", Cancelled.String())
	require.Equal(t, "Status(9)", Status(9).String())
}
