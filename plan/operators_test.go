package plan

import (
	"testing"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/geo"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

var seoul = orb.Bound{Min: orb.Point{126.76, 37.42}, Max: orb.Point{127.18, 37.70}}

// single builds a plan of a loader and op, returning op's wire form
func single(t *testing.T, op Operator) *pb.OperatorProto {
	t.Helper()
	p, err := Build("single", Load("input"), op)
	require.Nil(t, err)
	return p.Operators()[1]
}

func singleErr(t *testing.T, op Operator) {
	t.Helper()
	_, err := Build("single", Load("input"), op)
	requireInvalidPlan(t, err)
}

func TestLoaders(t *testing.T) {
	p, err := Build("load", LoadWith(LoadOptions{SplitCount: 4}, "a", "b"))
	require.Nil(t, err)
	m := p.Operators()[0]
	require.Equal(t, []string{"a", "b"}, m.Datasets)
	require.EqualValues(t, 4, m.SplitCount)

	_, err = Build("load", Load())
	requireInvalidPlan(t, err)
	_, err = Build("load", Load("a", " "))
	requireInvalidPlan(t, err)

	p, err = Build("csv", LoadCsvFiles("data/csv", CsvOptions{Delimiter: '|', Header: true, PointColumns: "x,y"}))
	require.Nil(t, err)
	opts := map[string]string{}
	for _, kv := range p.Operators()[0].Options {
		opts[kv.Key] = kv.Value
	}
	require.Equal(t, map[string]string{"delimiter": "|", "header": "true", "point_columns": "x,y"}, opts)

	_, err = Build("csv", LoadCsvFiles("data/csv", CsvOptions{Header: true, HeaderColumns: "a,b"}))
	requireInvalidPlan(t, err)
	_, err = Build("csv", LoadCsvFiles("data/csv", CsvOptions{PointColumns: "x"}))
	requireInvalidPlan(t, err)
}

func TestQuery(t *testing.T) {
	p, err := Build("query", Query("buildings", seoul, QueryOptions{GeohashPrecision: 4, SampleCount: 100}))
	require.Nil(t, err)
	m := p.Operators()[0]
	require.Equal(t, "buildings", m.Dataset)
	require.EqualValues(t, 100, m.Count)
	require.Equal(t, seoul.Min[0], m.Range.MinX)
	require.Equal(t, geo.GeohashCover(seoul, 4), m.Geohashes)
	require.NotEmpty(t, m.Geohashes)

	p, err = Build("query", Query("buildings", seoul, QueryOptions{}))
	require.Nil(t, err)
	require.Empty(t, p.Operators()[0].Geohashes)

	_, err = Build("query", Query("buildings", geo.EmptyBound, QueryOptions{}))
	requireInvalidPlan(t, err)
	_, err = Build("query", Query("buildings", seoul, QueryOptions{GeohashPrecision: 13}))
	requireInvalidPlan(t, err)
}

func TestGridLoaders(t *testing.T) {
	grid := geo.SquareGrid{Bounds: seoul, CellSize: geo.Size{Width: 0.1, Height: 0.1}}
	p, err := Build("grid", LoadSquareGridFile(grid, 8))
	require.Nil(t, err)
	m := p.Operators()[0]
	require.EqualValues(t, 8, m.Grid.PartCount)
	require.Equal(t, 0.1, m.Grid.CellWidth)

	_, err = Build("grid", LoadSquareGridFile(grid, 0))
	requireInvalidPlan(t, err)

	p, err = Build("hex", LoadHexagonGridFile(HexagonGrid{DataSet: "districts", SideLength: 100}, 2))
	require.Nil(t, err)
	require.Equal(t, "districts", p.Operators()[0].Grid.Dataset)
	require.Nil(t, p.Operators()[0].Grid.Bounds)

	// bounds and dataset are mutually exclusive
	_, err = Build("hex", LoadHexagonGridFile(HexagonGrid{Bounds: seoul, DataSet: "districts", SideLength: 100}, 2))
	requireInvalidPlan(t, err)
	_, err = Build("hex", LoadHexagonGridFile(HexagonGrid{SideLength: 100}, 2))
	requireInvalidPlan(t, err)
}

func TestRecordOperators(t *testing.T) {
	m := single(t, FilterSpatially("the_geom", WithinDistance(50), seoul))
	require.Equal(t, "within_distance(50)", m.Relation)
	require.Equal(t, "the_geom", m.GeomColumn)
	singleErr(t, FilterSpatially("the_geom", SpatialRelation{}, seoul))
	singleErr(t, FilterSpatially("", Intersects(), seoul))

	m = single(t, Expand("area:double,len:int", "area = 0"))
	schema, err := marmot.ParseRecordSchema("area:double,len:int")
	require.Nil(t, err)
	require.Len(t, m.Schema.Columns, schema.ColumnCount())
	singleErr(t, Expand("area:nosuchtype", ""))
	singleErr(t, DefineColumn("a:int,b:int", ""))

	m = single(t, Sort(Asc("a"), Desc("b")))
	require.Len(t, m.SortKeys, 2)
	require.True(t, m.SortKeys[1].Descending)
	singleErr(t, Sort())

	singleErr(t, Sample(0))
	singleErr(t, Sample(1.5))
	singleErr(t, Shard(0))
	singleErr(t, Filter("  "))
	singleErr(t, Project("a,*b"))
	singleErr(t, Tee("copy", StoreOptions{Force: true, Append: true}))
	singleErr(t, ParseCsv("text", CsvOptions{}))

	m = single(t, Script("a = b", "b = 1"))
	require.Equal(t, "initializer", m.Options[0].Key)
}

func TestParseSortKeys(t *testing.T) {
	keys, err := ParseSortKeys("a, b:D ,c:asc")
	require.Nil(t, err)
	require.Equal(t, []SortKey{Asc("a"), Desc("b"), Asc("c")}, keys)
	_, err = ParseSortKeys("a:sideways")
	require.NotNil(t, err)
}

func TestColumnSelection(t *testing.T) {
	schema, err := marmot.ParseRecordSchema("the_geom:point,a:int,b:string,c:double")
	require.Nil(t, err)

	sel, err := ParseColumnSelection("*-{a, c}")
	require.Nil(t, err)
	require.Equal(t, "*-{a,c}", sel.String())
	out, err := sel.Apply(schema)
	require.Nil(t, err)
	require.Equal(t, []string{"the_geom", "b"}, out.ColumnNames())

	sel, err = ParseColumnSelection("c,a")
	require.Nil(t, err)
	out, err = sel.Apply(schema)
	require.Nil(t, err)
	require.Equal(t, []string{"c", "a"}, out.ColumnNames())

	sel, err = ParseColumnSelection("*")
	require.Nil(t, err)
	out, err = sel.Apply(schema)
	require.Nil(t, err)
	require.Equal(t, 4, out.ColumnCount())

	sel, err = ParseColumnSelection("*-nope")
	require.Nil(t, err)
	_, err = sel.Apply(schema)
	require.NotNil(t, err)

	_, err = ParseColumnSelection("*-{a")
	require.NotNil(t, err)
	_, err = ParseColumnSelection("")
	require.NotNil(t, err)
}

func TestSpatialRelation(t *testing.T) {
	for _, rel := range []SpatialRelation{Intersects(), WithinDistance(2.5)} {
		parsed, err := ParseSpatialRelation(rel.String())
		require.Nil(t, err)
		require.Equal(t, rel, parsed)
	}
	_, err := ParseSpatialRelation("within_distance(-1)")
	require.NotNil(t, err)
	_, err = ParseSpatialRelation("touches")
	require.NotNil(t, err)
}

func TestAggregates(t *testing.T) {
	m := single(t, Aggregate(Count(), Avg("height").As("avg_height"), ConcatStr("name", ";")))
	require.Len(t, m.Aggregates, 3)
	require.Equal(t, "count", m.Aggregates[0].Output)
	require.Equal(t, "avg_height", m.Aggregates[1].Output)
	require.Equal(t, ";", m.Aggregates[2].Delimiter)

	// two outputs with the same name
	singleErr(t, Aggregate(Max("a"), Max("b")))
	singleErr(t, Aggregate(Sum("")))
	singleErr(t, Aggregate())

	m = single(t, TakeByGroup(GroupBy("k").OrderBy(Desc("v")).Workers(3), 2))
	require.Equal(t, []string{"k"}, m.Columns)
	require.EqualValues(t, 3, m.Join.WorkerCount)
	require.EqualValues(t, 2, m.Count)
	singleErr(t, ListByGroup(GroupBy()))

	m = single(t, ReduceToSingleRecordByGroup(GroupBy("id"), "tag", "value"))
	require.Equal(t, []string{"tag", "value"}, m.ParamColumns)
}

func TestRunPlanByGroup(t *testing.T) {
	m := single(t, RunPlanByGroup(GroupBy("k"), Sort(Desc("v")), Take(1)))
	require.NotNil(t, m.SubPlan)
	require.Len(t, m.SubPlan.Operators, 2)
	require.EqualValues(t, OpSort, m.SubPlan.Operators[0].Kind)

	singleErr(t, RunPlanByGroup(GroupBy("k")))
	singleErr(t, RunPlanByGroup(GroupBy("k"), Load("x")))
	singleErr(t, RunPlanByGroup(GroupBy("k"), LoadTextFile("a.txt"), Take(1)))
	singleErr(t, RunPlanByGroup(GroupBy("k"), Store("x", StoreOptions{})))
}

func TestGeometryOperators(t *testing.T) {
	m := single(t, Buffer("the_geom", 10, Output("buffered"), ThrowOnError()))
	require.Equal(t, "buffered", m.OutColumn)
	require.Equal(t, 10.0, m.Distance)
	require.Equal(t, "throw_on_error", m.Options[0].Key)
	singleErr(t, Buffer("the_geom", -1))

	m = single(t, TransformCrs("the_geom", "EPSG:4326", "EPSG:5186"))
	require.Equal(t, "EPSG:5186", m.ToSrid)

	m = single(t, CastGeometry("the_geom", marmot.MultiPolygonType))
	require.EqualValues(t, marmot.MultiPolygonCode, m.TypeCode)
	singleErr(t, CastGeometry("the_geom", marmot.IntType))

	m = single(t, AttachGeohash("the_geom", "hash", 7))
	require.EqualValues(t, 7, m.Count)
	singleErr(t, AttachGeohash("the_geom", "hash", 0))

	m = single(t, AttachQuadKey("the_geom", []string{"1320", "13"}, "qkey"))
	require.Equal(t, []string{"1320", "13"}, m.QuadKeys)
	singleErr(t, AttachQuadKey("the_geom", []string{"14"}, "qkey"))
	singleErr(t, AttachQuadKey("the_geom", nil, "qkey"))

	grid := geo.SquareGrid{Bounds: seoul, CellSize: geo.Size{Width: 0.01, Height: 0.02}}
	m = single(t, AssignSquareGridCell("the_geom", grid))
	require.Equal(t, 0.02, m.Grid.CellHeight)
	singleErr(t, AssignSquareGridCell("the_geom", geo.SquareGrid{Bounds: seoul}))

	m = single(t, AssignHexagonGridCell("the_geom", seoul, 5))
	require.Equal(t, 5.0, m.Grid.SideLength)

	m = single(t, Intersection("a", "b", "c"))
	require.Equal(t, []string{"a", "b"}, m.Columns)
	singleErr(t, Union("a", "", "c"))
	singleErr(t, Reduce("the_geom", 0))
}

func TestJoins(t *testing.T) {
	m := single(t, HashJoin([]string{"id"}, "other", []string{"other_id"}, JoinOptions{Type: LeftOuterJoin}))
	require.Equal(t, "other", m.ParamDataset)
	require.EqualValues(t, LeftOuterJoin, m.Join.Type)
	require.Empty(t, m.Join.Relation)
	singleErr(t, HashJoin([]string{"id", "x"}, "other", []string{"other_id"}, JoinOptions{}))

	// the relation defaults to intersects
	m = single(t, SpatialJoin("the_geom", "districts", JoinOptions{OutputColumns: "left.*,right.name"}))
	require.Equal(t, "intersects", m.Join.Relation)
	require.Equal(t, "left.*,right.name", m.Join.OutputColumns)

	m = single(t, SpatialKnnJoin("the_geom", "stations", 3, 500, JoinOptions{}))
	require.EqualValues(t, 3, m.Join.K)
	require.Equal(t, 500.0, m.Join.Radius)
	singleErr(t, SpatialKnnJoin("the_geom", "stations", 0, 500, JoinOptions{}))

	m = single(t, SpatialAggregateJoin("the_geom", "stations", JoinOptions{Relation: WithinDistance(10)}, Count()))
	require.Equal(t, "within_distance(10)", m.Join.Relation)
	require.Len(t, m.Aggregates, 1)
	singleErr(t, SpatialSemiJoin("the_geom", "", JoinOptions{}))
	singleErr(t, ClipJoin("the_geom", "x", JoinOptions{Type: JoinType(42)}))
}

func TestClusterOperators(t *testing.T) {
	m := single(t, EstimateQuadKeys(EstimateQuadKeysOptions{GeometryColumn: "the_geom", SampleRatio: 0.1, ClusterSize: 64 << 20}))
	require.Nil(t, m.Range)
	require.Equal(t, 0.1, m.Ratio)
	singleErr(t, EstimateQuadKeys(EstimateQuadKeysOptions{GeometryColumn: "the_geom", SampleRatio: 0, ClusterSize: 1}))

	m = single(t, ClusterByQuadKey("the_geom", []string{"0", "1"}))
	require.Len(t, m.QuadKeys, 2)
	m = single(t, KMeans("the_geom", "cluster", 5, 20))
	require.EqualValues(t, 5, m.Join.K)
	singleErr(t, BuildThumbnail("a", 0))
	singleErr(t, CollectToArrayColumn())
}

func TestStoreOperators(t *testing.T) {
	p, err := Build("store", Load("a"), Store("b", StoreOptions{Append: true, GeometryColumn: "the_geom", Srid: "EPSG:4326", Compression: "zstd"}))
	require.Nil(t, err)
	m := p.Operators()[1]
	require.True(t, m.Store.GetAppend())
	require.Equal(t, "zstd", m.Store.CompressionCodec)

	singleErr(t, Store("b", StoreOptions{Compression: "rar"}))
	singleErr(t, Store("b", StoreOptions{Srid: "EPSG:4326"}))
	singleErr(t, Store("", StoreOptions{}))

	m = single(t, StoreAsCsv("out/csv", CsvOptions{Delimiter: '\t'}))
	require.Equal(t, "\t", m.Store.Delimiter)
	require.Equal(t, "csv", m.Store.Format)

	m = single(t, StoreIntoJdbc("buildings", "jdbc:postgresql://localhost/gis"))
	require.Equal(t, "buildings", m.Store.Target)

	p, err = Build("kafka", Load("a"), StoreIntoKafka("topic"))
	require.Nil(t, err)
	_, ok := p.OutputDataSet()
	require.False(t, ok)
}
