package recordio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestReadJSONL(t *testing.T) {
	ctx := context.Background()
	schema, err := marmot.NewSchemaBuilder().
		AddColumn("name", marmot.StringType).
		AddColumn("meta.index", marmot.ByteType).
		AddColumn("meta.last", marmot.StringType).
		AddColumn("visited", marmot.DateTimeType).
		AddColumn("loc", marmot.PointType).
		Build()
	require.Nil(t, err)

	data := strings.Join([]string{
		`# exported people`,
		`{"name": "Sean", "meta": {"index": 1, "last": "McIntyre"}, "visited": "2020-01-02T03:04:05Z", "loc": [126.97, 37.56]}`,
		``,
		`{"name": "Chris", "meta": {"index": 3}, "loc": {"type": "Point", "coordinates": [1, 2]}}`,
		`{"name": "Phil", "meta": {"index": 2, "last": "Laliberté"}, "visited": 1577934245000, "loc": null}`,
	}, "\n")
	rs := ReadJSONL(strings.NewReader(data), schema, &JSONLOptions{Comment: '#'})
	records, err := marmot.CollectRecords(ctx, rs)
	require.Nil(t, err)
	require.Len(t, records, 3)

	visited := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.Equal(t, []interface{}{"Sean", int8(1), "McIntyre", visited, orb.Point{126.97, 37.56}}, records[0].Values())
	require.Equal(t, []interface{}{"Chris", int8(3), nil, nil, orb.Point{1, 2}}, records[1].Values())
	require.Equal(t, "Laliberté", records[2].Get(2))
	require.True(t, visited.Equal(records[2].Get(3).(time.Time)))
	require.Nil(t, records[2].Get(4))
}

func TestReadJSONLHeaderLines(t *testing.T) {
	ctx := context.Background()
	schema, err := marmot.NewSchemaBuilder().AddColumn("n", marmot.LongType).Build()
	require.Nil(t, err)
	rs := ReadJSONL(strings.NewReader("not json\n{\"n\": 1}\n{\"n\": 2}\n"), schema, &JSONLOptions{HeaderLines: 1})
	count, err := marmot.CountRecords(ctx, rs)
	require.Nil(t, err)
	require.EqualValues(t, 2, count)
}

func TestReadJSONLErrors(t *testing.T) {
	ctx := context.Background()
	schema, err := marmot.NewSchemaBuilder().
		AddColumn("n", marmot.IntType).
		AddColumn("area", marmot.PolygonType).
		Build()
	require.Nil(t, err)

	for _, line := range []string{
		`{"n": "three"}`,
		`{"n": 1.5}`,
		`{"n": 1, "area": [1, 2]}`,
		`{"n": 1, "area": {"type": "Point", "coordinates": [1, 2]}}`,
		`{"n": `,
	} {
		rs := ReadJSONL(strings.NewReader(line), schema, nil)
		_, err := rs.Next(ctx)
		require.NotNil(t, err, line)
		require.Contains(t, err.Error(), "line 1")
		require.Nil(t, rs.Close())
	}
}
