package marmot

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-marmot/marmot/errors"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestRecordSetAndGet(t *testing.T) {
	schema := createTestSchema(t)
	r := NewRecord(schema)
	require.Nil(t, r.SetAll(int64(1), "a", 2.5, orb.Point{1, 2}))

	id, err := r.GetLong("id")
	require.Nil(t, err)
	require.EqualValues(t, 1, id)
	name, err := r.GetString("NAME")
	require.Nil(t, err)
	require.Equal(t, "a", name)
	geom, err := r.GetGeometry("the_geom")
	require.Nil(t, err)
	require.Equal(t, orb.Point{1, 2}, geom)
	require.Equal(t, "{id:1, name:a, score:2.5, the_geom:POINT(1 2)}", r.String())
}

func TestRecordCoercesLiterals(t *testing.T) {
	schema := createTestSchema(t)
	r := NewRecord(schema)
	require.Nil(t, r.SetByName("id", 42))
	require.Equal(t, int64(42), r.Get(0))
	require.Nil(t, r.SetByName("score", 3))
	require.Equal(t, float64(3), r.Get(2))
}

func TestRecordTypeMismatch(t *testing.T) {
	schema := createTestSchema(t)
	r := NewRecord(schema)
	err := r.SetByName("name", 12)
	require.IsType(t, errors.TypeMismatchError{}, err)
	err = r.SetByName("the_geom", orb.LineString{{0, 0}, {1, 1}})
	require.IsType(t, errors.TypeMismatchError{}, err)
	err = r.SetByName("nope", 1)
	require.IsType(t, errors.ColumnNotFoundError{}, err)
	require.NotNil(t, r.SetAll(int64(1)))
}

func TestRecordNulls(t *testing.T) {
	schema := createTestSchema(t)
	r := NewRecord(schema)
	isNull, err := r.IsNull("score")
	require.Nil(t, err)
	require.True(t, isNull)
	_, err = r.GetDouble("score")
	require.IsType(t, errors.NilValueError{}, err)
	require.Nil(t, r.SetByName("score", nil))
	require.Contains(t, r.String(), "score:null")
}

func TestRecordCopyIsIndependent(t *testing.T) {
	schema := createTestSchema(t)
	r, err := NewRecordWithValues(schema, int64(1), "a", 1.0, nil)
	require.Nil(t, err)
	c := r.Copy()
	require.Nil(t, c.SetByName("name", "b"))
	name, err := r.GetString("name")
	require.Nil(t, err)
	require.Equal(t, "a", name)
}

func TestRecordTemporalValues(t *testing.T) {
	schema, err := NewSchemaBuilder().
		AddColumn("ts", DateTimeType).
		AddColumn("span", IntervalType).
		Build()
	require.Nil(t, err)
	now := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	r, err := NewRecordWithValues(schema, now, Interval{Start: now, End: now.Add(time.Hour)})
	require.Nil(t, err)
	ts, err := r.GetDateTime("ts")
	require.Nil(t, err)
	require.True(t, now.Equal(ts))
	span, err := r.GetByName("span")
	require.Nil(t, err)
	require.True(t, span.(Interval).Contains(now.Add(time.Minute)))
}

func TestRecordSetFromRecords(t *testing.T) {
	schema := createTestSchema(t)
	var records []*Record
	for i := 0; i < 5; i++ {
		r, err := NewRecordWithValues(schema, int64(i), "x", float64(i), orb.Point{float64(i), 0})
		require.Nil(t, err)
		records = append(records, r)
	}
	ctx := context.Background()

	count, err := CountRecords(ctx, RecordSetFromRecords(schema, records...))
	require.Nil(t, err)
	require.EqualValues(t, 5, count)

	collected, err := CollectRecords(ctx, RecordSetFromRecords(schema, records...))
	require.Nil(t, err)
	require.Len(t, collected, 5)

	rs := RecordSetFromRecords(schema, records...)
	require.Nil(t, rs.Close())
	_, err = rs.Next(ctx)
	require.Equal(t, io.EOF, err)
}
