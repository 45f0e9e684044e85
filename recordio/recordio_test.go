package recordio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"testing"

	"github.com/go-marmot/marmot"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func createTestRecords(t *testing.T, n int) (*marmot.RecordSchema, []*marmot.Record) {
	schema, err := marmot.NewSchemaBuilder().
		AddColumn("id", marmot.LongType).
		AddColumn("name", marmot.StringType).
		AddColumn("the_geom", marmot.PointType).
		Build()
	require.Nil(t, err)
	records := make([]*marmot.Record, n)
	for i := range records {
		records[i], err = marmot.NewRecordWithValues(schema, int64(i), fmt.Sprintf("name-%d", i), orb.Point{float64(i), float64(-i)})
		require.Nil(t, err)
	}
	// one record with nulls
	records[n/2].Set(1, nil)
	return schema, records
}

func TestWriteThenRead(t *testing.T) {
	ctx := context.Background()
	schema, records := createTestRecords(t, 100)
	var buf bytes.Buffer
	count, err := WriteRecordSet(ctx, &buf, marmot.RecordSetFromRecords(schema, records...))
	require.Nil(t, err)
	require.EqualValues(t, 100, count)

	r, err := NewReader(&buf)
	require.Nil(t, err)
	require.Nil(t, schema.Equals(r.Schema()))
	decoded, err := marmot.CollectRecords(ctx, r)
	require.Nil(t, err)
	require.Len(t, decoded, 100)
	for i, rec := range decoded {
		require.Equal(t, records[i].Values(), rec.Values())
	}
}

func TestEmptyRecordSet(t *testing.T) {
	ctx := context.Background()
	schema, _ := createTestRecords(t, 2)
	var buf bytes.Buffer
	count, err := WriteRecordSet(ctx, &buf, marmot.RecordSetFromRecords(schema))
	require.Nil(t, err)
	require.EqualValues(t, 0, count)
	r, err := NewReader(&buf)
	require.Nil(t, err)
	_, err = r.Next(ctx)
	require.Equal(t, io.EOF, err)
}

func TestReaderTruncatedInput(t *testing.T) {
	ctx := context.Background()
	schema, records := createTestRecords(t, 3)
	var buf bytes.Buffer
	_, err := WriteRecordSet(ctx, &buf, marmot.RecordSetFromRecords(schema, records...))
	require.Nil(t, err)
	truncated := buf.Bytes()[:buf.Len()-3]

	r, err := NewReader(bytes.NewReader(truncated))
	require.Nil(t, err)
	_, err = marmot.CollectRecords(ctx, r)
	require.Equal(t, io.ErrUnexpectedEOF, err)

	_, err = NewReader(bytes.NewReader(nil))
	require.NotNil(t, err)
}

func TestWriterRejectsForeignSchema(t *testing.T) {
	schema, _ := createTestRecords(t, 1)
	other, err := marmot.NewSchemaBuilder().AddColumn("x", marmot.IntType).Build()
	require.Nil(t, err)
	w, err := NewWriter(ioutil.Discard, schema)
	require.Nil(t, err)
	require.NotNil(t, w.Write(marmot.NewRecord(other)))
	require.EqualValues(t, 0, w.Count())
}

func TestPipe(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	schema, records := createTestRecords(t, 1000)
	pr := Pipe(ctx, marmot.RecordSetFromRecords(schema, records...))
	r, err := NewReader(pr)
	require.Nil(t, err)
	count, err := marmot.CountRecords(ctx, r)
	require.Nil(t, err)
	require.EqualValues(t, 1000, count)
}

func TestPipeClosedEarly(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	schema, records := createTestRecords(t, 10000)
	pr := Pipe(ctx, marmot.RecordSetFromRecords(schema, records...))
	r, err := NewReader(pr)
	require.Nil(t, err)
	_, err = r.Next(ctx)
	require.Nil(t, err)
	require.Nil(t, r.Close())
}
