// Package pbconv converts the Marmot data model to and from its protobuf
// wire representation
package pbconv

import (
	"fmt"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/errors"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// SchemaToProto converts a RecordSchema into its wire form
func SchemaToProto(schema *marmot.RecordSchema) *pb.RecordSchemaProto {
	if schema == nil {
		return nil
	}
	cols := schema.Columns()
	res := &pb.RecordSchemaProto{Columns: make([]*pb.ColumnProto, len(cols))}
	for i, col := range cols {
		res.Columns[i] = &pb.ColumnProto{Name: col.Name, TypeCode: int32(col.Type.Code())}
	}
	return res
}

// SchemaFromProto converts a wire schema into a RecordSchema. A nil message
// yields the empty schema.
func SchemaFromProto(m *pb.RecordSchemaProto) (*marmot.RecordSchema, error) {
	builder := marmot.NewSchemaBuilder()
	for _, col := range m.GetColumns() {
		colType, err := marmot.DataTypeOf(marmot.TypeCode(col.TypeCode))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		builder.AddColumn(col.Name, colType)
	}
	return builder.Build()
}

// EnvelopeToProto converts a bound into its wire form
func EnvelopeToProto(b orb.Bound) *pb.EnvelopeProto {
	return &pb.EnvelopeProto{MinX: b.Min[0], MinY: b.Min[1], MaxX: b.Max[0], MaxY: b.Max[1]}
}

// EnvelopeFromProto converts a wire envelope into a bound. A nil message
// yields the zero bound.
func EnvelopeFromProto(m *pb.EnvelopeProto) orb.Bound {
	if m == nil {
		return orb.Bound{}
	}
	return orb.Bound{Min: orb.Point{m.MinX, m.MinY}, Max: orb.Point{m.MaxX, m.MaxY}}
}

// GeometryColumnToProto converts an optional GeometryColumnInfo
func GeometryColumnToProto(g *marmot.GeometryColumnInfo) *pb.GeometryColumnInfoProto {
	if g == nil {
		return nil
	}
	return &pb.GeometryColumnInfoProto{Name: g.Name, Srid: g.SRID}
}

// GeometryColumnFromProto converts an optional wire GeometryColumnInfo
func GeometryColumnFromProto(m *pb.GeometryColumnInfoProto) *marmot.GeometryColumnInfo {
	if m == nil || m.Name == "" {
		return nil
	}
	return &marmot.GeometryColumnInfo{Name: m.Name, SRID: m.Srid}
}

// DataSetInfoToProto converts a DataSetInfo into its wire form
func DataSetInfoToProto(info *marmot.DataSetInfo) *pb.DataSetInfoProto {
	return &pb.DataSetInfoProto{
		Id:               info.ID,
		Type:             int32(info.Type),
		Schema:           SchemaToProto(info.Schema),
		GeometryColumn:   GeometryColumnToProto(info.GeometryColumn),
		Bounds:           EnvelopeToProto(info.Bounds),
		RecordCount:      info.RecordCount,
		HdfsPath:         info.HdfsPath,
		BlockSize:        info.BlockSize,
		CompressionCodec: info.CompressionCodec,
		HasSpatialIndex:  info.HasSpatialIndex,
		UpdatedMillis:    info.UpdatedMillis,
	}
}

// DataSetInfoFromProto converts a wire DataSetInfo
func DataSetInfoFromProto(m *pb.DataSetInfoProto) (*marmot.DataSetInfo, error) {
	schema, err := SchemaFromProto(m.GetSchema())
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", m.Id, err)
	}
	return &marmot.DataSetInfo{
		ID:               m.Id,
		Type:             marmot.DataSetType(m.Type),
		Schema:           schema,
		GeometryColumn:   GeometryColumnFromProto(m.GetGeometryColumn()),
		Bounds:           EnvelopeFromProto(m.Bounds),
		RecordCount:      m.RecordCount,
		HdfsPath:         m.HdfsPath,
		BlockSize:        m.BlockSize,
		CompressionCodec: m.CompressionCodec,
		HasSpatialIndex:  m.HasSpatialIndex,
		UpdatedMillis:    m.UpdatedMillis,
	}, nil
}

// RecordToProto converts a Record's values into their wire form, in schema order
func RecordToProto(r *marmot.Record) (*pb.RecordProto, error) {
	cols := r.Schema().Columns()
	res := &pb.RecordProto{Values: make([]*pb.ValueProto, len(cols))}
	for i, col := range cols {
		v, err := ValueToProto(col.Type, r.Get(i))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		res.Values[i] = v
	}
	return res, nil
}

// RecordFromProto converts wire values into a Record of the given schema
func RecordFromProto(schema *marmot.RecordSchema, m *pb.RecordProto) (*marmot.Record, error) {
	values := m.GetValues()
	if len(values) != schema.ColumnCount() {
		return nil, fmt.Errorf("record has %d values, schema has %d columns", len(values), schema.ColumnCount())
	}
	rec := marmot.NewRecord(schema)
	for i, vp := range values {
		col := schema.GetColumnAt(i)
		v, err := ValueFromProto(col.Type, vp)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		if err := rec.Set(i, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// ValueToProto converts a single value of type t into its wire form
func ValueToProto(t marmot.DataType, v interface{}) (*pb.ValueProto, error) {
	res := &pb.ValueProto{TypeCode: int32(t.Code())}
	if v == nil {
		res.IsNull = true
		return res, nil
	}
	coerced, ok := marmot.Coerce(t, v)
	if !ok {
		return nil, errors.TypeMismatchError{Expected: t.Name(), Actual: fmt.Sprintf("%T", v)}
	}
	v = coerced
	switch t.Code() {
	case marmot.ByteCode:
		res.LongValue = int64(v.(int8))
	case marmot.ShortCode:
		res.LongValue = int64(v.(int16))
	case marmot.IntCode:
		res.LongValue = int64(v.(int32))
	case marmot.LongCode:
		res.LongValue = v.(int64)
	case marmot.FloatCode:
		res.DoubleValue = float64(v.(float32))
	case marmot.DoubleCode:
		res.DoubleValue = v.(float64)
	case marmot.BooleanCode:
		res.BoolValue = v.(bool)
	case marmot.StringCode:
		res.StringValue = v.(string)
	case marmot.BinaryCode:
		res.BytesValue = v.([]byte)
	case marmot.DateTimeCode, marmot.DateCode:
		res.LongValue = v.(time.Time).UnixMilli()
	case marmot.TimeCode, marmot.DurationCode:
		res.LongValue = v.(time.Duration).Milliseconds()
	case marmot.IntervalCode:
		iv := v.(marmot.Interval)
		res.IntervalValue = &pb.IntervalProto{Start: iv.Start.UnixMilli(), End: iv.End.UnixMilli()}
	case marmot.EnvelopeCode:
		res.EnvelopeValue = EnvelopeToProto(v.(orb.Bound))
	case marmot.TileCode:
		tile := v.(marmot.MapTile)
		res.TileValue = &pb.TileProto{Zoom: tile.Zoom, X: tile.X, Y: tile.Y}
	case marmot.GridCellCode:
		cell := v.(marmot.GridCell)
		res.GridCellValue = &pb.GridCellProto{X: cell.X, Y: cell.Y}
	default:
		if !t.IsGeometry() {
			return nil, fmt.Errorf("unsupported type %s", t.Name())
		}
		data, err := wkb.Marshal(v.(orb.Geometry))
		if err != nil {
			return nil, err
		}
		res.BytesValue = data
	}
	return res, nil
}

// ValueFromProto converts a wire value into a value of type t
func ValueFromProto(t marmot.DataType, m *pb.ValueProto) (interface{}, error) {
	if m == nil || m.IsNull {
		return nil, nil
	}
	if m.TypeCode != 0 && m.TypeCode != int32(t.Code()) {
		return nil, errors.TypeMismatchError{Expected: t.Name(), Actual: fmt.Sprintf("type code %d", m.TypeCode)}
	}
	switch t.Code() {
	case marmot.ByteCode:
		return int8(m.LongValue), nil
	case marmot.ShortCode:
		return int16(m.LongValue), nil
	case marmot.IntCode:
		return int32(m.LongValue), nil
	case marmot.LongCode:
		return m.LongValue, nil
	case marmot.FloatCode:
		return float32(m.DoubleValue), nil
	case marmot.DoubleCode:
		return m.DoubleValue, nil
	case marmot.BooleanCode:
		return m.BoolValue, nil
	case marmot.StringCode:
		return m.StringValue, nil
	case marmot.BinaryCode:
		if m.BytesValue == nil {
			return []byte{}, nil
		}
		return m.BytesValue, nil
	case marmot.DateTimeCode, marmot.DateCode:
		return time.UnixMilli(m.LongValue).UTC(), nil
	case marmot.TimeCode, marmot.DurationCode:
		return time.Duration(m.LongValue) * time.Millisecond, nil
	case marmot.IntervalCode:
		iv := m.IntervalValue
		if iv == nil {
			return nil, fmt.Errorf("missing interval value")
		}
		return marmot.Interval{Start: time.UnixMilli(iv.Start).UTC(), End: time.UnixMilli(iv.End).UTC()}, nil
	case marmot.EnvelopeCode:
		if m.EnvelopeValue == nil {
			return nil, fmt.Errorf("missing envelope value")
		}
		return EnvelopeFromProto(m.EnvelopeValue), nil
	case marmot.TileCode:
		if m.TileValue == nil {
			return nil, fmt.Errorf("missing tile value")
		}
		return marmot.MapTile{Zoom: m.TileValue.Zoom, X: m.TileValue.X, Y: m.TileValue.Y}, nil
	case marmot.GridCellCode:
		if m.GridCellValue == nil {
			return nil, fmt.Errorf("missing grid cell value")
		}
		return marmot.GridCell{X: m.GridCellValue.X, Y: m.GridCellValue.Y}, nil
	}
	if !t.IsGeometry() {
		return nil, fmt.Errorf("unsupported type %s", t.Name())
	}
	geom, err := wkb.Unmarshal(m.BytesValue)
	if err != nil {
		return nil, err
	}
	if !t.Accepts(geom) {
		return nil, errors.TypeMismatchError{Expected: t.Name(), Actual: marmot.GeometryTypeOf(geom).Name()}
	}
	return geom, nil
}
