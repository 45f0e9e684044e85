package marmot

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// TypeCode is the wire identifier of a DataType
type TypeCode uint8

// Type codes. These values are part of the wire format and must not change.
const (
	ByteCode            TypeCode = 1
	ShortCode           TypeCode = 2
	IntCode             TypeCode = 3
	LongCode            TypeCode = 4
	FloatCode           TypeCode = 5
	DoubleCode          TypeCode = 6
	BooleanCode         TypeCode = 7
	StringCode          TypeCode = 8
	BinaryCode          TypeCode = 9
	DateTimeCode        TypeCode = 10
	DateCode            TypeCode = 11
	TimeCode            TypeCode = 12
	DurationCode        TypeCode = 13
	IntervalCode        TypeCode = 14
	EnvelopeCode        TypeCode = 15
	TileCode            TypeCode = 16
	GridCellCode        TypeCode = 17
	PointCode           TypeCode = 18
	MultiPointCode      TypeCode = 19
	LineStringCode      TypeCode = 20
	MultiLineStringCode TypeCode = 21
	PolygonCode         TypeCode = 22
	MultiPolygonCode    TypeCode = 23
	GeomCollectionCode  TypeCode = 24
	GeometryCode        TypeCode = 25
)

// DataType describes the values a Column may hold. Marmot provides a fixed
// set of DataTypes, listed below; they are compared by Code().
type DataType interface {
	Code() TypeCode                // Code returns the wire identifier of this type
	Name() string                  // Name returns the lower-case name used in schema strings
	IsGeometry() bool              // IsGeometry returns true iff values of this type are orb.Geometry
	Accepts(v interface{}) bool    // Accepts returns true iff v is a valid (non-nil) value of this type
	ToString(v interface{}) string // ToString produces a string representation of a value of this type
}

type dataType struct {
	code     TypeCode
	name     string
	geometry bool
	accepts  func(v interface{}) bool
	format   func(v interface{}) string
}

func (t *dataType) Code() TypeCode   { return t.code }
func (t *dataType) Name() string     { return t.name }
func (t *dataType) IsGeometry() bool { return t.geometry }
func (t *dataType) String() string   { return t.name }

func (t *dataType) Accepts(v interface{}) bool {
	return v != nil && t.accepts(v)
}

func (t *dataType) ToString(v interface{}) string {
	if v == nil {
		return "null"
	}
	return t.format(v)
}

func formatDefault(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

func formatGeometry(v interface{}) string {
	return wkt.MarshalString(v.(orb.Geometry))
}

func formatBound(v interface{}) string {
	b := v.(orb.Bound)
	return fmt.Sprintf("(%g,%g)-(%g,%g)", b.Min[0], b.Min[1], b.Max[0], b.Max[1])
}

func formatBinary(v interface{}) string {
	data := v.([]byte)
	if len(data) > 16 {
		return fmt.Sprintf("%s... %d more", hex.EncodeToString(data[:16]), len(data)-16)
	}
	return hex.EncodeToString(data)
}

func geometryAccepts(pred func(orb.Geometry) bool) func(v interface{}) bool {
	return func(v interface{}) bool {
		geom, ok := v.(orb.Geometry)
		return ok && pred(geom)
	}
}

// The built-in DataTypes
var (
	ByteType = &dataType{ByteCode, "byte", false, func(v interface{}) bool {
		_, ok := v.(int8)
		return ok
	}, formatDefault}
	ShortType = &dataType{ShortCode, "short", false, func(v interface{}) bool {
		_, ok := v.(int16)
		return ok
	}, formatDefault}
	IntType = &dataType{IntCode, "int", false, func(v interface{}) bool {
		_, ok := v.(int32)
		return ok
	}, formatDefault}
	LongType = &dataType{LongCode, "long", false, func(v interface{}) bool {
		_, ok := v.(int64)
		return ok
	}, formatDefault}
	FloatType = &dataType{FloatCode, "float", false, func(v interface{}) bool {
		_, ok := v.(float32)
		return ok
	}, formatDefault}
	DoubleType = &dataType{DoubleCode, "double", false, func(v interface{}) bool {
		_, ok := v.(float64)
		return ok
	}, formatDefault}
	BooleanType = &dataType{BooleanCode, "boolean", false, func(v interface{}) bool {
		_, ok := v.(bool)
		return ok
	}, formatDefault}
	StringType = &dataType{StringCode, "string", false, func(v interface{}) bool {
		_, ok := v.(string)
		return ok
	}, formatDefault}
	BinaryType = &dataType{BinaryCode, "binary", false, func(v interface{}) bool {
		_, ok := v.([]byte)
		return ok
	}, formatBinary}
	DateTimeType = &dataType{DateTimeCode, "datetime", false, func(v interface{}) bool {
		_, ok := v.(time.Time)
		return ok
	}, func(v interface{}) string { return v.(time.Time).Format(time.RFC3339Nano) }}
	DateType = &dataType{DateCode, "date", false, func(v interface{}) bool {
		_, ok := v.(time.Time)
		return ok
	}, func(v interface{}) string { return v.(time.Time).Format("2006-01-02") }}
	TimeType = &dataType{TimeCode, "time", false, func(v interface{}) bool {
		d, ok := v.(time.Duration)
		return ok && d >= 0 && d < 24*time.Hour
	}, func(v interface{}) string {
		d := v.(time.Duration)
		return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04:05.000")
	}}
	DurationType = &dataType{DurationCode, "duration", false, func(v interface{}) bool {
		_, ok := v.(time.Duration)
		return ok
	}, formatDefault}
	IntervalType = &dataType{IntervalCode, "interval", false, func(v interface{}) bool {
		_, ok := v.(Interval)
		return ok
	}, formatDefault}
	EnvelopeType = &dataType{EnvelopeCode, "envelope", false, func(v interface{}) bool {
		_, ok := v.(orb.Bound)
		return ok
	}, formatBound}
	TileType = &dataType{TileCode, "tile", false, func(v interface{}) bool {
		_, ok := v.(MapTile)
		return ok
	}, formatDefault}
	GridCellType = &dataType{GridCellCode, "grid_cell", false, func(v interface{}) bool {
		_, ok := v.(GridCell)
		return ok
	}, formatDefault}
	PointType = &dataType{PointCode, "point", true, geometryAccepts(func(g orb.Geometry) bool {
		_, ok := g.(orb.Point)
		return ok
	}), formatGeometry}
	MultiPointType = &dataType{MultiPointCode, "multi_point", true, geometryAccepts(func(g orb.Geometry) bool {
		_, ok := g.(orb.MultiPoint)
		return ok
	}), formatGeometry}
	LineStringType = &dataType{LineStringCode, "linestring", true, geometryAccepts(func(g orb.Geometry) bool {
		_, ok := g.(orb.LineString)
		return ok
	}), formatGeometry}
	MultiLineStringType = &dataType{MultiLineStringCode, "multi_linestring", true, geometryAccepts(func(g orb.Geometry) bool {
		_, ok := g.(orb.MultiLineString)
		return ok
	}), formatGeometry}
	PolygonType = &dataType{PolygonCode, "polygon", true, geometryAccepts(func(g orb.Geometry) bool {
		_, ok := g.(orb.Polygon)
		return ok
	}), formatGeometry}
	MultiPolygonType = &dataType{MultiPolygonCode, "multi_polygon", true, geometryAccepts(func(g orb.Geometry) bool {
		_, ok := g.(orb.MultiPolygon)
		return ok
	}), formatGeometry}
	GeomCollectionType = &dataType{GeomCollectionCode, "geom_collection", true, geometryAccepts(func(g orb.Geometry) bool {
		_, ok := g.(orb.Collection)
		return ok
	}), formatGeometry}
	GeometryType = &dataType{GeometryCode, "geometry", true, geometryAccepts(func(g orb.Geometry) bool {
		return true
	}), formatGeometry}
)

var allTypes = []DataType{
	ByteType, ShortType, IntType, LongType, FloatType, DoubleType, BooleanType,
	StringType, BinaryType, DateTimeType, DateType, TimeType, DurationType,
	IntervalType, EnvelopeType, TileType, GridCellType, PointType, MultiPointType,
	LineStringType, MultiLineStringType, PolygonType, MultiPolygonType,
	GeomCollectionType, GeometryType,
}

var typesByName = func() map[string]DataType {
	m := make(map[string]DataType, len(allTypes))
	for _, t := range allTypes {
		m[t.Name()] = t
	}
	return m
}()

// DataTypeOf returns the DataType with the given wire code
func DataTypeOf(code TypeCode) (DataType, error) {
	if code == 0 || int(code) > len(allTypes) {
		return nil, fmt.Errorf("unknown type code %d", code)
	}
	return allTypes[code-1], nil
}

// ParseDataType returns the DataType with the given (case-insensitive) name
func ParseDataType(name string) (DataType, error) {
	t, ok := typesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown data type %q", name)
	}
	return t, nil
}

// GeometryTypeOf returns the most specific geometry DataType for a geometry value
func GeometryTypeOf(geom orb.Geometry) DataType {
	switch geom.(type) {
	case orb.Point:
		return PointType
	case orb.MultiPoint:
		return MultiPointType
	case orb.LineString:
		return LineStringType
	case orb.MultiLineString:
		return MultiLineStringType
	case orb.Polygon:
		return PolygonType
	case orb.MultiPolygon:
		return MultiPolygonType
	case orb.Collection:
		return GeomCollectionType
	default:
		return GeometryType
	}
}

// Coerce converts v into a value of type t where the conversion is lossless
// (e.g. an int literal into an int32 column), returning ok=false otherwise.
// nil is always accepted.
func Coerce(t DataType, v interface{}) (result interface{}, ok bool) {
	if v == nil || t.Accepts(v) {
		return v, true
	}
	switch t.Code() {
	case ByteCode, ShortCode, IntCode, LongCode:
		n, ok := toInt64(v)
		if !ok {
			return nil, false
		}
		return narrowInt(t.Code(), n)
	case FloatCode:
		switch x := v.(type) {
		case float64:
			if x == 0 || (math.Abs(x) <= math.MaxFloat32 && math.Abs(x) >= math.SmallestNonzeroFloat32) {
				return float32(x), true
			}
		case int:
			return float32(x), true
		}
	case DoubleCode:
		switch x := v.(type) {
		case float32:
			return float64(x), true
		case int:
			return float64(x), true
		case int32:
			return float64(x), true
		case int64:
			return float64(x), true
		}
	case StringCode:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String(), true
		}
	case DateCode:
		if tm, ok := v.(time.Time); ok {
			y, m, d := tm.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, tm.Location()), true
		}
	case GeometryCode:
		if g, ok := v.(orb.Geometry); ok {
			return g, true
		}
	}
	return nil, false
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x <= math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}

func narrowInt(code TypeCode, n int64) (interface{}, bool) {
	switch code {
	case ByteCode:
		if n >= math.MinInt8 && n <= math.MaxInt8 {
			return int8(n), true
		}
	case ShortCode:
		if n >= math.MinInt16 && n <= math.MaxInt16 {
			return int16(n), true
		}
	case IntCode:
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n), true
		}
	case LongCode:
		return n, true
	}
	return nil, false
}
