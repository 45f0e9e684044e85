package marmot

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-marmot/marmot/errors"
	"github.com/paulmach/orb"
)

// Record is a row of values respecting a RecordSchema.
// A nil value represents NULL.
type Record struct {
	schema *RecordSchema
	values []interface{}
}

// NewRecord creates a Record whose values are all NULL
func NewRecord(schema *RecordSchema) *Record {
	return &Record{schema: schema, values: make([]interface{}, schema.ColumnCount())}
}

// NewRecordWithValues creates a Record and assigns its values in column order
func NewRecordWithValues(schema *RecordSchema, values ...interface{}) (*Record, error) {
	r := NewRecord(schema)
	if err := r.SetAll(values...); err != nil {
		return nil, err
	}
	return r, nil
}

// Schema returns the RecordSchema of this Record
func (r *Record) Schema() *RecordSchema {
	return r.schema
}

// Get returns the value at ordinal i
func (r *Record) Get(i int) interface{} {
	return r.values[i]
}

// GetByName returns the value of the named column
func (r *Record) GetByName(name string) (interface{}, error) {
	col, ok := r.schema.GetColumn(name)
	if !ok {
		return nil, errors.ColumnNotFoundError{Name: name}
	}
	return r.values[col.Ordinal], nil
}

// Set assigns the value at ordinal i, coercing numeric literals where lossless
func (r *Record) Set(i int, v interface{}) error {
	col := r.schema.GetColumnAt(i)
	coerced, ok := Coerce(col.Type, v)
	if !ok {
		return errors.TypeMismatchError{
			Column:   col.Name,
			Expected: col.Type.Name(),
			Actual:   fmt.Sprintf("%T", v),
		}
	}
	r.values[i] = coerced
	return nil
}

// SetByName assigns the value of the named column
func (r *Record) SetByName(name string, v interface{}) error {
	col, ok := r.schema.GetColumn(name)
	if !ok {
		return errors.ColumnNotFoundError{Name: name}
	}
	return r.Set(col.Ordinal, v)
}

// SetAll assigns every value, in column order
func (r *Record) SetAll(values ...interface{}) error {
	if len(values) != len(r.values) {
		return fmt.Errorf("Expected %d values, got %d", len(r.values), len(values))
	}
	for i, v := range values {
		if err := r.Set(i, v); err != nil {
			return err
		}
	}
	return nil
}

// Values returns a copy of the values of this Record
func (r *Record) Values() []interface{} {
	values := make([]interface{}, len(r.values))
	copy(values, r.values)
	return values
}

// Copy returns a shallow copy of this Record
func (r *Record) Copy() *Record {
	return &Record{schema: r.schema, values: r.Values()}
}

// IsNull returns true iff the value of the named column is NULL
func (r *Record) IsNull(name string) (bool, error) {
	v, err := r.GetByName(name)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (r *Record) typed(name string, t DataType) (interface{}, error) {
	col, ok := r.schema.GetColumn(name)
	if !ok {
		return nil, errors.ColumnNotFoundError{Name: name}
	}
	v := r.values[col.Ordinal]
	if v == nil {
		return nil, errors.NilValueError{Name: name}
	}
	if !t.Accepts(v) {
		return nil, errors.TypeMismatchError{Column: col.Name, Expected: t.Name(), Actual: col.Type.Name()}
	}
	return v, nil
}

// GetInt returns the int32 value of the named column
func (r *Record) GetInt(name string) (int32, error) {
	v, err := r.typed(name, IntType)
	if err != nil {
		return 0, err
	}
	return v.(int32), nil
}

// GetLong returns the int64 value of the named column
func (r *Record) GetLong(name string) (int64, error) {
	v, err := r.typed(name, LongType)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// GetDouble returns the float64 value of the named column
func (r *Record) GetDouble(name string) (float64, error) {
	v, err := r.typed(name, DoubleType)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// GetString returns the string value of the named column
func (r *Record) GetString(name string) (string, error) {
	v, err := r.typed(name, StringType)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetBool returns the bool value of the named column
func (r *Record) GetBool(name string) (bool, error) {
	v, err := r.typed(name, BooleanType)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// GetDateTime returns the time.Time value of the named column
func (r *Record) GetDateTime(name string) (time.Time, error) {
	v, err := r.typed(name, DateTimeType)
	if err != nil {
		return time.Time{}, err
	}
	return v.(time.Time), nil
}

// GetGeometry returns the geometry value of the named column
func (r *Record) GetGeometry(name string) (orb.Geometry, error) {
	v, err := r.typed(name, GeometryType)
	if err != nil {
		return nil, err
	}
	return v.(orb.Geometry), nil
}

// String returns a human-readable representation of this Record
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, col := range r.schema.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.Name)
		sb.WriteString(":")
		sb.WriteString(col.Type.ToString(r.values[i]))
	}
	sb.WriteString("}")
	return sb.String()
}
