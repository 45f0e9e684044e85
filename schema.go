package marmot

import (
	"fmt"
	"strings"

	"github.com/go-marmot/marmot/errors"
)

// RecordSchema is an immutable, ordered list of Columns.
// Column names are unique, ignoring case.
type RecordSchema struct {
	columns []Column
	index   map[string]int
}

// SchemaBuilder accumulates Columns for a new RecordSchema
type SchemaBuilder struct {
	columns []Column
	err     error
}

// NewSchemaBuilder is a factory for SchemaBuilders
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{}
}

// AddColumn appends a Column to the schema under construction.
// The first error encountered is reported by Build.
func (b *SchemaBuilder) AddColumn(name string, colType DataType) *SchemaBuilder {
	if b.err != nil {
		return b
	}
	if len(strings.TrimSpace(name)) == 0 {
		b.err = fmt.Errorf("Column name must not be empty")
		return b
	}
	if colType == nil {
		b.err = fmt.Errorf("Column %s has no type", name)
		return b
	}
	b.columns = append(b.columns, Column{Name: name, Type: colType, Ordinal: len(b.columns)})
	return b
}

// AddColumns appends every Column of an existing schema
func (b *SchemaBuilder) AddColumns(schema *RecordSchema) *SchemaBuilder {
	for _, col := range schema.columns {
		b.AddColumn(col.Name, col.Type)
	}
	return b
}

// Build produces the RecordSchema, or fails with DuplicateColumnError
func (b *SchemaBuilder) Build() (*RecordSchema, error) {
	if b.err != nil {
		return nil, b.err
	}
	return newRecordSchema(b.columns)
}

func newRecordSchema(cols []Column) (*RecordSchema, error) {
	s := &RecordSchema{
		columns: make([]Column, len(cols)),
		index:   make(map[string]int, len(cols)),
	}
	for i, col := range cols {
		key := normalizeName(col.Name)
		if _, ok := s.index[key]; ok {
			return nil, errors.DuplicateColumnError{Name: col.Name}
		}
		s.index[key] = i
		s.columns[i] = Column{Name: col.Name, Type: col.Type, Ordinal: i}
	}
	return s, nil
}

// EmptySchema returns a RecordSchema with no columns
func EmptySchema() *RecordSchema {
	s, _ := newRecordSchema(nil)
	return s
}

// ColumnCount returns the number of Columns in this RecordSchema
func (s *RecordSchema) ColumnCount() int {
	return len(s.columns)
}

// Columns returns a copy of the Columns of this RecordSchema, in order
func (s *RecordSchema) Columns() []Column {
	cols := make([]Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// ColumnNames returns the names of the Columns of this RecordSchema, in order
func (s *RecordSchema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// GetColumn looks up a Column by (case-insensitive) name
func (s *RecordSchema) GetColumn(name string) (Column, bool) {
	idx, ok := s.index[normalizeName(name)]
	if !ok {
		return Column{}, false
	}
	return s.columns[idx], true
}

// GetColumnAt returns the Column with the given ordinal
func (s *RecordSchema) GetColumnAt(i int) Column {
	return s.columns[i]
}

// HasColumn returns true iff this RecordSchema contains a Column with the given name
func (s *RecordSchema) HasColumn(name string) bool {
	_, ok := s.index[normalizeName(name)]
	return ok
}

// Project produces a RecordSchema containing only the named Columns, in the given order
func (s *RecordSchema) Project(names ...string) (*RecordSchema, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, ok := s.GetColumn(name)
		if !ok {
			return nil, errors.ColumnNotFoundError{Name: name}
		}
		cols = append(cols, col)
	}
	return newRecordSchema(cols)
}

// Complement produces a RecordSchema containing every Column except the named ones
func (s *RecordSchema) Complement(names ...string) (*RecordSchema, error) {
	excluded := make(map[string]bool, len(names))
	for _, name := range names {
		if !s.HasColumn(name) {
			return nil, errors.ColumnNotFoundError{Name: name}
		}
		excluded[normalizeName(name)] = true
	}
	cols := make([]Column, 0, len(s.columns))
	for _, col := range s.columns {
		if !excluded[normalizeName(col.Name)] {
			cols = append(cols, col)
		}
	}
	return newRecordSchema(cols)
}

// Rename produces a RecordSchema in which oldName is called newName
func (s *RecordSchema) Rename(oldName string, newName string) (*RecordSchema, error) {
	idx, ok := s.index[normalizeName(oldName)]
	if !ok {
		return nil, errors.ColumnNotFoundError{Name: oldName}
	}
	cols := s.Columns()
	cols[idx].Name = newName
	return newRecordSchema(cols)
}

// Equals returns nil iff this and another RecordSchema are equivalent, and the reason otherwise
func (s *RecordSchema) Equals(other *RecordSchema) error {
	if other == nil {
		return fmt.Errorf("Other schema is nil")
	}
	if s.ColumnCount() != other.ColumnCount() {
		return fmt.Errorf("Schemas have unequal column counts (%d vs %d)", s.ColumnCount(), other.ColumnCount())
	}
	for i, col := range s.columns {
		otherCol := other.columns[i]
		if !col.Matches(otherCol.Name) {
			return fmt.Errorf("Column %d names do not match (%s vs %s)", i, col.Name, otherCol.Name)
		}
		if col.Type.Code() != otherCol.Type.Code() {
			return fmt.Errorf("Column %s types do not match (%s vs %s)", col.Name, col.Type.Name(), otherCol.Type.Name())
		}
	}
	return nil
}

// String returns the "a:int,the_geom:point" form of this RecordSchema
func (s *RecordSchema) String() string {
	parts := make([]string, len(s.columns))
	for i, col := range s.columns {
		parts[i] = col.String()
	}
	return strings.Join(parts, ",")
}

// ParseRecordSchema parses the output of RecordSchema.String()
func ParseRecordSchema(str string) (*RecordSchema, error) {
	b := NewSchemaBuilder()
	if len(strings.TrimSpace(str)) == 0 {
		return b.Build()
	}
	for _, decl := range strings.Split(str, ",") {
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("Invalid column declaration %q", decl)
		}
		colType, err := ParseDataType(parts[1])
		if err != nil {
			return nil, err
		}
		b.AddColumn(strings.TrimSpace(parts[0]), colType)
	}
	return b.Build()
}
