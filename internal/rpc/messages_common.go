package rpc

import (
	"github.com/golang/protobuf/proto"
)

// ErrorProto carries a typed error across a stream
type ErrorProto struct {
	Kind    string `protobuf:"bytes,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Message string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *ErrorProto) Reset()         { *m = ErrorProto{} }
func (m *ErrorProto) String() string { return proto.CompactTextString(m) }
func (*ErrorProto) ProtoMessage()    {}

// GetKind returns the error kind, or "" for a nil ErrorProto
func (m *ErrorProto) GetKind() string {
	if m != nil {
		return m.Kind
	}
	return ""
}

// GetMessage returns the error message, or "" for a nil ErrorProto
func (m *ErrorProto) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

// KeyValueProto is a single string option
type KeyValueProto struct {
	Key   string `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
	Value string `protobuf:"bytes,2,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *KeyValueProto) Reset()         { *m = KeyValueProto{} }
func (m *KeyValueProto) String() string { return proto.CompactTextString(m) }
func (*KeyValueProto) ProtoMessage()    {}

// StringListProto is a list of strings
type StringListProto struct {
	Values []string `protobuf:"bytes,1,rep,name=values,proto3" json:"values,omitempty"`
}

func (m *StringListProto) Reset()         { *m = StringListProto{} }
func (m *StringListProto) String() string { return proto.CompactTextString(m) }
func (*StringListProto) ProtoMessage()    {}

// GetValues returns the list, or nil for a nil StringListProto
func (m *StringListProto) GetValues() []string {
	if m != nil {
		return m.Values
	}
	return nil
}

// EnvelopeProto is an axis-aligned bounding box
type EnvelopeProto struct {
	MinX float64 `protobuf:"fixed64,1,opt,name=min_x,json=minX,proto3" json:"min_x,omitempty"`
	MinY float64 `protobuf:"fixed64,2,opt,name=min_y,json=minY,proto3" json:"min_y,omitempty"`
	MaxX float64 `protobuf:"fixed64,3,opt,name=max_x,json=maxX,proto3" json:"max_x,omitempty"`
	MaxY float64 `protobuf:"fixed64,4,opt,name=max_y,json=maxY,proto3" json:"max_y,omitempty"`
}

func (m *EnvelopeProto) Reset()         { *m = EnvelopeProto{} }
func (m *EnvelopeProto) String() string { return proto.CompactTextString(m) }
func (*EnvelopeProto) ProtoMessage()    {}

// TileProto is an XYZ map tile
type TileProto struct {
	Zoom int32 `protobuf:"varint,1,opt,name=zoom,proto3" json:"zoom,omitempty"`
	X    int32 `protobuf:"varint,2,opt,name=x,proto3" json:"x,omitempty"`
	Y    int32 `protobuf:"varint,3,opt,name=y,proto3" json:"y,omitempty"`
}

func (m *TileProto) Reset()         { *m = TileProto{} }
func (m *TileProto) String() string { return proto.CompactTextString(m) }
func (*TileProto) ProtoMessage()    {}

// GridCellProto is a cell position within a square grid
type GridCellProto struct {
	X int64 `protobuf:"varint,1,opt,name=x,proto3" json:"x,omitempty"`
	Y int64 `protobuf:"varint,2,opt,name=y,proto3" json:"y,omitempty"`
}

func (m *GridCellProto) Reset()         { *m = GridCellProto{} }
func (m *GridCellProto) String() string { return proto.CompactTextString(m) }
func (*GridCellProto) ProtoMessage()    {}

// IntervalProto is a time interval in unix millis
type IntervalProto struct {
	Start int64 `protobuf:"varint,1,opt,name=start,proto3" json:"start,omitempty"`
	End   int64 `protobuf:"varint,2,opt,name=end,proto3" json:"end,omitempty"`
}

func (m *IntervalProto) Reset()         { *m = IntervalProto{} }
func (m *IntervalProto) String() string { return proto.CompactTextString(m) }
func (*IntervalProto) ProtoMessage()    {}

// ColumnProto describes a single column
type ColumnProto struct {
	Name     string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	TypeCode int32  `protobuf:"varint,2,opt,name=type_code,json=typeCode,proto3" json:"type_code,omitempty"`
}

func (m *ColumnProto) Reset()         { *m = ColumnProto{} }
func (m *ColumnProto) String() string { return proto.CompactTextString(m) }
func (*ColumnProto) ProtoMessage()    {}

// RecordSchemaProto is an ordered list of columns
type RecordSchemaProto struct {
	Columns []*ColumnProto `protobuf:"bytes,1,rep,name=columns,proto3" json:"columns,omitempty"`
}

func (m *RecordSchemaProto) Reset()         { *m = RecordSchemaProto{} }
func (m *RecordSchemaProto) String() string { return proto.CompactTextString(m) }
func (*RecordSchemaProto) ProtoMessage()    {}

// GetColumns returns the columns, or nil for a nil RecordSchemaProto
func (m *RecordSchemaProto) GetColumns() []*ColumnProto {
	if m != nil {
		return m.Columns
	}
	return nil
}

// ValueProto is a single column value. Only the field matching TypeCode is set.
type ValueProto struct {
	TypeCode      int32          `protobuf:"varint,1,opt,name=type_code,json=typeCode,proto3" json:"type_code,omitempty"`
	IsNull        bool           `protobuf:"varint,2,opt,name=is_null,json=isNull,proto3" json:"is_null,omitempty"`
	LongValue     int64          `protobuf:"varint,3,opt,name=long_value,json=longValue,proto3" json:"long_value,omitempty"`
	DoubleValue   float64        `protobuf:"fixed64,4,opt,name=double_value,json=doubleValue,proto3" json:"double_value,omitempty"`
	StringValue   string         `protobuf:"bytes,5,opt,name=string_value,json=stringValue,proto3" json:"string_value,omitempty"`
	BytesValue    []byte         `protobuf:"bytes,6,opt,name=bytes_value,json=bytesValue,proto3" json:"bytes_value,omitempty"`
	BoolValue     bool           `protobuf:"varint,7,opt,name=bool_value,json=boolValue,proto3" json:"bool_value,omitempty"`
	EnvelopeValue *EnvelopeProto `protobuf:"bytes,8,opt,name=envelope_value,json=envelopeValue,proto3" json:"envelope_value,omitempty"`
	TileValue     *TileProto     `protobuf:"bytes,9,opt,name=tile_value,json=tileValue,proto3" json:"tile_value,omitempty"`
	GridCellValue *GridCellProto `protobuf:"bytes,10,opt,name=grid_cell_value,json=gridCellValue,proto3" json:"grid_cell_value,omitempty"`
	IntervalValue *IntervalProto `protobuf:"bytes,11,opt,name=interval_value,json=intervalValue,proto3" json:"interval_value,omitempty"`
}

func (m *ValueProto) Reset()         { *m = ValueProto{} }
func (m *ValueProto) String() string { return proto.CompactTextString(m) }
func (*ValueProto) ProtoMessage()    {}

// RecordProto is a single record's values, in schema order
type RecordProto struct {
	Values []*ValueProto `protobuf:"bytes,1,rep,name=values,proto3" json:"values,omitempty"`
}

func (m *RecordProto) Reset()         { *m = RecordProto{} }
func (m *RecordProto) String() string { return proto.CompactTextString(m) }
func (*RecordProto) ProtoMessage()    {}

// GetValues returns the values, or nil for a nil RecordProto
func (m *RecordProto) GetValues() []*ValueProto {
	if m != nil {
		return m.Values
	}
	return nil
}
