package rpc

import (
	"github.com/golang/protobuf/proto"
)

// PlanProto is a named, ordered list of operators
type PlanProto struct {
	Name      string           `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Operators []*OperatorProto `protobuf:"bytes,2,rep,name=operators,proto3" json:"operators,omitempty"`
}

func (m *PlanProto) Reset()         { *m = PlanProto{} }
func (m *PlanProto) String() string { return proto.CompactTextString(m) }
func (*PlanProto) ProtoMessage()    {}

// GetOperators returns the operators, or nil for a nil PlanProto
func (m *PlanProto) GetOperators() []*OperatorProto {
	if m != nil {
		return m.Operators
	}
	return nil
}

// AggregateProto is one aggregate function applied to a column
type AggregateProto struct {
	Func      int32  `protobuf:"varint,1,opt,name=func,proto3" json:"func,omitempty"`
	Column    string `protobuf:"bytes,2,opt,name=column,proto3" json:"column,omitempty"`
	Output    string `protobuf:"bytes,3,opt,name=output,proto3" json:"output,omitempty"`
	Delimiter string `protobuf:"bytes,4,opt,name=delimiter,proto3" json:"delimiter,omitempty"`
}

func (m *AggregateProto) Reset()         { *m = AggregateProto{} }
func (m *AggregateProto) String() string { return proto.CompactTextString(m) }
func (*AggregateProto) ProtoMessage()    {}

// JoinOptionsProto configures hash and spatial joins
type JoinOptionsProto struct {
	Type          int32   `protobuf:"varint,1,opt,name=type,proto3" json:"type,omitempty"`
	OutputColumns string  `protobuf:"bytes,2,opt,name=output_columns,json=outputColumns,proto3" json:"output_columns,omitempty"`
	WorkerCount   int32   `protobuf:"varint,3,opt,name=worker_count,json=workerCount,proto3" json:"worker_count,omitempty"`
	Relation      string  `protobuf:"bytes,4,opt,name=relation,proto3" json:"relation,omitempty"`
	K             int32   `protobuf:"varint,5,opt,name=k,proto3" json:"k,omitempty"`
	Radius        float64 `protobuf:"fixed64,6,opt,name=radius,proto3" json:"radius,omitempty"`
}

func (m *JoinOptionsProto) Reset()         { *m = JoinOptionsProto{} }
func (m *JoinOptionsProto) String() string { return proto.CompactTextString(m) }
func (*JoinOptionsProto) ProtoMessage()    {}

// StoreOptionsProto configures the terminal store operators
type StoreOptionsProto struct {
	Force            bool   `protobuf:"varint,1,opt,name=force,proto3" json:"force,omitempty"`
	Append           bool   `protobuf:"varint,2,opt,name=append,proto3" json:"append,omitempty"`
	GeometryColumn   string `protobuf:"bytes,3,opt,name=geometry_column,json=geometryColumn,proto3" json:"geometry_column,omitempty"`
	Srid             string `protobuf:"bytes,4,opt,name=srid,proto3" json:"srid,omitempty"`
	BlockSize        int64  `protobuf:"varint,5,opt,name=block_size,json=blockSize,proto3" json:"block_size,omitempty"`
	CompressionCodec string `protobuf:"bytes,6,opt,name=compression_codec,json=compressionCodec,proto3" json:"compression_codec,omitempty"`
	PartitionColumn  string `protobuf:"bytes,7,opt,name=partition_column,json=partitionColumn,proto3" json:"partition_column,omitempty"`
	Format           string `protobuf:"bytes,8,opt,name=format,proto3" json:"format,omitempty"`
	Target           string `protobuf:"bytes,9,opt,name=target,proto3" json:"target,omitempty"`
	Delimiter        string `protobuf:"bytes,10,opt,name=delimiter,proto3" json:"delimiter,omitempty"`
	Header           bool   `protobuf:"varint,11,opt,name=header,proto3" json:"header,omitempty"`
}

func (m *StoreOptionsProto) Reset()         { *m = StoreOptionsProto{} }
func (m *StoreOptionsProto) String() string { return proto.CompactTextString(m) }
func (*StoreOptionsProto) ProtoMessage()    {}

// GetForce reports whether the store may overwrite an existing dataset
func (m *StoreOptionsProto) GetForce() bool {
	if m != nil {
		return m.Force
	}
	return false
}

// GetAppend reports whether the store appends to an existing dataset
func (m *StoreOptionsProto) GetAppend() bool {
	if m != nil {
		return m.Append
	}
	return false
}

// GetGeometryColumn returns the geometry column of the stored dataset
func (m *StoreOptionsProto) GetGeometryColumn() string {
	if m != nil {
		return m.GeometryColumn
	}
	return ""
}

// GridProto describes a square or hexagonal grid
type GridProto struct {
	Bounds     *EnvelopeProto `protobuf:"bytes,1,opt,name=bounds,proto3" json:"bounds,omitempty"`
	CellWidth  float64        `protobuf:"fixed64,2,opt,name=cell_width,json=cellWidth,proto3" json:"cell_width,omitempty"`
	CellHeight float64        `protobuf:"fixed64,3,opt,name=cell_height,json=cellHeight,proto3" json:"cell_height,omitempty"`
	PartCount  int32          `protobuf:"varint,4,opt,name=part_count,json=partCount,proto3" json:"part_count,omitempty"`
	SideLength float64        `protobuf:"fixed64,5,opt,name=side_length,json=sideLength,proto3" json:"side_length,omitempty"`
	Dataset    string         `protobuf:"bytes,6,opt,name=dataset,proto3" json:"dataset,omitempty"`
}

func (m *GridProto) Reset()         { *m = GridProto{} }
func (m *GridProto) String() string { return proto.CompactTextString(m) }
func (*GridProto) ProtoMessage()    {}

// SortKeyProto is one sort column
type SortKeyProto struct {
	Column     string `protobuf:"bytes,1,opt,name=column,proto3" json:"column,omitempty"`
	Descending bool   `protobuf:"varint,2,opt,name=descending,proto3" json:"descending,omitempty"`
	NullsFirst bool   `protobuf:"varint,3,opt,name=nulls_first,json=nullsFirst,proto3" json:"nulls_first,omitempty"`
}

func (m *SortKeyProto) Reset()         { *m = SortKeyProto{} }
func (m *SortKeyProto) String() string { return proto.CompactTextString(m) }
func (*SortKeyProto) ProtoMessage()    {}

// OperatorProto is a flat union of operator parameters; Kind selects which
// fields are meaningful.
type OperatorProto struct {
	Kind         int32              `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Dataset      string             `protobuf:"bytes,2,opt,name=dataset,proto3" json:"dataset,omitempty"`
	Datasets     []string           `protobuf:"bytes,3,rep,name=datasets,proto3" json:"datasets,omitempty"`
	Columns      []string           `protobuf:"bytes,4,rep,name=columns,proto3" json:"columns,omitempty"`
	Expr         string             `protobuf:"bytes,5,opt,name=expr,proto3" json:"expr,omitempty"`
	GeomColumn   string             `protobuf:"bytes,6,opt,name=geom_column,json=geomColumn,proto3" json:"geom_column,omitempty"`
	OutColumn    string             `protobuf:"bytes,7,opt,name=out_column,json=outColumn,proto3" json:"out_column,omitempty"`
	Count        int64              `protobuf:"varint,8,opt,name=count,proto3" json:"count,omitempty"`
	Distance     float64            `protobuf:"fixed64,9,opt,name=distance,proto3" json:"distance,omitempty"`
	Range        *EnvelopeProto     `protobuf:"bytes,10,opt,name=range,proto3" json:"range,omitempty"`
	Aggregates   []*AggregateProto  `protobuf:"bytes,11,rep,name=aggregates,proto3" json:"aggregates,omitempty"`
	Join         *JoinOptionsProto  `protobuf:"bytes,12,opt,name=join,proto3" json:"join,omitempty"`
	Store        *StoreOptionsProto `protobuf:"bytes,13,opt,name=store,proto3" json:"store,omitempty"`
	Grid         *GridProto         `protobuf:"bytes,14,opt,name=grid,proto3" json:"grid,omitempty"`
	Relation     string             `protobuf:"bytes,15,opt,name=relation,proto3" json:"relation,omitempty"`
	Options      []*KeyValueProto   `protobuf:"bytes,16,rep,name=options,proto3" json:"options,omitempty"`
	SortKeys     []*SortKeyProto    `protobuf:"bytes,17,rep,name=sort_keys,json=sortKeys,proto3" json:"sort_keys,omitempty"`
	Geohashes    []string           `protobuf:"bytes,18,rep,name=geohashes,proto3" json:"geohashes,omitempty"`
	Ratio        float64            `protobuf:"fixed64,19,opt,name=ratio,proto3" json:"ratio,omitempty"`
	FromSrid     string             `protobuf:"bytes,20,opt,name=from_srid,json=fromSrid,proto3" json:"from_srid,omitempty"`
	ToSrid       string             `protobuf:"bytes,21,opt,name=to_srid,json=toSrid,proto3" json:"to_srid,omitempty"`
	ParamDataset string             `protobuf:"bytes,22,opt,name=param_dataset,json=paramDataset,proto3" json:"param_dataset,omitempty"`
	ParamColumns []string           `protobuf:"bytes,23,rep,name=param_columns,json=paramColumns,proto3" json:"param_columns,omitempty"`
	SplitCount   int32              `protobuf:"varint,24,opt,name=split_count,json=splitCount,proto3" json:"split_count,omitempty"`
	SubPlan      *PlanProto         `protobuf:"bytes,25,opt,name=sub_plan,json=subPlan,proto3" json:"sub_plan,omitempty"`
	Schema       *RecordSchemaProto `protobuf:"bytes,26,opt,name=schema,proto3" json:"schema,omitempty"`
	TagColumns   []string           `protobuf:"bytes,27,rep,name=tag_columns,json=tagColumns,proto3" json:"tag_columns,omitempty"`
	TypeCode     int32              `protobuf:"varint,28,opt,name=type_code,json=typeCode,proto3" json:"type_code,omitempty"`
	QuadKeys     []string           `protobuf:"bytes,29,rep,name=quad_keys,json=quadKeys,proto3" json:"quad_keys,omitempty"`
}

func (m *OperatorProto) Reset()         { *m = OperatorProto{} }
func (m *OperatorProto) String() string { return proto.CompactTextString(m) }
func (*OperatorProto) ProtoMessage()    {}

// GetStore returns the store options, if any
func (m *OperatorProto) GetStore() *StoreOptionsProto {
	if m != nil {
		return m.Store
	}
	return nil
}

// GetJoin returns the join options, if any
func (m *OperatorProto) GetJoin() *JoinOptionsProto {
	if m != nil {
		return m.Join
	}
	return nil
}
