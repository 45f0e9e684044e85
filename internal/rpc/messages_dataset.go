package rpc

import (
	"github.com/golang/protobuf/proto"
)

// GeometryColumnInfoProto names a dataset's default geometry column
type GeometryColumnInfoProto struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Srid string `protobuf:"bytes,2,opt,name=srid,proto3" json:"srid,omitempty"`
}

func (m *GeometryColumnInfoProto) Reset()         { *m = GeometryColumnInfoProto{} }
func (m *GeometryColumnInfoProto) String() string { return proto.CompactTextString(m) }
func (*GeometryColumnInfoProto) ProtoMessage()    {}

// DataSetInfoProto describes a stored dataset
type DataSetInfoProto struct {
	Id               string                   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Type             int32                    `protobuf:"varint,2,opt,name=type,proto3" json:"type,omitempty"`
	Schema           *RecordSchemaProto       `protobuf:"bytes,3,opt,name=schema,proto3" json:"schema,omitempty"`
	GeometryColumn   *GeometryColumnInfoProto `protobuf:"bytes,4,opt,name=geometry_column,json=geometryColumn,proto3" json:"geometry_column,omitempty"`
	Bounds           *EnvelopeProto           `protobuf:"bytes,5,opt,name=bounds,proto3" json:"bounds,omitempty"`
	RecordCount      int64                    `protobuf:"varint,6,opt,name=record_count,json=recordCount,proto3" json:"record_count,omitempty"`
	HdfsPath         string                   `protobuf:"bytes,7,opt,name=hdfs_path,json=hdfsPath,proto3" json:"hdfs_path,omitempty"`
	BlockSize        int64                    `protobuf:"varint,8,opt,name=block_size,json=blockSize,proto3" json:"block_size,omitempty"`
	CompressionCodec string                   `protobuf:"bytes,9,opt,name=compression_codec,json=compressionCodec,proto3" json:"compression_codec,omitempty"`
	HasSpatialIndex  bool                     `protobuf:"varint,10,opt,name=has_spatial_index,json=hasSpatialIndex,proto3" json:"has_spatial_index,omitempty"`
	UpdatedMillis    int64                    `protobuf:"varint,11,opt,name=updated_millis,json=updatedMillis,proto3" json:"updated_millis,omitempty"`
}

func (m *DataSetInfoProto) Reset()         { *m = DataSetInfoProto{} }
func (m *DataSetInfoProto) String() string { return proto.CompactTextString(m) }
func (*DataSetInfoProto) ProtoMessage()    {}

// GetSchema returns the dataset schema, if any
func (m *DataSetInfoProto) GetSchema() *RecordSchemaProto {
	if m != nil {
		return m.Schema
	}
	return nil
}

// GetGeometryColumn returns the geometry column info, if any
func (m *DataSetInfoProto) GetGeometryColumn() *GeometryColumnInfoProto {
	if m != nil {
		return m.GeometryColumn
	}
	return nil
}

// DataSetInfoListProto is a list of dataset descriptions
type DataSetInfoListProto struct {
	Infos []*DataSetInfoProto `protobuf:"bytes,1,rep,name=infos,proto3" json:"infos,omitempty"`
}

func (m *DataSetInfoListProto) Reset()         { *m = DataSetInfoListProto{} }
func (m *DataSetInfoListProto) String() string { return proto.CompactTextString(m) }
func (*DataSetInfoListProto) ProtoMessage()    {}

// GetInfos returns the list, or nil for a nil DataSetInfoListProto
func (m *DataSetInfoListProto) GetInfos() []*DataSetInfoProto {
	if m != nil {
		return m.Infos
	}
	return nil
}

// CreateDataSetOptionsProto configures dataset creation
type CreateDataSetOptionsProto struct {
	GeometryColumn   *GeometryColumnInfoProto `protobuf:"bytes,1,opt,name=geometry_column,json=geometryColumn,proto3" json:"geometry_column,omitempty"`
	Force            bool                     `protobuf:"varint,2,opt,name=force,proto3" json:"force,omitempty"`
	BlockSize        int64                    `protobuf:"varint,3,opt,name=block_size,json=blockSize,proto3" json:"block_size,omitempty"`
	CompressionCodec string                   `protobuf:"bytes,4,opt,name=compression_codec,json=compressionCodec,proto3" json:"compression_codec,omitempty"`
	Type             int32                    `protobuf:"varint,5,opt,name=type,proto3" json:"type,omitempty"`
}

func (m *CreateDataSetOptionsProto) Reset()         { *m = CreateDataSetOptionsProto{} }
func (m *CreateDataSetOptionsProto) String() string { return proto.CompactTextString(m) }
func (*CreateDataSetOptionsProto) ProtoMessage()    {}

// GetForce reports whether an existing dataset may be replaced
func (m *CreateDataSetOptionsProto) GetForce() bool {
	if m != nil {
		return m.Force
	}
	return false
}

// CreateDataSetRequest creates an empty dataset
type CreateDataSetRequest struct {
	Id      string                     `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Schema  *RecordSchemaProto         `protobuf:"bytes,2,opt,name=schema,proto3" json:"schema,omitempty"`
	Options *CreateDataSetOptionsProto `protobuf:"bytes,3,opt,name=options,proto3" json:"options,omitempty"`
}

func (m *CreateDataSetRequest) Reset()         { *m = CreateDataSetRequest{} }
func (m *CreateDataSetRequest) String() string { return proto.CompactTextString(m) }
func (*CreateDataSetRequest) ProtoMessage()    {}

// CreateDataSetFromPlanRequest creates a dataset holding a plan's output
type CreateDataSetFromPlanRequest struct {
	Id      string                     `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Plan    *PlanProto                 `protobuf:"bytes,2,opt,name=plan,proto3" json:"plan,omitempty"`
	Options *CreateDataSetOptionsProto `protobuf:"bytes,3,opt,name=options,proto3" json:"options,omitempty"`
}

func (m *CreateDataSetFromPlanRequest) Reset()         { *m = CreateDataSetFromPlanRequest{} }
func (m *CreateDataSetFromPlanRequest) String() string { return proto.CompactTextString(m) }
func (*CreateDataSetFromPlanRequest) ProtoMessage()    {}

// ListDataSetsInFolderRequest lists the datasets below a folder
type ListDataSetsInFolderRequest struct {
	Folder    string `protobuf:"bytes,1,opt,name=folder,proto3" json:"folder,omitempty"`
	Recursive bool   `protobuf:"varint,2,opt,name=recursive,proto3" json:"recursive,omitempty"`
}

func (m *ListDataSetsInFolderRequest) Reset()         { *m = ListDataSetsInFolderRequest{} }
func (m *ListDataSetsInFolderRequest) String() string { return proto.CompactTextString(m) }
func (*ListDataSetsInFolderRequest) ProtoMessage()    {}

// MoveDataSetRequest renames a dataset
type MoveDataSetRequest struct {
	From string `protobuf:"bytes,1,opt,name=from,proto3" json:"from,omitempty"`
	To   string `protobuf:"bytes,2,opt,name=to,proto3" json:"to,omitempty"`
}

func (m *MoveDataSetRequest) Reset()         { *m = MoveDataSetRequest{} }
func (m *MoveDataSetRequest) String() string { return proto.CompactTextString(m) }
func (*MoveDataSetRequest) ProtoMessage()    {}

// CreateSpatialIndexRequest builds a spatial index over a dataset
type CreateSpatialIndexRequest struct {
	Id          string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	SampleSize  int32  `protobuf:"varint,2,opt,name=sample_size,json=sampleSize,proto3" json:"sample_size,omitempty"`
	BlockSize   int64  `protobuf:"varint,3,opt,name=block_size,json=blockSize,proto3" json:"block_size,omitempty"`
	WorkerCount int32  `protobuf:"varint,4,opt,name=worker_count,json=workerCount,proto3" json:"worker_count,omitempty"`
}

func (m *CreateSpatialIndexRequest) Reset()         { *m = CreateSpatialIndexRequest{} }
func (m *CreateSpatialIndexRequest) String() string { return proto.CompactTextString(m) }
func (*CreateSpatialIndexRequest) ProtoMessage()    {}

// AppendRecordSetHeader is the header payload of DataSetService.AppendRecordSet
type AppendRecordSetHeader struct {
	Id     string             `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Schema *RecordSchemaProto `protobuf:"bytes,2,opt,name=schema,proto3" json:"schema,omitempty"`
}

func (m *AppendRecordSetHeader) Reset()         { *m = AppendRecordSetHeader{} }
func (m *AppendRecordSetHeader) String() string { return proto.CompactTextString(m) }
func (*AppendRecordSetHeader) ProtoMessage()    {}

// ReadDataSetHeader is the header payload of DataSetService.ReadDataSet
type ReadDataSetHeader struct {
	Id string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
}

func (m *ReadDataSetHeader) Reset()         { *m = ReadDataSetHeader{} }
func (m *ReadDataSetHeader) String() string { return proto.CompactTextString(m) }
func (*ReadDataSetHeader) ProtoMessage()    {}

// QueryRangeHeader is the header payload of DataSetService.QueryRange
type QueryRangeHeader struct {
	Id          string         `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Range       *EnvelopeProto `protobuf:"bytes,2,opt,name=range,proto3" json:"range,omitempty"`
	SampleCount int32          `protobuf:"varint,3,opt,name=sample_count,json=sampleCount,proto3" json:"sample_count,omitempty"`
}

func (m *QueryRangeHeader) Reset()         { *m = QueryRangeHeader{} }
func (m *QueryRangeHeader) String() string { return proto.CompactTextString(m) }
func (*QueryRangeHeader) ProtoMessage()    {}

// RecordSetHeader precedes the records of every downloaded record set
type RecordSetHeader struct {
	Schema *RecordSchemaProto `protobuf:"bytes,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

func (m *RecordSetHeader) Reset()         { *m = RecordSetHeader{} }
func (m *RecordSetHeader) String() string { return proto.CompactTextString(m) }
func (*RecordSetHeader) ProtoMessage()    {}
