package marmot

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// DataSetType describes how a DataSet is stored by the server
type DataSetType int32

const (
	// FileDataSet is a DataSet stored as Marmot record files
	FileDataSet DataSetType = iota
	// LinkDataSet refers to files owned by another system
	LinkDataSet
	// TextDataSet is a DataSet stored as delimited text
	TextDataSet
	// SpatialClusterDataSet is a DataSet stored as spatial clusters
	SpatialClusterDataSet
)

// String returns the name of this DataSetType
func (t DataSetType) String() string {
	switch t {
	case FileDataSet:
		return "FILE"
	case LinkDataSet:
		return "LINK"
	case TextDataSet:
		return "TEXT"
	case SpatialClusterDataSet:
		return "SPATIAL_CLUSTER"
	default:
		return fmt.Sprintf("DataSetType(%d)", int32(t))
	}
}

// GeometryColumnInfo names the default geometry column of a DataSet, and its SRID
type GeometryColumnInfo struct {
	Name string
	SRID string
}

// String returns the "name(srid)" form of this GeometryColumnInfo
func (g GeometryColumnInfo) String() string {
	return fmt.Sprintf("%s(%s)", g.Name, g.SRID)
}

// ParseGeometryColumnInfo parses the output of GeometryColumnInfo.String()
func ParseGeometryColumnInfo(str string) (GeometryColumnInfo, error) {
	open := strings.IndexByte(str, '(')
	if open <= 0 || !strings.HasSuffix(str, ")") {
		return GeometryColumnInfo{}, fmt.Errorf("Invalid geometry column info %q", str)
	}
	return GeometryColumnInfo{Name: str[:open], SRID: str[open+1 : len(str)-1]}, nil
}

// DataSetInfo is the catalog entry of a DataSet
type DataSetInfo struct {
	ID               string
	Type             DataSetType
	Schema           *RecordSchema
	GeometryColumn   *GeometryColumnInfo
	Bounds           orb.Bound
	RecordCount      int64
	HdfsPath         string
	BlockSize        int64
	CompressionCodec string
	HasSpatialIndex  bool
	UpdatedMillis    int64
}

// Folder returns the folder part of this DataSet's id ("" for the root)
func (info *DataSetInfo) Folder() string {
	return FolderOf(info.ID)
}

// FolderOf returns the folder part of a DataSet id ("" for the root)
func FolderOf(id string) string {
	idx := strings.LastIndexByte(id, '/')
	if idx < 0 {
		return ""
	}
	return id[:idx]
}

// QueryOption configures a range query
type QueryOption func(*QueryOptions)

// QueryOptions holds the options of a range query
type QueryOptions struct {
	SampleCount int64
}

// WithSampleCount limits a range query to approximately n Records
func WithSampleCount(n int64) QueryOption {
	return func(o *QueryOptions) {
		o.SampleCount = n
	}
}

// SpatialIndexOptions configures spatial index creation
type SpatialIndexOptions struct {
	SampleSize  int64
	BlockSize   int64
	WorkerCount int32
}

// DataSet is a handle on a server-side DataSet
type DataSet interface {
	ID() string
	Info() *DataSetInfo
	Read(ctx context.Context) (RecordSet, error)
	Query(ctx context.Context, bound orb.Bound, opts ...QueryOption) (RecordSet, error)
	Append(ctx context.Context, rs RecordSet) (int64, error)
	CreateSpatialIndex(ctx context.Context, opts SpatialIndexOptions) error
	Refresh(ctx context.Context) error
}
