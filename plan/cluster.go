package plan

import (
	"fmt"

	"github.com/go-marmot/marmot/geo"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/paulmach/orb"
)

// EstimateQuadKeysOptions configures EstimateQuadKeys
type EstimateQuadKeysOptions struct {
	GeometryColumn string
	SampleRatio    float64   // fraction of records to sample
	ClusterSize    int64     // target cluster size, in bytes
	ValidRange     orb.Bound // restricts the estimate, if not empty
}

// EstimateQuadKeys samples the input and produces the quad-keys which split
// it into clusters of roughly ClusterSize bytes
func EstimateQuadKeys(opts EstimateQuadKeysOptions) Operator {
	return newOperator(OpEstimateQuadKeys, func(m *pb.OperatorProto) error {
		if opts.GeometryColumn == "" {
			return fmt.Errorf("missing geometry column")
		}
		if opts.SampleRatio <= 0 || opts.SampleRatio > 1 {
			return fmt.Errorf("sample ratio must be in (0, 1], got %g", opts.SampleRatio)
		}
		if opts.ClusterSize <= 0 {
			return fmt.Errorf("cluster size must be positive, got %d", opts.ClusterSize)
		}
		m.GeomColumn = opts.GeometryColumn
		m.Ratio = opts.SampleRatio
		m.Count = opts.ClusterSize
		if opts.ValidRange != (orb.Bound{}) && !geo.IsEmpty(opts.ValidRange) {
			m.Range = pbconv.EnvelopeToProto(opts.ValidRange)
		}
		return nil
	})
}

// ClusterByQuadKey groups records into the clusters named by quadKeys
func ClusterByQuadKey(col string, quadKeys []string) Operator {
	return newOperator(OpClusterByQuadKey, func(m *pb.OperatorProto) error {
		if col == "" {
			return fmt.Errorf("missing geometry column")
		}
		if err := validateQuadKeys(quadKeys); err != nil {
			return err
		}
		m.GeomColumn = col
		m.QuadKeys = quadKeys
		return nil
	})
}

// EstimateIDWValue estimates valueCol at each geometry by inverse distance
// weighting over the k nearest records of param within radius
func EstimateIDWValue(col string, param string, valueCol string, out string, radius float64, k int32) Operator {
	return newOperator(OpEstimateIDWValue, func(m *pb.OperatorProto) error {
		if col == "" || param == "" || valueCol == "" || out == "" {
			return fmt.Errorf("missing geometry column, parameter dataset, value column or output")
		}
		if radius <= 0 || k <= 0 {
			return fmt.Errorf("radius and k must be positive")
		}
		m.GeomColumn = col
		m.ParamDataset = param
		m.ParamColumns = []string{valueCol}
		m.OutColumn = out
		m.Join = &pb.JoinOptionsProto{K: k, Radius: radius}
		return nil
	})
}

// InterpolateSpatially is EstimateIDWValue with a named interpolation method
func InterpolateSpatially(col string, param string, valueCol string, out string, radius float64, method string) Operator {
	return newOperator(OpInterpolateSpatially, func(m *pb.OperatorProto) error {
		if col == "" || param == "" || valueCol == "" || out == "" {
			return fmt.Errorf("missing geometry column, parameter dataset, value column or output")
		}
		if radius <= 0 {
			return fmt.Errorf("radius must be positive, got %g", radius)
		}
		if method == "" {
			return fmt.Errorf("missing interpolation method")
		}
		m.GeomColumn = col
		m.ParamDataset = param
		m.ParamColumns = []string{valueCol}
		m.OutColumn = out
		m.Expr = method
		m.Join = &pb.JoinOptionsProto{Radius: radius}
		return nil
	})
}

// KMeans assigns each point to one of k clusters, writing its index to
// clusterCol
func KMeans(col string, clusterCol string, k int32, maxIter int64) Operator {
	return newOperator(OpKMeans, func(m *pb.OperatorProto) error {
		if col == "" || clusterCol == "" {
			return fmt.Errorf("missing geometry or cluster column")
		}
		if k <= 0 || maxIter <= 0 {
			return fmt.Errorf("k and the iteration count must be positive")
		}
		m.GeomColumn = col
		m.OutColumn = clusterCol
		m.Count = maxIter
		m.Join = &pb.JoinOptionsProto{K: k}
		return nil
	})
}

// CollectToArrayColumn collects the values of cols, over all records, into
// a single record
func CollectToArrayColumn(cols ...string) Operator {
	return newOperator(OpCollectToArrayColumn, func(m *pb.OperatorProto) error {
		if len(cols) == 0 {
			return fmt.Errorf("no column")
		}
		m.Columns = cols
		return nil
	})
}

// BuildThumbnail stores a sample of sampleCount records as the thumbnail of
// dataset id
func BuildThumbnail(id string, sampleCount int64) Operator {
	return newOperator(OpBuildThumbnail, func(m *pb.OperatorProto) error {
		if id == "" {
			return fmt.Errorf("missing dataset id")
		}
		if sampleCount <= 0 {
			return fmt.Errorf("sample count must be positive, got %d", sampleCount)
		}
		m.Dataset = id
		m.Count = sampleCount
		return nil
	})
}

// CreateSpatialIndex builds the spatial cluster index of dataset id from
// the clustered records
func CreateSpatialIndex(id string) Operator {
	return newOperator(OpCreateSpatialIndex, func(m *pb.OperatorProto) error {
		if id == "" {
			return fmt.Errorf("missing dataset id")
		}
		m.Dataset = id
		return nil
	})
}
