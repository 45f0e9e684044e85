package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-marmot/marmot/geo"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/paulmach/orb"
)

// LoadOptions configures Load
type LoadOptions struct {
	SplitCount int32 // number of splits per dataset block. Defaults to the server's choice.
}

// Load reads one or more datasets. Their schemas must be identical.
func Load(ids ...string) Operator {
	return LoadWith(LoadOptions{}, ids...)
}

// LoadWith is Load with options
func LoadWith(opts LoadOptions, ids ...string) Operator {
	return newOperator(OpLoad, func(m *pb.OperatorProto) error {
		if err := requireIDs(ids); err != nil {
			return err
		}
		if opts.SplitCount < 0 {
			return fmt.Errorf("negative split count %d", opts.SplitCount)
		}
		m.Datasets = ids
		m.SplitCount = opts.SplitCount
		return nil
	})
}

// LoadTextFile reads text files as records of (key:long, text:string)
func LoadTextFile(paths ...string) Operator {
	return newOperator(OpLoadTextFile, func(m *pb.OperatorProto) error {
		if err := requireIDs(paths); err != nil {
			return err
		}
		m.Datasets = paths
		return nil
	})
}

// CsvOptions configures the CSV loaders and writers
type CsvOptions struct {
	Delimiter     rune   // Defaults to ','
	Quote         rune   // Defaults to '"'
	Header        bool   // The first line holds the column names
	HeaderColumns string // Column names to use when the input has no header line, e.g. "id,name"
	NullValue     string // Text which is read as null
	PointColumns  string // "x,y" columns which are combined into a point column
	Srid          string // SRID of the point column
}

func (o CsvOptions) toKeyValues() []*pb.KeyValueProto {
	var kvs []*pb.KeyValueProto
	add := func(k, v string) {
		if v != "" {
			kvs = append(kvs, &pb.KeyValueProto{Key: k, Value: v})
		}
	}
	if o.Delimiter != 0 {
		add("delimiter", string(o.Delimiter))
	}
	if o.Quote != 0 {
		add("quote", string(o.Quote))
	}
	if o.Header {
		add("header", strconv.FormatBool(o.Header))
	}
	add("header_columns", o.HeaderColumns)
	add("null_value", o.NullValue)
	add("point_columns", o.PointColumns)
	add("srid", o.Srid)
	return kvs
}

func (o CsvOptions) validate() error {
	if o.Header && o.HeaderColumns != "" {
		return fmt.Errorf("header and header columns are mutually exclusive")
	}
	if o.Delimiter != 0 && o.Delimiter == o.Quote {
		return fmt.Errorf("delimiter and quote must differ")
	}
	if o.PointColumns != "" && len(splitColumns(o.PointColumns)) != 2 {
		return fmt.Errorf("point columns must name exactly two columns, got %q", o.PointColumns)
	}
	return nil
}

// LoadCsvFiles reads CSV files found under path
func LoadCsvFiles(path string, opts CsvOptions) Operator {
	return newOperator(OpLoadCsvFiles, func(m *pb.OperatorProto) error {
		if path == "" {
			return fmt.Errorf("missing path")
		}
		if err := opts.validate(); err != nil {
			return err
		}
		m.Dataset = path
		m.Options = opts.toKeyValues()
		return nil
	})
}

// LoadMarmotFile reads files in Marmot's native record format
func LoadMarmotFile(paths ...string) Operator {
	return newOperator(OpLoadMarmotFile, func(m *pb.OperatorProto) error {
		if err := requireIDs(paths); err != nil {
			return err
		}
		m.Datasets = paths
		return nil
	})
}

// QueryOptions configures Query
type QueryOptions struct {
	// GeohashPrecision, when non-zero, attaches the geohash cells covering the
	// query range so that the server can prune blocks before testing geometries
	GeohashPrecision uint
	// SampleCount, when positive, limits the result to a random sample
	SampleCount int64
}

// Query reads the records of a spatially indexed dataset whose geometry
// intersects bound
func Query(id string, bound orb.Bound, opts QueryOptions) Operator {
	return newOperator(OpQuery, func(m *pb.OperatorProto) error {
		if id == "" {
			return fmt.Errorf("missing dataset id")
		}
		if geo.IsEmpty(bound) {
			return fmt.Errorf("empty query range")
		}
		if opts.GeohashPrecision > geo.MaxGeohashPrecision {
			return fmt.Errorf("geohash precision %d exceeds %d", opts.GeohashPrecision, geo.MaxGeohashPrecision)
		}
		if opts.SampleCount < 0 {
			return fmt.Errorf("negative sample count %d", opts.SampleCount)
		}
		m.Dataset = id
		m.Range = pbconv.EnvelopeToProto(bound)
		m.Count = opts.SampleCount
		if opts.GeohashPrecision > 0 {
			m.Geohashes = geo.GeohashCover(bound, opts.GeohashPrecision)
		}
		return nil
	})
}

// LoadSquareGridFile generates the cells of a square grid as records of
// (the_geom:polygon, cell_id:long, cell_pos:grid_cell), in partCount parts
func LoadSquareGridFile(grid geo.SquareGrid, partCount int32) Operator {
	return newOperator(OpLoadSquareGridFile, func(m *pb.OperatorProto) error {
		if err := grid.Validate(); err != nil {
			return err
		}
		if partCount <= 0 {
			return fmt.Errorf("part count must be positive, got %d", partCount)
		}
		m.Grid = &pb.GridProto{
			Bounds:     pbconv.EnvelopeToProto(grid.Bounds),
			CellWidth:  grid.CellSize.Width,
			CellHeight: grid.CellSize.Height,
			PartCount:  partCount,
		}
		return nil
	})
}

// HexagonGrid describes a grid of hexagons with the given side length,
// covering either Bounds or the bounds of DataSet
type HexagonGrid struct {
	Bounds     orb.Bound
	DataSet    string
	SideLength float64
}

func (g HexagonGrid) validate() error {
	if g.SideLength <= 0 {
		return fmt.Errorf("side length must be positive, got %g", g.SideLength)
	}
	hasBounds := g.Bounds != (orb.Bound{}) && !geo.IsEmpty(g.Bounds)
	if hasBounds == (g.DataSet != "") {
		return fmt.Errorf("exactly one of bounds and dataset is required")
	}
	return nil
}

func (g HexagonGrid) toProto() *pb.GridProto {
	m := &pb.GridProto{SideLength: g.SideLength, Dataset: g.DataSet}
	if g.DataSet == "" {
		m.Bounds = pbconv.EnvelopeToProto(g.Bounds)
	}
	return m
}

// LoadHexagonGridFile generates the cells of a hexagonal grid
func LoadHexagonGridFile(grid HexagonGrid, partCount int32) Operator {
	return newOperator(OpLoadHexagonGridFile, func(m *pb.OperatorProto) error {
		if err := grid.validate(); err != nil {
			return err
		}
		if partCount <= 0 {
			return fmt.Errorf("part count must be positive, got %d", partCount)
		}
		m.Grid = grid.toProto()
		m.Grid.PartCount = partCount
		return nil
	})
}

// LoadSpatialClusterIndex reads the cluster index of a dataset, one record
// per cluster
func LoadSpatialClusterIndex(id string) Operator {
	return newOperator(OpLoadSpatialClusterIndex, func(m *pb.OperatorProto) error {
		if id == "" {
			return fmt.Errorf("missing dataset id")
		}
		m.Dataset = id
		return nil
	})
}

// LoadCustomTextFile reads a text dataset through the parser registered
// with it on the server
func LoadCustomTextFile(path string) Operator {
	return newOperator(OpLoadCustomTextFile, func(m *pb.OperatorProto) error {
		if path == "" {
			return fmt.Errorf("missing path")
		}
		m.Dataset = path
		return nil
	})
}

func requireIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("no dataset given")
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("dataset #%d is empty", i)
		}
	}
	return nil
}

// splitColumns splits a comma-separated column list, trimming each name
func splitColumns(expr string) []string {
	var cols []string
	for _, name := range strings.Split(expr, ",") {
		if name = strings.TrimSpace(name); name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}
