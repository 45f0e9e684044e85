package plan

import (
	"fmt"
	"strings"

	"github.com/go-marmot/marmot"
	"github.com/go-marmot/marmot/geo"
	"github.com/go-marmot/marmot/internal/pbconv"
	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/paulmach/orb"
)

// Filter keeps the records for which the predicate expression holds
func Filter(expr string) Operator {
	return newOperator(OpFilter, func(m *pb.OperatorProto) error {
		return setExpr(m, expr)
	})
}

// FilterSpatially keeps the records whose geometry column satisfies rel
// with respect to bound
func FilterSpatially(geomCol string, rel SpatialRelation, bound orb.Bound) Operator {
	return newOperator(OpFilterSpatially, func(m *pb.OperatorProto) error {
		if geomCol == "" {
			return fmt.Errorf("missing geometry column")
		}
		if err := rel.validate(); err != nil {
			return err
		}
		if geo.IsEmpty(bound) {
			return fmt.Errorf("empty key bound")
		}
		m.GeomColumn = geomCol
		m.Relation = rel.String()
		m.Range = pbconv.EnvelopeToProto(bound)
		return nil
	})
}

// Project keeps the listed columns, in order. "*" selects every column and
// "*-{a,b}" every column except a and b.
func Project(columnExpr string) Operator {
	return newOperator(OpProject, func(m *pb.OperatorProto) error {
		if _, err := ParseColumnSelection(columnExpr); err != nil {
			return err
		}
		m.Expr = columnExpr
		return nil
	})
}

// Update assigns column values with an expression such as "a = a + 1"
func Update(expr string) Operator {
	return newOperator(OpUpdate, func(m *pb.OperatorProto) error {
		return setExpr(m, expr)
	})
}

// Expand adds the declared columns (e.g. "area:double,len:int"), optionally
// initialized by an expression
func Expand(colDecls string, initExpr string) Operator {
	return newOperator(OpExpand, func(m *pb.OperatorProto) error {
		schema, err := marmot.ParseRecordSchema(colDecls)
		if err != nil {
			return err
		}
		if schema.ColumnCount() == 0 {
			return fmt.Errorf("no column declared")
		}
		m.Schema = pbconv.SchemaToProto(schema)
		m.Expr = initExpr
		return nil
	})
}

// DefineColumn adds or retypes a single column, e.g. DefineColumn("area:double", "ST_Area(the_geom)")
func DefineColumn(colDecl string, initExpr string) Operator {
	return newOperator(OpDefineColumn, func(m *pb.OperatorProto) error {
		schema, err := marmot.ParseRecordSchema(colDecl)
		if err != nil {
			return err
		}
		if schema.ColumnCount() != 1 {
			return fmt.Errorf("expected one column declaration, got %q", colDecl)
		}
		m.Schema = pbconv.SchemaToProto(schema)
		m.Expr = initExpr
		return nil
	})
}

// AssignUID adds a long column holding an id unique within the plan's output
func AssignUID(col string) Operator {
	return newOperator(OpAssignUID, func(m *pb.OperatorProto) error {
		if col == "" {
			return fmt.Errorf("missing uid column")
		}
		m.OutColumn = col
		return nil
	})
}

// Rename renames a column
func Rename(oldName string, newName string) Operator {
	return newOperator(OpRename, func(m *pb.OperatorProto) error {
		if oldName == "" || newName == "" {
			return fmt.Errorf("missing column name")
		}
		m.Columns = []string{oldName}
		m.OutColumn = newName
		return nil
	})
}

// Take keeps the first n records
func Take(n int64) Operator {
	return newOperator(OpTake, func(m *pb.OperatorProto) error {
		if n < 0 {
			return fmt.Errorf("negative count %d", n)
		}
		m.Count = n
		return nil
	})
}

// Drop skips the first n records
func Drop(n int64) Operator {
	return newOperator(OpDrop, func(m *pb.OperatorProto) error {
		if n < 0 {
			return fmt.Errorf("negative count %d", n)
		}
		m.Count = n
		return nil
	})
}

// Sample keeps each record with the given probability
func Sample(ratio float64) Operator {
	return newOperator(OpSample, func(m *pb.OperatorProto) error {
		if ratio <= 0 || ratio > 1 {
			return fmt.Errorf("sample ratio must be in (0, 1], got %g", ratio)
		}
		m.Ratio = ratio
		return nil
	})
}

// Shard redistributes records into the given number of parts
func Shard(parts int64) Operator {
	return newOperator(OpShard, func(m *pb.OperatorProto) error {
		if parts <= 0 {
			return fmt.Errorf("part count must be positive, got %d", parts)
		}
		m.Count = parts
		return nil
	})
}

// SortKey orders records by a column
type SortKey struct {
	Column     string
	Descending bool
	NullsFirst bool
}

// Asc is an ascending SortKey
func Asc(col string) SortKey {
	return SortKey{Column: col}
}

// Desc is a descending SortKey
func Desc(col string) SortKey {
	return SortKey{Column: col, Descending: true}
}

// ParseSortKeys parses a list such as "a:A,b:D" into SortKeys. A column
// without an order sorts ascending.
func ParseSortKeys(expr string) ([]SortKey, error) {
	var keys []SortKey
	for _, part := range splitColumns(expr) {
		pieces := strings.SplitN(part, ":", 2)
		key := SortKey{Column: strings.TrimSpace(pieces[0])}
		if len(pieces) == 2 {
			switch strings.ToUpper(strings.TrimSpace(pieces[1])) {
			case "A", "ASC":
			case "D", "DESC":
				key.Descending = true
			default:
				return nil, fmt.Errorf("invalid sort order in %q", part)
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func sortKeysToProto(keys []SortKey) ([]*pb.SortKeyProto, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("no sort key")
	}
	res := make([]*pb.SortKeyProto, len(keys))
	for i, key := range keys {
		if key.Column == "" {
			return nil, fmt.Errorf("sort key #%d has no column", i)
		}
		res[i] = &pb.SortKeyProto{Column: key.Column, Descending: key.Descending, NullsFirst: key.NullsFirst}
	}
	return res, nil
}

// Sort orders all records by keys
func Sort(keys ...SortKey) Operator {
	return newOperator(OpSort, func(m *pb.OperatorProto) (err error) {
		m.SortKeys, err = sortKeysToProto(keys)
		return err
	})
}

// Rank sorts by keys and stores each record's position in rankCol
func Rank(rankCol string, keys ...SortKey) Operator {
	return newOperator(OpRank, func(m *pb.OperatorProto) (err error) {
		if rankCol == "" {
			return fmt.Errorf("missing rank column")
		}
		m.OutColumn = rankCol
		m.SortKeys, err = sortKeysToProto(keys)
		return err
	})
}

// Distinct removes duplicate records, comparing only cols if given
func Distinct(cols ...string) Operator {
	return newOperator(OpDistinct, func(m *pb.OperatorProto) error {
		m.Columns = cols
		return nil
	})
}

// Tee stores a copy of the records into dataset id and passes them on
func Tee(id string, opts StoreOptions) Operator {
	return newOperator(OpTee, func(m *pb.OperatorProto) (err error) {
		if id == "" {
			return fmt.Errorf("missing dataset id")
		}
		m.Dataset = id
		m.Store, err = opts.toProto()
		return err
	})
}

// ParseCsv splits a text column into the columns of a CSV line
func ParseCsv(textCol string, opts CsvOptions) Operator {
	return newOperator(OpParseCsv, func(m *pb.OperatorProto) error {
		if textCol == "" {
			return fmt.Errorf("missing text column")
		}
		if !opts.Header && opts.HeaderColumns == "" {
			return fmt.Errorf("header columns are required")
		}
		if err := opts.validate(); err != nil {
			return err
		}
		m.Columns = []string{textCol}
		m.Options = opts.toKeyValues()
		return nil
	})
}

// Script runs a record-level script, optionally preceded by an initializer
func Script(expr string, initExpr string) Operator {
	return newOperator(OpScript, func(m *pb.OperatorProto) error {
		if err := setExpr(m, expr); err != nil {
			return err
		}
		if initExpr != "" {
			m.Options = []*pb.KeyValueProto{{Key: "initializer", Value: initExpr}}
		}
		return nil
	})
}

// Nop passes records through unchanged
func Nop() Operator {
	return newOperator(OpNop, nil)
}

func setExpr(m *pb.OperatorProto, expr string) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("missing expression")
	}
	m.Expr = expr
	return nil
}
