package plan

import (
	"fmt"
	"strings"

	"github.com/go-marmot/marmot"
)

// ColumnSelection is a parsed Project expression: either an explicit list
// of columns, or every column except some
type ColumnSelection struct {
	Columns []string
	All     bool
	Except  []string
}

// ParseColumnSelection parses "a,b", "*" or "*-{a,b}"
func ParseColumnSelection(expr string) (ColumnSelection, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return ColumnSelection{}, fmt.Errorf("empty column selection")
	case expr == "*":
		return ColumnSelection{All: true}, nil
	case strings.HasPrefix(expr, "*-"):
		rest := strings.TrimSpace(expr[2:])
		if strings.HasPrefix(rest, "{") {
			if !strings.HasSuffix(rest, "}") {
				return ColumnSelection{}, fmt.Errorf("unbalanced braces in %q", expr)
			}
			rest = rest[1 : len(rest)-1]
		}
		except := splitColumns(rest)
		if len(except) == 0 {
			return ColumnSelection{}, fmt.Errorf("no column excluded in %q", expr)
		}
		return ColumnSelection{All: true, Except: except}, nil
	}
	cols := splitColumns(expr)
	for _, col := range cols {
		if strings.ContainsAny(col, "*{}") {
			return ColumnSelection{}, fmt.Errorf("invalid column name %q", col)
		}
	}
	return ColumnSelection{Columns: cols}, nil
}

// Apply returns the schema selected from schema
func (s ColumnSelection) Apply(schema *marmot.RecordSchema) (*marmot.RecordSchema, error) {
	if s.All {
		return schema.Complement(s.Except...)
	}
	return schema.Project(s.Columns...)
}

// String renders s in the syntax accepted by ParseColumnSelection
func (s ColumnSelection) String() string {
	if !s.All {
		return strings.Join(s.Columns, ",")
	}
	if len(s.Except) == 0 {
		return "*"
	}
	return "*-{" + strings.Join(s.Except, ",") + "}"
}
