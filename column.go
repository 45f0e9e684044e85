package marmot

import (
	"fmt"
	"strings"
)

// Column describes a named, typed field of a RecordSchema
type Column struct {
	Name    string
	Type    DataType
	Ordinal int
}

// String returns the "name:type" form of this Column, as used in schema strings
func (c Column) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Type.Name())
}

// Matches returns true iff this Column's name equals name, ignoring case
func (c Column) Matches(name string) bool {
	return strings.EqualFold(c.Name, name)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
