package recordio

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-marmot/marmot"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
)

// JSONLOptions configures ReadJSONL
type JSONLOptions struct {
	HeaderLines   int    // The number of lines to ignore from the beginning of the input. Defaults to 0.
	Comment       rune   // Lines beginning with the comment character are ignored. Defaults to no comment character.
	MaxBufferSize int    // Maximum size in bytes of a single line
	TimeFormat    string // Layout of datetime strings. Defaults to RFC3339.
}

type jsonlRecordSet struct {
	opts    JSONLOptions
	scanner *bufio.Scanner
	src     io.Reader
	schema  *marmot.RecordSchema
	line    int
	started bool
	closed  bool
}

// ReadJSONL produces a RecordSet from JSON Lines data. Each column name is
// a gjson path into the row object; values absent from a row are nil.
// Geometry columns accept GeoJSON geometry objects, and point columns also
// accept [lon, lat] arrays. If r is an io.Closer it is closed along with the
// RecordSet.
func ReadJSONL(r io.Reader, schema *marmot.RecordSchema, opts *JSONLOptions) marmot.RecordSet {
	conf := JSONLOptions{}
	if opts != nil {
		conf = *opts
	}
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	if conf.TimeFormat == "" {
		conf.TimeFormat = time.RFC3339Nano
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), conf.MaxBufferSize)
	return &jsonlRecordSet{opts: conf, scanner: scanner, src: r, schema: schema}
}

func (s *jsonlRecordSet) Schema() *marmot.RecordSchema {
	return s.schema
}

func (s *jsonlRecordSet) Next(ctx context.Context) (*marmot.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed {
		return nil, io.EOF
	}
	// ignore header lines, if configured to do so
	for !s.started && s.line < s.opts.HeaderLines {
		if !s.scanner.Scan() {
			return nil, s.scanErr()
		}
		s.line++
	}
	s.started = true
	for s.scanner.Scan() {
		s.line++
		row := s.scanner.Text()
		trimmed := strings.TrimSpace(row)
		if len(trimmed) == 0 || (s.opts.Comment != 0 && strings.HasPrefix(trimmed, string(s.opts.Comment))) {
			continue
		}
		rec, err := s.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("Unable to parse line %d: %w", s.line, err)
		}
		return rec, nil
	}
	return nil, s.scanErr()
}

func (s *jsonlRecordSet) scanErr() error {
	if err := s.scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (s *jsonlRecordSet) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if closer, ok := s.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *jsonlRecordSet) parseRow(row string) (*marmot.Record, error) {
	if !gjson.Valid(row) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.Parse(row)
	rec := marmot.NewRecord(s.schema)
	for i, col := range s.schema.Columns() {
		res := doc.Get(col.Name)
		if !res.Exists() || res.Type == gjson.Null {
			continue
		}
		v, err := parseJSONValue(col, res, s.opts.TimeFormat)
		if err != nil {
			return nil, err
		}
		if err := rec.Set(i, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func parseJSONValue(col marmot.Column, res gjson.Result, timeFormat string) (interface{}, error) {
	colType := col.Type
	switch colType.Code() {
	case marmot.ByteCode, marmot.ShortCode, marmot.IntCode, marmot.LongCode:
		if res.Type != gjson.Number || res.Num != math.Trunc(res.Num) {
			return nil, fmt.Errorf("Column %s was not an integer. Was: %s", col.Name, res.Raw)
		}
		v, ok := marmot.Coerce(colType, res.Int())
		if !ok {
			return nil, fmt.Errorf("Column %s value %s is out of range for %s", col.Name, res.Raw, colType.Name())
		}
		return v, nil
	case marmot.FloatCode:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("Column %s was not a number. Was: %s", col.Name, res.Raw)
		}
		return float32(res.Num), nil
	case marmot.DoubleCode:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("Column %s was not a number. Was: %s", col.Name, res.Raw)
		}
		return res.Num, nil
	case marmot.BooleanCode:
		if res.Type != gjson.True && res.Type != gjson.False {
			return nil, fmt.Errorf("Column %s was not a boolean. Was: %s", col.Name, res.Raw)
		}
		return res.Bool(), nil
	case marmot.StringCode:
		if res.Type != gjson.String {
			return nil, fmt.Errorf("Column %s was not a string. Was: %s", col.Name, res.Raw)
		}
		return res.Str, nil
	case marmot.BinaryCode:
		if res.Type != gjson.String {
			return nil, fmt.Errorf("Column %s was not a base64 string. Was: %s", col.Name, res.Raw)
		}
		return base64.StdEncoding.DecodeString(res.Str)
	case marmot.DateTimeCode, marmot.DateCode:
		return parseJSONTime(col, res, timeFormat)
	case marmot.TimeCode, marmot.DurationCode:
		switch res.Type {
		case gjson.Number:
			return time.Duration(res.Int()) * time.Millisecond, nil
		case gjson.String:
			return time.ParseDuration(res.Str)
		}
		return nil, fmt.Errorf("Column %s was not a duration. Was: %s", col.Name, res.Raw)
	case marmot.EnvelopeCode:
		nums := res.Array()
		if !res.IsArray() || len(nums) != 4 {
			return nil, fmt.Errorf("Column %s was not a [minx, miny, maxx, maxy] array. Was: %s", col.Name, res.Raw)
		}
		return orb.Bound{Min: orb.Point{nums[0].Num, nums[1].Num}, Max: orb.Point{nums[2].Num, nums[3].Num}}, nil
	}
	if !colType.IsGeometry() {
		return nil, fmt.Errorf("JSONL parsing does not support column type %s", colType.Name())
	}
	return parseJSONGeometry(col, res)
}

func parseJSONTime(col marmot.Column, res gjson.Result, timeFormat string) (interface{}, error) {
	var t time.Time
	switch res.Type {
	case gjson.Number:
		t = time.UnixMilli(res.Int()).UTC()
	case gjson.String:
		layout := timeFormat
		if col.Type.Code() == marmot.DateCode {
			layout = "2006-01-02"
		}
		parsed, err := time.Parse(layout, res.Str)
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed as %s with format %s. Was: %s", col.Name, col.Type.Name(), layout, res.Raw)
		}
		t = parsed
	default:
		return nil, fmt.Errorf("Column %s was not a time. Was: %s", col.Name, res.Raw)
	}
	v, _ := marmot.Coerce(col.Type, t)
	return v, nil
}

func parseJSONGeometry(col marmot.Column, res gjson.Result) (orb.Geometry, error) {
	var geom orb.Geometry
	switch {
	case res.IsObject():
		g, err := geojson.UnmarshalGeometry([]byte(res.Raw))
		if err != nil {
			return nil, fmt.Errorf("Column %s was not a GeoJSON geometry: %w", col.Name, err)
		}
		geom = g.Geometry()
	case res.IsArray():
		coords := res.Array()
		if len(coords) != 2 || coords[0].Type != gjson.Number || coords[1].Type != gjson.Number {
			return nil, fmt.Errorf("Column %s was not a [lon, lat] pair. Was: %s", col.Name, res.Raw)
		}
		geom = orb.Point{coords[0].Num, coords[1].Num}
	default:
		return nil, fmt.Errorf("Column %s was not a geometry. Was: %s", col.Name, res.Raw)
	}
	if !col.Type.Accepts(geom) {
		return nil, fmt.Errorf("Column %s expects a %s, got a %s", col.Name, col.Type.Name(), geom.GeoJSONType())
	}
	return geom, nil
}
