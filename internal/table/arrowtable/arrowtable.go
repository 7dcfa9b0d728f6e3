// Package arrowtable is the Apache Arrow backend for table.Table.
//
// Index levels and data columns are stored side by side in a single
// arrow.Record, index levels first. The number of index levels is kept in the
// schema metadata under IndexLevelsKey so the record can be handed to other
// Arrow consumers as-is. Importing the package registers it under Name.
//
// Datetime columns keep the location of their first value. Untyped (any)
// columns are stored as JSON text: a float cell stays a float, but numbers
// nested inside objects or arrays come back as int64 when they are whole.
package arrowtable

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/spanclient/internal/table"
)

const (
	// Name is the backend name used with table.Register.
	Name = "arrow"
	// IndexLevelsKey is the schema metadata key holding the index level count.
	IndexLevelsKey = "table.index_levels"
)

// untyped cells round-trip through JSON text; integers must stay int64
var anyAPI = sonic.Config{UseInt64: true}.Froze()

func init() {
	table.Register(Name, New(memory.DefaultAllocator))
}

// Builder builds Arrow-backed tables.
type Builder struct {
	mem memory.Allocator
}

// New returns a Builder allocating from mem.
func New(mem memory.Allocator) *Builder {
	return &Builder{mem: mem}
}

// Build converts frame into an Arrow record.
func (b *Builder) Build(frame *table.Frame) (table.Table, error) {
	cols := make([]table.Column, 0, len(frame.Index)+len(frame.Columns))
	cols = append(cols, frame.Index...)
	cols = append(cols, frame.Columns...)

	fields := make([]arrow.Field, len(cols))
	types := make([]table.FieldType, len(cols))
	locs := make([]*time.Location, len(cols))
	for i, c := range cols {
		if c.Type == table.TypeDatetime {
			locs[i] = columnLocation(c)
		}
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Type, locs[i]), Nullable: true}
		types[i] = c.Type
	}
	md := arrow.NewMetadata([]string{IndexLevelsKey}, []string{strconv.Itoa(len(frame.Index))})
	schema := arrow.NewSchema(fields, &md)

	rb := array.NewRecordBuilder(b.mem, schema)
	defer rb.Release()

	for i, c := range cols {
		fb := rb.Field(i)
		for row, v := range c.Values {
			if err := appendValue(fb, c.Type, v); err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", c.Name, row, err)
			}
		}
	}

	return &Table{
		rec:    rb.NewRecord(),
		levels: len(frame.Index),
		types:  types,
		locs:   locs,
	}, nil
}

// columnLocation returns the location of the first time in c, or nil.
func columnLocation(c table.Column) *time.Location {
	for _, v := range c.Values {
		if ts, ok := v.(time.Time); ok {
			return ts.Location()
		}
	}
	return nil
}

func arrowType(t table.FieldType, loc *time.Location) arrow.DataType {
	switch t {
	case table.TypeInteger:
		return arrow.PrimitiveTypes.Int64
	case table.TypeNumber:
		return arrow.PrimitiveTypes.Float64
	case table.TypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	case table.TypeDatetime:
		if loc == nil || loc == time.UTC {
			return arrow.FixedWidthTypes.Timestamp_ns
		}
		return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: loc.String()}
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(b array.Builder, t table.FieldType, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch fb := b.(type) {
	case *array.Int64Builder:
		n, ok := v.(int64)
		if !ok {
			return fmt.Errorf("expected int64, got %T", v)
		}
		fb.Append(n)
	case *array.Float64Builder:
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("expected float64, got %T", v)
		}
		fb.Append(f)
	case *array.BooleanBuilder:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		fb.Append(x)
	case *array.TimestampBuilder:
		ts, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected time.Time, got %T", v)
		}
		fb.Append(arrow.Timestamp(ts.UnixNano()))
	case *array.StringBuilder:
		if t == table.TypeString {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("expected string, got %T", v)
			}
			fb.Append(s)
			return nil
		}
		raw, err := marshalAny(v)
		if err != nil {
			return err
		}
		fb.Append(raw)
	default:
		return fmt.Errorf("unsupported arrow builder %T", b)
	}
	return nil
}

// marshalAny encodes an untyped cell. Whole floats get a fraction so they
// decode as float64 again.
func marshalAny(v interface{}) (string, error) {
	raw, err := anyAPI.MarshalToString(v)
	if err != nil {
		return "", err
	}
	if _, ok := v.(float64); ok && !strings.ContainsAny(raw, ".eE") {
		raw += ".0"
	}
	return raw, nil
}

// Table is an Arrow-backed table.Table.
type Table struct {
	rec    arrow.Record
	levels int
	types  []table.FieldType
	locs   []*time.Location
}

// Record exposes the underlying record. It stays owned by the table.
func (t *Table) Record() arrow.Record {
	return t.rec
}

// NumRows implements table.Table.
func (t *Table) NumRows() int {
	return int(t.rec.NumRows())
}

// Columns implements table.Table.
func (t *Table) Columns() []string {
	return t.names(t.levels, int(t.rec.NumCols()))
}

// IndexNames implements table.Table.
func (t *Table) IndexNames() []string {
	return t.names(0, t.levels)
}

// Value implements table.Table. It panics if row or col is out of range.
func (t *Table) Value(row, col int) interface{} {
	return t.cell(t.levels+col, row)
}

// IndexValue implements table.Table. It panics if row or level is out of range.
func (t *Table) IndexValue(row, level int) interface{} {
	if level >= t.levels {
		panic(fmt.Sprintf("arrowtable: index level %d out of range [0:%d]", level, t.levels))
	}
	return t.cell(level, row)
}

// Release implements table.Table.
func (t *Table) Release() {
	t.rec.Release()
}

func (t *Table) names(from, to int) []string {
	names := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		names = append(names, t.rec.ColumnName(i))
	}
	return names
}

func (t *Table) cell(col, row int) interface{} {
	arr := t.rec.Column(col)
	if arr.IsNull(row) {
		return nil
	}

	switch a := arr.(type) {
	case *array.Int64:
		return a.Value(row)
	case *array.Float64:
		return a.Value(row)
	case *array.Boolean:
		return a.Value(row)
	case *array.Timestamp:
		ts := a.Value(row).ToTime(arrow.Nanosecond)
		if loc := t.locs[col]; loc != nil {
			ts = ts.In(loc)
		}
		return ts
	case *array.String:
		s := a.Value(row)
		if t.types[col] == table.TypeString {
			return s
		}
		var v interface{}
		if err := anyAPI.UnmarshalFromString(s, &v); err != nil {
			return s
		}
		return v
	default:
		return arr.ValueStr(row)
	}
}
