package table

// FieldType is a table-schema field type.
type FieldType string

const (
	TypeInteger  FieldType = "integer"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
	TypeDuration FieldType = "duration"
	TypeString   FieldType = "string"
	TypeAny      FieldType = "any"
)

// Column is one named, typed column of a Frame.
//
// Values hold int64, float64, bool, string, time.Time or, for TypeAny, any
// decoded JSON value. A nil entry is a missing cell.
type Column struct {
	Name   string
	Type   FieldType
	Values []interface{}
}

// Frame is the decoded form of one table-schema document.
type Frame struct {
	Index   []Column
	Columns []Column
}

// NumRows returns the row count, taken from the first column present.
func (f *Frame) NumRows() int {
	if len(f.Index) > 0 {
		return len(f.Index[0].Values)
	}
	if len(f.Columns) > 0 {
		return len(f.Columns[0].Values)
	}
	return 0
}

// ColumnNames returns the data column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// IndexNames returns the index level names in order.
func (f *Frame) IndexNames() []string {
	names := make([]string, len(f.Index))
	for i, c := range f.Index {
		names[i] = c.Name
	}
	return names
}

// RenameWith rewrites every index and column name with fn.
func (f *Frame) RenameWith(fn func(string) string) {
	for i := range f.Index {
		f.Index[i].Name = fn(f.Index[i].Name)
	}
	for i := range f.Columns {
		f.Columns[i].Name = fn(f.Columns[i].Name)
	}
}
