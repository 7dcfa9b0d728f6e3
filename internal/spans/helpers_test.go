package spans

import (
	"strings"

	"github.com/GriffinCanCode/spanclient/internal/table"
)

type frameTable struct{ frame *table.Frame }

func (f frameTable) NumRows() int                        { return f.frame.NumRows() }
func (f frameTable) Columns() []string                   { return f.frame.ColumnNames() }
func (f frameTable) IndexNames() []string                { return f.frame.IndexNames() }
func (f frameTable) Value(row, col int) interface{}      { return f.frame.Columns[col].Values[row] }
func (f frameTable) IndexValue(row, lvl int) interface{} { return f.frame.Index[lvl].Values[row] }
func (f frameTable) Release()                            {}

func frameBuilder() table.Builder {
	return table.BuilderFunc(func(frame *table.Frame) (table.Table, error) {
		return frameTable{frame: frame}, nil
	})
}

const spanDoc = `{"schema":{"fields":[` +
	`{"name":"context_span_id","type":"string"},` +
	`{"name":"str_value","type":"string"},` +
	`{"name":"int_count","type":"integer"}],` +
	`"primaryKey":["context_span_id"],"pandas_version":"1.4.0"},` +
	`"data":[{"context_span_id":"a1","str_value":"hello","int_count":3},` +
	`{"context_span_id":"b2","str_value":"world","int_count":4}]}`

func jsonPart(doc string) string {
	return "Content-Type: application/json\r\n\r\n" + doc
}

func textPart(text string) string {
	return "Content-Type: text/plain\r\n\r\n" + text
}

func multipartBody(boundary string, parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString(p)
		b.WriteString("\r\n")
	}
	b.WriteString("--" + boundary + "--\r\n")
	return b.String()
}
