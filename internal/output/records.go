package output

import (
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/spanclient/internal/shared/isotime"
	"github.com/GriffinCanCode/spanclient/internal/table"
)

// Field is one named cell of a row.
type Field struct {
	Key   string
	Value interface{}
}

// Row is a table row with index labels first, then data columns.
type Row []Field

// Header returns the column labels of tbl's rows. Unnamed index levels are
// labelled "index" for a single level and "level_N" otherwise.
func Header(tbl table.Table) []string {
	names := tbl.IndexNames()
	header := make([]string, 0, len(names)+len(tbl.Columns()))
	for i, name := range names {
		switch {
		case name != "":
			header = append(header, name)
		case len(names) == 1:
			header = append(header, "index")
		default:
			header = append(header, "level_"+strconv.Itoa(i))
		}
	}
	return append(header, tbl.Columns()...)
}

// Rows flattens tbl into rows keyed by Header.
func Rows(tbl table.Table) []Row {
	header := Header(tbl)
	levels := len(tbl.IndexNames())

	rows := make([]Row, tbl.NumRows())
	for r := range rows {
		row := make(Row, len(header))
		for c, key := range header {
			var v interface{}
			if c < levels {
				v = tbl.IndexValue(r, c)
			} else {
				v = tbl.Value(r, c-levels)
			}
			row[c] = Field{Key: key, Value: v}
		}
		rows[r] = row
	}
	return rows
}

// cellString renders a cell for text formats; nil is "".
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return isotime.Format(x)
	default:
		s, err := sonic.ConfigStd.MarshalToString(x)
		if err != nil {
			return ""
		}
		return s
	}
}

// plainValue converts time cells to ISO-8601 strings so every encoder
// writes them the same way.
func plainValue(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return isotime.Format(t)
	}
	return v
}
