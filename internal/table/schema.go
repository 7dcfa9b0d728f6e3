package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

var (
	// ErrMissingSchema is returned for documents without a schema section.
	ErrMissingSchema = errors.New("table schema: document has no schema section")
	// ErrUnsupportedFieldType is returned for field types that have no
	// decoding, such as "duration".
	ErrUnsupportedFieldType = errors.New("table schema: unsupported field type")
	// ErrInvalidValue is returned when a cell cannot be converted to its
	// declared field type.
	ErrInvalidValue = errors.New("table schema: invalid value")
	// ErrUnknownKey is returned when primaryKey names a field that is not
	// declared in fields.
	ErrUnknownKey = errors.New("table schema: primary key is not a declared field")
)

var schemaAPI = sonic.Config{UseNumber: true}.Froze()

// naive datetimes are written without an offset and read as UTC
const naiveDatetimeLayout = "2006-01-02T15:04:05.999999999"

type schemaField struct {
	Name interface{} `json:"name"`
	Type FieldType   `json:"type"`
	TZ   string      `json:"tz,omitempty"`
}

type schemaDocument struct {
	Schema *struct {
		Fields     []schemaField `json:"fields"`
		PrimaryKey interface{}   `json:"primaryKey"`
	} `json:"schema"`
	Data []map[string]interface{} `json:"data"`
}

// ParseTableSchema decodes a table-schema JSON document into a Frame.
//
// Fields listed in schema.primaryKey become index columns, in key order; all
// other fields become data columns, in declaration order. A single key named
// "index", or keys of a multi-level index named "level_N", are left unnamed.
// Cells missing from a data row decode as nil. JSON syntax errors are
// returned as produced by the decoder.
func ParseTableSchema(doc string) (*Frame, error) {
	var parsed schemaDocument
	if err := schemaAPI.UnmarshalFromString(doc, &parsed); err != nil {
		return nil, err
	}
	if parsed.Schema == nil {
		return nil, ErrMissingSchema
	}

	fields := parsed.Schema.Fields
	for _, f := range fields {
		if f.Type == TypeDuration {
			return nil, fmt.Errorf("field %q: %w: %s", fieldName(f), ErrUnsupportedFieldType, f.Type)
		}
	}

	keys, err := primaryKeys(parsed.Schema.PrimaryKey)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]schemaField, len(fields))
	for _, f := range fields {
		byName[fieldName(f)] = f
	}

	isKey := make(map[string]bool, len(keys))
	frame := &Frame{}
	for _, key := range keys {
		f, ok := byName[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		isKey[key] = true
		col, err := decodeColumn(f, parsed.Data)
		if err != nil {
			return nil, err
		}
		frame.Index = append(frame.Index, col)
	}
	for _, f := range fields {
		if isKey[fieldName(f)] {
			continue
		}
		col, err := decodeColumn(f, parsed.Data)
		if err != nil {
			return nil, err
		}
		frame.Columns = append(frame.Columns, col)
	}

	nameIndexLevels(frame.Index)
	return frame, nil
}

func nameIndexLevels(index []Column) {
	if len(index) == 1 {
		if index[0].Name == "index" {
			index[0].Name = ""
		}
		return
	}
	for i := range index {
		if strings.HasPrefix(index[i].Name, "level_") {
			index[i].Name = ""
		}
	}
}

func primaryKeys(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []interface{}:
		keys := make([]string, len(v))
		for i, k := range v {
			keys[i] = fmt.Sprint(k)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("%w: primaryKey has type %T", ErrInvalidValue, raw)
	}
}

func fieldName(f schemaField) string {
	if s, ok := f.Name.(string); ok {
		return s
	}
	return fmt.Sprint(f.Name)
}

func decodeColumn(f schemaField, rows []map[string]interface{}) (Column, error) {
	name := fieldName(f)
	col := Column{
		Name:   name,
		Type:   f.Type,
		Values: make([]interface{}, len(rows)),
	}
	if col.Type == "" {
		col.Type = TypeAny
	}

	var loc *time.Location
	if f.Type == TypeDatetime && f.TZ != "" {
		if l, err := time.LoadLocation(f.TZ); err == nil {
			loc = l
		}
	}

	for i, row := range rows {
		v, err := coerce(row[name], col.Type, loc)
		if err != nil {
			return Column{}, fmt.Errorf("field %q row %d: %w", name, i, err)
		}
		col.Values[i] = v
	}
	return col, nil
}

func coerce(v interface{}, typ FieldType, loc *time.Location) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch typ {
	case TypeInteger:
		return toInt(v)
	case TypeNumber:
		return toFloat(v)
	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a boolean", ErrInvalidValue, v)
		}
		return b, nil
	case TypeDatetime:
		return toTime(v, loc)
	case TypeString:
		return toString(v)
	default:
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
			return n.Float64()
		}
		return v, nil
	}
}

func toInt(v interface{}) (interface{}, error) {
	n, ok := v.(json.Number)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %s is not an integer", ErrInvalidValue, n)
	}
	return int64(f), nil
}

func toFloat(v interface{}) (interface{}, error) {
	n, ok := v.(json.Number)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not a number", ErrInvalidValue, v)
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, err)
	}
	return f, nil
}

func toTime(v interface{}, loc *time.Location) (interface{}, error) {
	var t time.Time
	switch x := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			parsed, err = time.ParseInLocation(naiveDatetimeLayout, x, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a datetime", ErrInvalidValue, x)
			}
		}
		t = parsed
	case json.Number:
		ms, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not an epoch timestamp", ErrInvalidValue, x)
		}
		t = time.UnixMilli(ms)
	default:
		return nil, fmt.Errorf("%w: %v is not a datetime", ErrInvalidValue, v)
	}

	if loc != nil {
		return t.In(loc), nil
	}
	return t.UTC(), nil
}

func toString(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		b, err := schemaAPI.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return string(b), nil
	}
}
