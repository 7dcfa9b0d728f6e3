package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/spanclient/internal/table"
)

// Format names an output encoding.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	YAML     Format = "yaml"
	TOML     Format = "toml"
	Describe Format = "describe"
)

// Formats lists every supported format.
var Formats = []Format{CSV, JSON, YAML, TOML, Describe}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// FormatFromPath infers the format from a file name such as
// "spans.yaml.gz", falling back to def.
func FormatFromPath(path string, def Format) Format {
	base := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(path, gzipExt), zstdExt), zstExt)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv":
		return CSV
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	default:
		return def
	}
}

// Write renders tbl to w in format f.
func Write(w io.Writer, tbl table.Table, f Format) error {
	switch f {
	case CSV:
		return WriteCSV(w, tbl)
	case JSON:
		return WriteJSON(w, tbl)
	case YAML:
		return WriteYAML(w, tbl)
	case TOML:
		return WriteTOML(w, tbl)
	case Describe:
		return WriteDescribe(w, tbl)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// WriteCSV writes a header row followed by one record per row.
func WriteCSV(w io.Writer, tbl table.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header(tbl)); err != nil {
		return err
	}
	for _, row := range Rows(tbl) {
		record := make([]string, len(row))
		for i, f := range row {
			record[i] = cellString(f.Value)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes an array of objects whose keys keep column order.
func WriteJSON(w io.Writer, tbl table.Table) error {
	buf := []byte{'['}
	for r, row := range Rows(tbl) {
		if r > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '{')
		for i, f := range row {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := sonic.ConfigStd.Marshal(f.Key)
			if err != nil {
				return err
			}
			val, err := sonic.ConfigStd.Marshal(plainValue(f.Value))
			if err != nil {
				return fmt.Errorf("column %q: %w", f.Key, err)
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			buf = append(buf, val...)
		}
		buf = append(buf, '}')
	}
	buf = append(buf, ']', '\n')
	_, err := w.Write(buf)
	return err
}

// WriteYAML writes a sequence of mappings whose keys keep column order.
func WriteYAML(w io.Writer, tbl table.Table) error {
	docs := make([]yaml.MapSlice, 0, tbl.NumRows())
	for _, row := range Rows(tbl) {
		m := make(yaml.MapSlice, len(row))
		for i, f := range row {
			m[i] = yaml.MapItem{Key: f.Key, Value: plainValue(f.Value)}
		}
		docs = append(docs, m)
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("YAML encoding error: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// TOMLKey names the array of tables written by WriteTOML.
const TOMLKey = "spans"

// WriteTOML writes rows as a [[spans]] array of tables. TOML has no null, so
// missing cells are left out.
func WriteTOML(w io.Writer, tbl table.Table) error {
	rows := Rows(tbl)
	tables := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]interface{}, len(row))
		for _, f := range row {
			if f.Value == nil {
				continue
			}
			m[f.Key] = f.Value
		}
		tables = append(tables, m)
	}

	data, err := toml.Marshal(map[string]interface{}{TOMLKey: tables})
	if err != nil {
		return fmt.Errorf("TOML encoding error: %w", err)
	}
	_, err = w.Write(data)
	return err
}
