// Package output renders span tables for people and tools.
//
// Supported formats:
//   - csv: header row, one line per span
//   - json: array of objects, keys in column order
//   - yaml: sequence of mappings, keys in column order
//   - toml: array of [[spans]] tables; missing cells are omitted
//   - describe: count/mean/std/min/quartiles/max per numeric column
//
// Files ending in .gz or .zst are compressed on the fly:
//
//	w, err := output.Create("spans.json.zst")
//	defer w.Close()
//	err = output.Write(w, tbl, output.FormatFromPath("spans.json.zst", output.JSON))
package output
