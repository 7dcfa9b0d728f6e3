// Package table decodes table-schema JSON documents into column frames and
// exposes the result through a backend-neutral Table interface.
//
// The package is split in two layers:
//   - Frame: a plain in-memory decoding of one table-schema document
//     (index columns, data columns, typed cell values)
//   - Table: the read-only view handed to callers, produced from a Frame by
//     a registered Builder
//
// Backends register themselves from an init function, the same way
// database/sql drivers do:
//
//	import _ "github.com/GriffinCanCode/spanclient/internal/table/arrowtable"
//
// Code that needs a table before any backend is linked in gets ErrNoBackend
// from Default.
//
// Table-schema documents follow the pandas orient="table" layout:
//
//	{
//	  "schema": {"fields": [{"name": "index", "type": "integer"}, ...],
//	             "primaryKey": ["index"]},
//	  "data": [{"index": 0, ...}, ...]
//	}
package table
