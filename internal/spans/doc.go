// Package spans queries a span service for span records and materializes
// the response as a table.Table.
//
// The service answers POST v1/spans with a multipart/mixed body whose
// application/json parts are table-schema documents (schema + data). The
// first such part becomes the result table; a response without JSON parts
// yields an empty table.
//
// Example Usage:
//
//	import _ "github.com/GriffinCanCode/spanclient/internal/table/arrowtable"
//
//	s := spans.New(client.NewClient("http://localhost:6006"), logger)
//	tbl, err := s.GetSpansTable(ctx,
//		spans.WithQuery(spans.NewSpanQuery().Select("name", "span_id")),
//		spans.WithLimit(100),
//	)
//	if err != nil {
//		return err
//	}
//	defer tbl.Release()
package spans
