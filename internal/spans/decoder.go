package spans

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/spanclient/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/spanclient/internal/table"
)

const (
	multipartMixed  = "multipart/mixed"
	boundaryParam   = "boundary="
	jsonPartHeader  = "Content-Type: application/json"
	headerSeparator = "\r\n\r\n"
)

// Response is an already-read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// DecodeResponse turns a span response into a table built with tables.
//
// A multipart/mixed body yields its first table-schema part, or an empty
// table when there is none. Any other 2xx body is logged and yields an empty
// table; any other non-2xx status yields an *HTTPStatusError.
func DecodeResponse(resp Response, tables table.Builder, logger *zap.Logger) (table.Table, error) {
	return decodeResponse(resp, tables, logger, nil)
}

func decodeResponse(resp Response, tables table.Builder, logger *zap.Logger, metrics *monitoring.Metrics) (table.Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, multipartMixed) {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: resp.Body}
		}
		logger.Warn("Received non-multipart response when expecting a table",
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", contentType))
		return table.Empty(tables)
	}

	frames, err := splitFrames(resp.Body, contentType, metrics)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return table.Empty(tables)
	}
	if len(frames) > 1 {
		logger.Debug("Ignoring extra table parts", zap.Int("parts", len(frames)))
	}

	tbl, err := tables.Build(frames[0])
	if err != nil {
		return nil, fmt.Errorf("build span table: %w", err)
	}
	metrics.AddRows(tbl.NumRows())
	return tbl, nil
}

// splitFrames cuts body on the multipart boundary and parses every JSON part.
func splitFrames(body, contentType string, metrics *monitoring.Metrics) ([]*table.Frame, error) {
	_, token, ok := strings.Cut(contentType, boundaryParam)
	if !ok {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("boundary not found in Content-Type %q for multipart/mixed response", contentType),
		}
	}
	token, _, _ = strings.Cut(token, ";")
	boundary := "--" + token

	var frames []*table.Frame
	rest := body
	for strings.Contains(rest, boundary) {
		var part string
		part, rest, _ = strings.Cut(rest, boundary)
		if !strings.Contains(part, jsonPartHeader) {
			metrics.RecordPart(monitoring.PartOther)
			continue
		}
		metrics.RecordPart(monitoring.PartJSON)

		_, doc, ok := strings.Cut(part, headerSeparator)
		if !ok {
			return nil, &MalformedResponseError{Reason: "JSON part has no blank line between headers and body"}
		}
		frame, err := table.ParseTableSchema(strings.TrimSpace(doc))
		if err != nil {
			return nil, err
		}
		frame.RenameWith(table.StripPrefix)
		frames = append(frames, frame)
	}
	return frames, nil
}
