package logging

import (
	"fmt"
	"sort"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/spanclient/internal/shared/isotime"
)

// Record is one log event handed to JSONFormatter.
type Record struct {
	Level      string
	Message    string
	Created    time.Time
	Logger     string
	Err        error
	StackInfo  string
	Module     string
	Function   string
	Line       int
	ThreadName string
	// Fields are written after the fixed keys, sorted by key.
	Fields map[string]interface{}
}

// JSONFormatter renders a Record as a single-line JSON object.
type JSONFormatter struct {
	keys map[string]string
}

var lineAPI = sonic.ConfigStd

// recordKeys are the keys the formatter owns. Extra fields never use them,
// even when the record leaves the key out.
var recordKeys = []string{
	"level", "severity", "message", "timestamp", "logger",
	"exc_info", "stack_info", "module", "function", "line", "thread_name",
}

// NewJSONFormatter returns a formatter. keys optionally renames output keys,
// e.g. {"message": "msg"}; nil keeps the default names.
func NewJSONFormatter(keys map[string]string) *JSONFormatter {
	mapped := make(map[string]string, len(keys))
	for k, v := range keys {
		mapped[k] = v
	}
	return &JSONFormatter{keys: mapped}
}

// Format renders r without a trailing newline. Values that cannot be encoded
// as JSON are written as their fmt.Sprint form, so Format cannot fail.
func (f *JSONFormatter) Format(r Record) []byte {
	w := lineWriter{buf: make([]byte, 0, 256), seen: make(map[string]bool, 12)}
	w.buf = append(w.buf, '{')

	w.field(f.key("level"), r.Level)
	w.field(f.key("severity"), r.Level)
	w.field(f.key("message"), r.Message)
	w.field(f.key("timestamp"), isotime.Format(r.Created))
	w.field(f.key("logger"), r.Logger)

	if r.Err != nil {
		w.field(f.key("exc_info"), formatError(r.Err))
	}
	if r.StackInfo != "" {
		w.field(f.key("stack_info"), r.StackInfo)
	}
	if r.Module != "" {
		w.field(f.key("module"), r.Module)
	}
	if r.Function != "" {
		w.field(f.key("function"), r.Function)
	}
	if r.Line != 0 {
		w.field(f.key("line"), r.Line)
	}
	if r.ThreadName != "" {
		w.field(f.key("thread_name"), r.ThreadName)
	}

	extra := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		if w.seen[k] || f.reserved(k) {
			continue
		}
		w.field(k, r.Fields[k])
	}

	w.buf = append(w.buf, '}')
	return w.buf
}

func (f *JSONFormatter) key(name string) string {
	if mapped, ok := f.keys[name]; ok && mapped != "" {
		return mapped
	}
	return name
}

func (f *JSONFormatter) reserved(k string) bool {
	for _, name := range recordKeys {
		if f.key(name) == k {
			return true
		}
	}
	return false
}

func formatError(err error) string {
	s := fmt.Sprintf("%+v", err)
	if s == "" {
		s = fmt.Sprintf("%T", err)
	}
	return s
}

type lineWriter struct {
	buf  []byte
	seen map[string]bool
}

func (w *lineWriter) field(key string, value interface{}) {
	if len(w.buf) > 1 {
		w.buf = append(w.buf, ',')
	}
	w.seen[key] = true
	w.buf = append(w.buf, encode(key)...)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, encode(value)...)
}

func encode(v interface{}) []byte {
	b, err := lineAPI.Marshal(v)
	if err == nil {
		return b
	}
	b, err = lineAPI.Marshal(fmt.Sprint(v))
	if err == nil {
		return b
	}
	return []byte(`""`)
}
