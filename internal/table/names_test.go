package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "tagged column", in: "str_value", want: "value"},
		{name: "only first underscore", in: "str_parent_id", want: "parent_id"},
		{name: "dotted name", in: "idx_context.span_id", want: "context.span_id"},
		{name: "empty remainder", in: "int_", want: ""},
		{name: "no underscore", in: "value", want: "value"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPrefix(tt.in))
		})
	}
}

func TestStripPrefixIdempotentWithoutUnderscore(t *testing.T) {
	for _, name := range []string{"value", "context.span_id", "latency"} {
		once := StripPrefix(name)
		assert.Equal(t, name, once)
		assert.Equal(t, once, StripPrefix(once))
	}

	stripped := StripPrefix("str_value")
	assert.Equal(t, stripped, StripPrefix(stripped))
}
