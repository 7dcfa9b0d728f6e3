package spans

// Query is anything that serializes to a span query object.
type Query interface {
	ToMap() map[string]interface{}
}

type projection struct {
	name string
	key  string
}

// SpanQuery builds the query object sent in a span request. Methods return
// modified copies; the zero value selects everything.
type SpanQuery struct {
	selects []projection
	filter  string
	index   string
}

// NewSpanQuery returns an empty query.
func NewSpanQuery() SpanQuery {
	return SpanQuery{}
}

// Select adds span attribute keys as columns named after the key.
func (q SpanQuery) Select(keys ...string) SpanQuery {
	out := q.clone()
	for _, k := range keys {
		out.selects = append(out.selects, projection{name: k, key: k})
	}
	return out
}

// SelectAs adds the span attribute key as a column called name.
func (q SpanQuery) SelectAs(name, key string) SpanQuery {
	out := q.clone()
	out.selects = append(out.selects, projection{name: name, key: key})
	return out
}

// Where sets the filter condition, e.g. "span_kind == 'LLM'".
func (q SpanQuery) Where(condition string) SpanQuery {
	out := q.clone()
	out.filter = condition
	return out
}

// Index sets the attribute key used as the table index.
func (q SpanQuery) Index(key string) SpanQuery {
	out := q.clone()
	out.index = key
	return out
}

// ToMap implements Query. Unset parts are omitted.
func (q SpanQuery) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, 3)
	if len(q.selects) > 0 {
		sel := make(map[string]interface{}, len(q.selects))
		for _, p := range q.selects {
			sel[p.name] = map[string]interface{}{"key": p.key}
		}
		m["select"] = sel
	}
	if q.filter != "" {
		m["filter"] = map[string]interface{}{"condition": q.filter}
	}
	if q.index != "" {
		m["index"] = map[string]interface{}{"key": q.index}
	}
	return m
}

func (q SpanQuery) clone() SpanQuery {
	out := q
	out.selects = append([]projection(nil), q.selects...)
	return out
}
