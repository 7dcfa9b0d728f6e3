package arrowtable

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/spanclient/internal/table"
)

func TestBuild(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	frame := &table.Frame{
		Index: []table.Column{
			{Name: "span_id", Type: table.TypeString, Values: []interface{}{"a1", "b2"}},
		},
		Columns: []table.Column{
			{Name: "count", Type: table.TypeInteger, Values: []interface{}{int64(3), nil}},
			{Name: "latency", Type: table.TypeNumber, Values: []interface{}{1.5, 2.25}},
			{Name: "root", Type: table.TypeBoolean, Values: []interface{}{true, false}},
			{Name: "start", Type: table.TypeDatetime, Values: []interface{}{start, nil}},
			{Name: "attributes", Type: table.TypeAny, Values: []interface{}{map[string]interface{}{"n": int64(1)}, "plain"}},
		},
	}

	tbl, err := New(mem).Build(frame)
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"span_id"}, tbl.IndexNames())
	assert.Equal(t, []string{"count", "latency", "root", "start", "attributes"}, tbl.Columns())

	assert.Equal(t, "a1", tbl.IndexValue(0, 0))
	assert.Equal(t, "b2", tbl.IndexValue(1, 0))

	assert.Equal(t, int64(3), tbl.Value(0, 0))
	assert.Nil(t, tbl.Value(1, 0))
	assert.Equal(t, 2.25, tbl.Value(1, 1))
	assert.Equal(t, true, tbl.Value(0, 2))

	got, ok := tbl.Value(0, 3).(time.Time)
	require.True(t, ok)
	assert.True(t, got.Equal(start))
	assert.Nil(t, tbl.Value(1, 3))

	assert.Equal(t, map[string]interface{}{"n": int64(1)}, tbl.Value(0, 4))
	assert.Equal(t, "plain", tbl.Value(1, 4))

	md := tbl.(*Table).Record().Schema().Metadata()
	idx := md.FindKey(IndexLevelsKey)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "1", md.Values()[idx])
}

func TestBuildEmpty(t *testing.T) {
	tbl, err := table.Empty(New(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, 0, tbl.NumRows())
	assert.Empty(t, tbl.Columns())
	assert.Empty(t, tbl.IndexNames())
}

func TestBuildTypeMismatch(t *testing.T) {
	frame := &table.Frame{
		Columns: []table.Column{
			{Name: "count", Type: table.TypeInteger, Values: []interface{}{"three"}},
		},
	}

	_, err := New(memory.NewGoAllocator()).Build(frame)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "count" row 0`)
}

func TestIndexValueOutOfRange(t *testing.T) {
	tbl, err := table.Empty(New(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer tbl.Release()

	assert.Panics(t, func() { tbl.IndexValue(0, 0) })
}

func TestRegistered(t *testing.T) {
	b, err := table.Lookup(Name)
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestBuildKeepsFloatCellsInAnyColumns(t *testing.T) {
	frame := &table.Frame{
		Columns: []table.Column{
			{Name: "attr", Type: table.TypeAny, Values: []interface{}{2.0, int64(2), 1.5, 1e21}},
		},
	}

	tbl, err := New(memory.NewGoAllocator()).Build(frame)
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, 2.0, tbl.Value(0, 0))
	assert.Equal(t, int64(2), tbl.Value(1, 0))
	assert.Equal(t, 1.5, tbl.Value(2, 0))
	assert.Equal(t, 1e21, tbl.Value(3, 0))
}

func TestBuildKeepsDatetimeLocation(t *testing.T) {
	loc := time.FixedZone("EDT", -4*60*60)
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, loc)
	frame := &table.Frame{
		Columns: []table.Column{
			{Name: "start", Type: table.TypeDatetime, Values: []interface{}{nil, start}},
		},
	}

	tbl, err := New(memory.NewGoAllocator()).Build(frame)
	require.NoError(t, err)
	defer tbl.Release()

	got, ok := tbl.Value(1, 0).(time.Time)
	require.True(t, ok)
	assert.True(t, got.Equal(start))
	assert.Equal(t, loc, got.Location())

	field := tbl.(*Table).Record().Schema().Field(0)
	assert.Contains(t, field.Type.String(), "tz=EDT")
}
