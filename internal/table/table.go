package table

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNoBackend is returned when a table is requested but no backend has been
// registered with Register.
var ErrNoBackend = errors.New("no table backend registered: import github.com/GriffinCanCode/spanclient/internal/table/arrowtable")

// Table is a read-only, row-ordered view over decoded span data.
type Table interface {
	// NumRows returns the number of rows.
	NumRows() int
	// Columns returns the data column names in order.
	Columns() []string
	// IndexNames returns the index level names; "" marks an unnamed level.
	IndexNames() []string
	// Value returns the cell at row, col; nil for a missing value.
	Value(row, col int) interface{}
	// IndexValue returns the index label of row at the given level.
	IndexValue(row, level int) interface{}
	// Release frees backend resources. The table must not be used afterwards.
	Release()
}

// Builder materializes a Frame into a Table.
type Builder interface {
	Build(frame *Frame) (Table, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(frame *Frame) (Table, error)

// Build calls f(frame).
func (f BuilderFunc) Build(frame *Frame) (Table, error) {
	return f(frame)
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]Builder)
)

// Register makes a backend available by name. It panics if the name is
// registered twice or the builder is nil.
func Register(name string, b Builder) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	if b == nil {
		panic("table: Register builder is nil")
	}
	if _, dup := backends[name]; dup {
		panic("table: Register called twice for backend " + name)
	}
	backends[name] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Builder, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("table backend %q: %w", name, ErrNoBackend)
	}
	return b, nil
}

// Default returns the first registered backend in name order.
func Default() (Builder, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	if len(backends) == 0 {
		return nil, ErrNoBackend
	}
	return backends[backendNamesLocked()[0]], nil
}

// Backends returns the sorted names of the registered backends.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	return backendNamesLocked()
}

func backendNamesLocked() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty builds a table with no rows and no columns.
func Empty(b Builder) (Table, error) {
	return b.Build(&Frame{})
}
