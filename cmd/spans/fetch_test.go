package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/spanclient/internal/infrastructure/config"
	"github.com/GriffinCanCode/spanclient/internal/spans"
	"github.com/GriffinCanCode/spanclient/internal/table"
)

const spanDoc = `{"schema":{"fields":[` +
	`{"name":"context_span_id","type":"string"},` +
	`{"name":"str_name","type":"string"},` +
	`{"name":"float_latency_ms","type":"number"}],` +
	`"primaryKey":["context_span_id"]},` +
	`"data":[{"context_span_id":"a1","str_name":"llm","float_latency_ms":12.5}]}`

func spanServer(t *testing.T) (*httptest.Server, *http.Request) {
	t.Helper()
	var last http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r
		w.Header().Set("Content-Type", "multipart/mixed; boundary=b")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("--b\r\nContent-Type: application/json\r\n\r\n" + spanDoc + "\r\n--b--\r\n"))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestFetchCommand(t *testing.T) {
	srv, last := spanServer(t)
	path := filepath.Join(t.TempDir(), "spans.json")

	app := kingpin.New("spans", "")
	cmd, run := registerFetchApp(app, config.Default())
	parsed, err := app.Parse([]string{"fetch",
		"--url", srv.URL,
		"--api-key", "secret",
		"--project", "checkout",
		"--select", "name",
		"--start", "2024-05-01T10:00:00Z",
		"-o", path,
	})
	require.NoError(t, err)
	require.Equal(t, cmd.FullCommand(), parsed)

	require.NoError(t, run(context.Background(), zap.NewNop(), prometheus.NewRegistry()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"span_id":"a1","name":"llm","latency_ms":12.5}]`, string(raw))

	assert.Equal(t, "/v1/spans", last.URL.Path)
	assert.Equal(t, "checkout", last.URL.Query().Get("project_name"))
	assert.Equal(t, "Bearer secret", last.Header.Get("Authorization"))
}

func TestFetchExplicitFormat(t *testing.T) {
	srv, _ := spanServer(t)
	path := filepath.Join(t.TempDir(), "spans.out")

	opts := fetchOpts{
		server: serverOpts{url: srv.URL},
		query:  queryOpts{limit: 10, timeout: 5},
		output: outputOpts{format: "csv", path: path},
	}
	require.NoError(t, runFetch(context.Background(), zap.NewNop(), prometheus.NewRegistry(), opts))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "span_id,name,latency_ms\na1,llm,12.5\n", string(raw))
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	opts := fetchOpts{
		server: serverOpts{url: srv.URL},
		query:  queryOpts{limit: 10, timeout: 5},
		output: outputOpts{path: filepath.Join(t.TempDir(), "spans.csv")},
	}
	err := runFetch(context.Background(), zap.NewNop(), prometheus.NewRegistry(), opts)

	assert.ErrorContains(t, err, "401")
}

func TestQueryOptionsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		opts queryOpts
	}{
		{"bad start", queryOpts{start: "yesterday"}},
		{"bad end", queryOpts{end: "soon"}},
		{"negative timeout", queryOpts{timeout: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.queryOptions()
			assert.Error(t, err)
		})
	}
}

func TestQueryOptionsDefaults(t *testing.T) {
	qopts, err := queryOpts{limit: 1000, timeout: 5}.queryOptions()
	require.NoError(t, err)

	// query, limit and timeout are always set
	assert.Len(t, qopts, 3)
}

type releaseTable struct {
	table.Table
	released chan struct{}
}

func (t *releaseTable) Release() { close(t.released) }

func TestAwaitTableReleasesLateResult(t *testing.T) {
	results := make(chan spans.Result, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := awaitTable(ctx, results)
	require.ErrorIs(t, err, context.Canceled)

	late := &releaseTable{released: make(chan struct{})}
	results <- spans.Result{Table: late}
	close(results)

	select {
	case <-late.released:
	case <-time.After(time.Second):
		t.Fatal("late table was not released")
	}
}

func TestAwaitTableReturnsResult(t *testing.T) {
	results := make(chan spans.Result, 1)
	want := &releaseTable{released: make(chan struct{})}
	results <- spans.Result{Table: want}
	close(results)

	got, err := awaitTable(context.Background(), results)
	require.NoError(t, err)
	assert.Same(t, want, got)
}
