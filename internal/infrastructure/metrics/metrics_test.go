package metrics

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeSource struct {
	count, failures uint64
	last            time.Time
}

func (f *fakeSource) Count() uint64          { return f.count }
func (f *fakeSource) Failures() uint64       { return f.failures }
func (f *fakeSource) LastSuccess() time.Time { return f.last }

// =============================================================================
// Emission Tests
// =============================================================================

func TestRegisterEmission(t *testing.T) {
	m := New("test")
	src := &fakeSource{count: 8, failures: 2, last: time.Unix(1792411200, 0)}

	if err := m.RegisterEmission(src); err != nil {
		t.Fatalf("RegisterEmission() error = %v", err)
	}

	expected := `
# HELP sensorsim_readings_emitted_total Readings confirmed by the primary store.
# TYPE sensorsim_readings_emitted_total counter
sensorsim_readings_emitted_total 8
# HELP sensorsim_readings_failed_total Readings the primary store failed to persist.
# TYPE sensorsim_readings_failed_total counter
sensorsim_readings_failed_total 2
`
	if err := testutil.GatherAndCompare(m.registry, strings.NewReader(expected),
		"sensorsim_readings_emitted_total", "sensorsim_readings_failed_total"); err != nil {
		t.Error(err)
	}

	// Counters are read at scrape time.
	src.count = 9
	if err := testutil.GatherAndCompare(m.registry, strings.NewReader(strings.Replace(expected, "total 8", "total 9", 1)),
		"sensorsim_readings_emitted_total", "sensorsim_readings_failed_total"); err != nil {
		t.Error(err)
	}
}

func TestRegisterEmission_Twice(t *testing.T) {
	m := New("test")
	if err := m.RegisterEmission(&fakeSource{}); err != nil {
		t.Fatalf("first RegisterEmission() error = %v", err)
	}
	if err := m.RegisterEmission(&fakeSource{}); err == nil {
		t.Error("second RegisterEmission() should fail")
	}
}

func TestRegisterDatabase(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	m := New("test")
	if err := m.RegisterDatabase(db, "journal"); err != nil {
		t.Fatalf("RegisterDatabase() error = %v", err)
	}
	n, err := testutil.GatherAndCount(m.registry, "go_sql_max_open_connections")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("go_sql_max_open_connections series = %d, want 1", n)
	}
}

// =============================================================================
// Write Observation Tests
// =============================================================================

func TestObserveWrite(t *testing.T) {
	m := New("test")

	m.ObserveWrite("influxdb", 3*time.Millisecond, nil)
	m.ObserveWrite("influxdb", 4*time.Millisecond, nil)
	m.ObserveWrite("influxdb", time.Second, errors.New("timeout"))
	m.ObserveWrite("mqtt", time.Millisecond, nil)

	tests := []struct {
		sink, result string
		want         float64
	}{
		{"influxdb", resultOK, 2},
		{"influxdb", resultError, 1},
		{"mqtt", resultOK, 1},
		{"mqtt", resultError, 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.writesTotal.WithLabelValues(tt.sink, tt.result)); got != tt.want {
			t.Errorf("writes{%s,%s} = %v, want %v", tt.sink, tt.result, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(m.writeDuration); n != 2 {
		t.Errorf("histogram series = %d, want 2", n)
	}
}

func TestObserveWrite_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveWrite("influxdb", time.Millisecond, nil)
}

// =============================================================================
// Handler Tests
// =============================================================================

func TestHandler(t *testing.T) {
	m := New("1.2.3")
	m.ObserveWrite("tsdb", time.Millisecond, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`sensorsim_build_info{version="1.2.3"} 1`,
		`sensorsim_sink_writes_total{result="ok",sink="tsdb"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
