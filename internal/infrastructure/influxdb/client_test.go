package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/influxdb"
)

// fakeInflux is a minimal stand-in for the InfluxDB v2 HTTP API.
type fakeInflux struct {
	mu         sync.Mutex
	bodies     []string
	queries    []string
	writeFails bool
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/ping"):
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(r.URL.Path, "/write"):
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.bodies = append(f.bodies, string(body))
		f.queries = append(f.queries, r.URL.RawQuery)
		fail := f.writeFails
		f.mu.Unlock()
		if fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":"internal error","message":"disk full"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeInflux) lastWrite() (body, query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return "", ""
	}
	return f.bodies[len(f.bodies)-1], f.queries[len(f.queries)-1]
}

func newServer(t *testing.T) (*fakeInflux, config.InfluxDBConfig) {
	t.Helper()
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return fake, config.InfluxDBConfig{
		URL:          srv.URL,
		Token:        "test-token",
		Org:          "mi_empresa",
		Bucket:       "sensores",
		WriteTimeout: 2,
	}
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	_, cfg := newServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := config.InfluxDBConfig{URL: "http://127.0.0.1:1", Org: "o", Bucket: "b"}

	_, err := influxdb.Connect(context.Background(), cfg)
	if err == nil {
		t.Fatal("Connect() should fail for unreachable server")
	}
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_EmptyURL(t *testing.T) {
	_, err := influxdb.Connect(context.Background(), config.InfluxDBConfig{})
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestHealthCheck(t *testing.T) {
	_, cfg := newServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheck_AfterClose(t *testing.T) {
	_, cfg := newServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close()

	if err := client.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Write Tests
// =============================================================================

func TestWritePoint(t *testing.T) {
	fake, cfg := newServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	err = client.WritePoint(context.Background(), "mediciones",
		map[string]string{"sensor_id": "SENSOR_001", "ubicacion": "Planta_Principal", "tipo": "ambiental"},
		map[string]interface{}{"temperatura": 22.3, "humedad": 59.0, "presion": 1013.65},
		ts,
	)
	if err != nil {
		t.Fatalf("WritePoint() error = %v", err)
	}

	body, query := fake.lastWrite()
	for _, want := range []string{
		"mediciones,",
		"sensor_id=SENSOR_001",
		"tipo=ambiental",
		"ubicacion=Planta_Principal",
		"temperatura=22.3",
		"presion=1013.65",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("line protocol %q missing %q", body, want)
		}
	}
	if !strings.Contains(query, "bucket=sensores") || !strings.Contains(query, "org=mi_empresa") {
		t.Errorf("write query = %q, want org and bucket", query)
	}
}

func TestWritePoint_ServerError(t *testing.T) {
	fake, cfg := newServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	fake.mu.Lock()
	fake.writeFails = true
	fake.mu.Unlock()

	err = client.WritePoint(context.Background(), "mediciones",
		map[string]string{"sensor_id": "SENSOR_001"},
		map[string]interface{}{"temperatura": 22.3},
		time.Now(),
	)
	if !errors.Is(err, influxdb.ErrWriteFailed) {
		t.Errorf("WritePoint() error = %v, want ErrWriteFailed", err)
	}
}

func TestWritePoint_AfterClose(t *testing.T) {
	_, cfg := newServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close()

	err = client.WritePoint(context.Background(), "mediciones", nil,
		map[string]interface{}{"temperatura": 22.3}, time.Now())
	if !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("WritePoint() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestClose_Idempotent(t *testing.T) {
	_, cfg := newServer(t)

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
}

func TestClose_Nil(t *testing.T) {
	var client *influxdb.Client
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
}
