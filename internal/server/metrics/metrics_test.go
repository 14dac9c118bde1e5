package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestObserve_CountsByMethodAndCode(t *testing.T) {
	m := New()
	m.Observe("Put", "OK", 10*time.Millisecond)
	m.Observe("Put", "OK", 20*time.Millisecond)
	m.Observe("Get", "NotFound", time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("Put", "OK")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("Get", "NotFound")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestRouter_Metrics(t *testing.T) {
	m := New()
	m.Observe("Ping", "OK", time.Millisecond)
	srv := httptest.NewServer(NewRouter(m, pinger{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `growthjournal_grpc_requests_total{code="OK",method="Ping"} 1`)

	resp2, err := http.Post(srv.URL+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestRouter_Healthz(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		status string
	}{
		{"healthy", nil, http.StatusOK, "healthy"},
		{"database down", errors.New("conn refused"), http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(New(), pinger{err: tt.err}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.code, rec.Code)
			var h HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
			assert.Equal(t, tt.status, h.Status)
			assert.Equal(t, tt.status, h.Database.Status)
			assert.Positive(t, h.Goroutines)
		})
	}
}

func TestOpsServer_StopsOnContextCancel(t *testing.T) {
	s := NewOpsServer("127.0.0.1:0", NewRouter(New(), pinger{}), logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ops server did not stop")
	}
}

func TestOpsServer_BadAddress(t *testing.T) {
	s := NewOpsServer("127.0.0.1:99999", NewRouter(New(), pinger{}), logging.Discard())
	assert.Error(t, s.Run(context.Background()))
}
