package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/gorilla/mux"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type HealthStatus struct {
	Status     string         `json:"status"`
	Database   DatabaseHealth `json:"database"`
	Goroutines int            `json:"goroutines"`
}

func checkHealth(ctx context.Context, db Pinger) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	err := db.PingContext(ctx)
	dbHealth := DatabaseHealth{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}
	status := "healthy"
	if err != nil {
		dbHealth.Status = "unhealthy"
		status = "unhealthy"
	}
	return HealthStatus{Status: status, Database: dbHealth, Goroutines: runtime.NumGoroutine()}
}

// NewRouter routes GET /metrics to m and GET /healthz to a database check.
func NewRouter(m *Metrics, db Pinger) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		h := checkHealth(req.Context(), db)
		w.Header().Set("Content-Type", "application/json")
		if h.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(h)
	}).Methods(http.MethodGet)
	return r
}

// OpsServer serves the ops router until its context ends.
type OpsServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewOpsServer(address string, handler http.Handler, l logging.Logger) *OpsServer {
	return &OpsServer{address: address, handler: handler, logger: l.With("module", "ops_server")}
}

func (s *OpsServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping ops server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting ops server", "address", s.address)
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
