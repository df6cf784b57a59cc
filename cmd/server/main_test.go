package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alphaledger/services/config"
)

func newTestServer(t *testing.T) (*BacktestServer, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Defaults()
	server := NewBacktestServer(&cfg, zap.NewNop())
	router := gin.New()
	server.setupRoutes(router)
	return server, router
}

func TestGetResultUnknownJob(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/backtest/no-such-job", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// The result handler must serialize a snapshot of the job, not the shared
// struct the worker goroutine is still updating.
func TestGetResultWhileJobUpdates(t *testing.T) {
	server, router := newTestServer(t)

	const jobID = "contended-job"
	server.mu.Lock()
	server.jobs[jobID] = &JobResult{JobID: jobID, Status: jobStatusRunning, StartedAt: 1}
	server.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			server.mu.Lock()
			job := server.jobs[jobID]
			job.TradeCount = i
			job.Status = jobStatusCompleted
			job.Metrics = map[string]float64{"win_rate": float64(i)}
			server.mu.Unlock()
		}
	}()

	for i := 0; i < 500; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/backtest/"+jobID, nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var got JobResult
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.JobID != jobID {
			t.Fatalf("job_id = %q, want %q", got.JobID, jobID)
		}
	}
	<-done
}

func TestJobLifecycle(t *testing.T) {
	_, router := newTestServer(t)

	body := `{"symbol":"RELIANCE","synthetic_days":150}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d, want 202", w.Code)
	}
	var submitted struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitted.JobID == "" || submitted.Status != jobStatusRunning {
		t.Fatalf("submit response = %+v", submitted)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		pw := httptest.NewRecorder()
		preq := httptest.NewRequest(http.MethodGet, "/api/v1/backtest/"+submitted.JobID, nil)
		router.ServeHTTP(pw, preq)
		if pw.Code != http.StatusOK {
			t.Fatalf("poll status = %d, want 200", pw.Code)
		}
		var job JobResult
		if err := json.Unmarshal(pw.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode poll response: %v", err)
		}
		if job.Status == jobStatusFailed {
			t.Fatalf("job failed: %s", job.Error)
		}
		if job.Status == jobStatusCompleted {
			if job.Symbol != "RELIANCE" || job.BarCount != 150 {
				t.Fatalf("completed job = %+v", job)
			}
			if job.FinalEquity == "" {
				t.Fatalf("completed job missing final equity")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job still %s after deadline", job.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
