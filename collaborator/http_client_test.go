package collaborator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hotgigs/automation/autoapply"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"analyze posts type and data": testAnalyze,
		"server errors are retried":   testRetry,
		"client errors are not":       testNoRetry,
		"screen decodes score":        testScreen,
		"compatibility is scored":     testCompatibility,
		"service failure is neutral":  testNeutralCompatibility,
	} {
		t.Run(scenario, fn)
	}
}

func newClient(url string, retries int) *HTTPClient {
	return NewHTTPClient(url, retries, WithRetryInterval(time.Millisecond))
}

func testAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, ANALYZE_PATH, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "job_search", req.AnalysisType)
		require.Equal(t, "c1", req.Data["candidate_id"])
		json.NewEncoder(w).Encode(map[string]any{"jobs_found": 4})
	}))
	defer server.Close()

	res, err := newClient(server.URL+"/", 0).Analyze(context.Background(), "job_search", map[string]any{"candidate_id": "c1"})
	require.NoError(t, err)
	require.Equal(t, 4.0, res["jobs_found"])
}

func testRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	res, err := newClient(server.URL, 3).Analyze(context.Background(), "x", nil)
	require.NoError(t, err)
	require.Equal(t, true, res["ok"])
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))

	atomic.StoreInt32(&calls, 0)
	_, err = newClient(server.URL, 1).Analyze(context.Background(), "x", nil)
	require.Error(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func testNoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newClient(server.URL, 3).Analyze(context.Background(), "x", nil)
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func testScreen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, SCREEN_PATH, r.URL.Path)
		var req screenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "j1", req.JobId)
		json.NewEncoder(w).Encode(map[string]any{"score": 82.5})
	}))
	defer server.Close()

	res, err := newClient(server.URL, 0).Score(context.Background(), "c1", "j1", nil)
	require.NoError(t, err)
	require.Equal(t, 82.5, res.Score)
}

func testCompatibility(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, COMPATIBILITY_PATH, r.URL.Path)
		json.NewEncoder(w).Encode(autoapply.Compatibility{Score: 64, MatchingFactors: []string{"skill: go"}})
	}))
	defer server.Close()

	s := autoapply.NewService(nil, newClient(server.URL, 0))
	res := s.AnalyzeJobCompatibility(context.Background(), autoapply.CandidateProfile{Id: "c1"}, autoapply.JobDescription{Id: "j1"})
	require.Equal(t, 64.0, res.Score)
	require.Equal(t, []string{"skill: go"}, res.MatchingFactors)
	require.Equal(t, []string{}, res.MissingRequirements)
	require.Equal(t, "good match - consider applying", res.Recommendation)
}

func testNeutralCompatibility(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := autoapply.NewService(nil, newClient(server.URL, 1))
	res := s.AnalyzeJobCompatibility(context.Background(), autoapply.CandidateProfile{Id: "c1"}, autoapply.JobDescription{Id: "j1"})
	require.Equal(t, autoapply.Neutral(), res)
}

func TestLogNotifier(t *testing.T) {
	ok, err := LogNotifier{}.Send(context.Background(), "u1", "hello", "info")
	require.NoError(t, err)
	require.True(t, ok)
}
