package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(cfg Config) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(cfg, logger)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body=%s", w.Body.String())
	return body
}

const scenarioA = `{
	"tasks": [{"name": "A", "execution_time": 2, "period": 10, "deadline": 10}],
	"algorithm": "RM",
	"duration": 20
}`

func TestHealth(t *testing.T) {
	w := doRequest(t, testServer(DefaultConfig()), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSimulate_ReturnsTimelineAndMetrics(t *testing.T) {
	w := doRequest(t, testServer(DefaultConfig()), http.MethodPost, "/simulate", scenarioA)

	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"timeline": [
			{"task": "A", "start": 0, "end": 2, "deadline_miss": false},
			{"task": null, "start": 2, "end": 10, "deadline_miss": false},
			{"task": "A", "start": 10, "end": 12, "deadline_miss": false},
			{"task": null, "start": 12, "end": 20, "deadline_miss": false}
		],
		"metrics": {
			"cpu_utilization": 20,
			"total_deadline_misses": 0,
			"per_task_deadline_misses": {"A": 0},
			"hyperperiod_approx": 10
		}
	}`, w.Body.String())
}

func TestSimulate_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{
			name: "empty task list",
			body: `{"tasks": [], "algorithm": "RM", "duration": 20}`,
			code: CodeInvalidTask,
		},
		{
			name: "non-positive execution time",
			body: `{"tasks": [{"name": "A", "execution_time": 0, "period": 10, "deadline": 10}], "algorithm": "RM"}`,
			code: CodeInvalidTask,
		},
		{
			name: "zero duration",
			body: `{"tasks": [{"name": "A", "execution_time": 1, "period": 10, "deadline": 10}], "algorithm": "RM", "duration": 0}`,
			code: CodeInvalidDuration,
		},
		{
			name: "non-numeric duration",
			body: `{"tasks": [{"name": "A", "execution_time": 1, "period": 10, "deadline": 10}], "algorithm": "RM", "duration": "later"}`,
			code: CodeInvalidDuration,
		},
		{
			name: "unknown algorithm",
			body: `{"tasks": [{"name": "A", "execution_time": 1, "period": 10, "deadline": 10}], "algorithm": "XYZ", "duration": 20}`,
			code: CodeUnknownAlgorithm,
		},
		{
			name: "duration beyond float64 range",
			body: `{"tasks": [{"name": "A", "execution_time": 1, "period": 10, "deadline": 10}], "algorithm": "RM", "duration": 1e400}`,
			code: CodeInvalidDuration,
		},
		{
			name: "malformed JSON",
			body: `{"tasks": [`,
			code: CodeInvalidRequest,
		},
		{
			name: "wrong field type",
			body: `{"tasks": [{"name": "A", "execution_time": "one", "period": 10, "deadline": 10}], "algorithm": "RM"}`,
			code: CodeInvalidRequest,
		},
	}
	srv := testServer(DefaultConfig())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, srv, http.MethodPost, "/simulate", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tc.code, body.Error)
			assert.NotEmpty(t, body.Detail)
		})
	}
}

func TestSimulate_BodyTooLarge(t *testing.T) {
	body := `{"algorithm": "RM", "padding": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	w := doRequest(t, testServer(DefaultConfig()), http.MethodPost, "/simulate", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, CodeInvalidRequest, resp.Error)
	assert.Contains(t, resp.Detail, "1.0 MiB")
}

func TestSimulate_MaxDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDuration = 10
	srv := testServer(cfg)

	// GIVEN a server capped at 10ms WHEN a 20ms run is requested THEN it is rejected
	w := doRequest(t, srv, http.MethodPost, "/simulate", scenarioA)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, CodeInvalidDuration, resp.Error)
	assert.Contains(t, resp.Detail, "server limit")

	// AND an unknown algorithm is still reported first
	w = doRequest(t, srv, http.MethodPost, "/simulate",
		`{"tasks": [{"name": "A", "execution_time": 1, "period": 10, "deadline": 10}], "algorithm": "XYZ", "duration": 500}`)
	assert.Equal(t, CodeUnknownAlgorithm, decodeError(t, w).Error)
}

func TestSimulate_MethodNotAllowed(t *testing.T) {
	w := doRequest(t, testServer(DefaultConfig()), http.MethodGet, "/simulate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	srv := testServer(DefaultConfig())
	req := httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader(scenarioA))
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_Format(t *testing.T) {
	id := requestID()
	assert.True(t, strings.HasPrefix(id, "req_"))
	assert.Len(t, id, len("req_")+8)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, DefaultMaxDuration, cfg.MaxDuration)

	hs := New(cfg, logrus.New()).HTTPServer()
	assert.Equal(t, cfg.Addr, hs.Addr)
	assert.Equal(t, cfg.ReadTimeout, hs.ReadTimeout)
}

func TestSimulate_DefaultConfig_RejectsHugeHorizon(t *testing.T) {
	// GIVEN a server with default settings
	srv := testServer(DefaultConfig())

	// WHEN valid task sets ask for horizons far beyond the default cap
	for _, duration := range []string{"1e11", "1152921504606846976"} {
		body := `{"tasks": [{"name": "A", "execution_time": 1, "period": 4611686018427387903, "deadline": 10}], "algorithm": "EDF", "duration": ` + duration + `}`
		w := doRequest(t, srv, http.MethodPost, "/simulate", body)

		// THEN they are rejected before any simulation state is allocated
		assert.Equal(t, http.StatusBadRequest, w.Code, duration)
		resp := decodeError(t, w)
		assert.Equal(t, CodeInvalidDuration, resp.Error, duration)
		assert.Contains(t, resp.Detail, "1,000,000 ms", duration)
	}

	// AND a horizon at the cap is accepted
	w := doRequest(t, srv, http.MethodPost, "/simulate",
		`{"tasks": [{"name": "A", "execution_time": 1, "period": 4611686018427387903, "deadline": 10}], "algorithm": "EDF", "duration": 1000000}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID_CallerSuppliedIsEchoed(t *testing.T) {
	srv := testServer(DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, "upstream-42", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLen+1))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.True(t, strings.HasPrefix(w.Header().Get("X-Request-ID"), "req_"))
}

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	// GIVEN a server whose log entries are captured
	logger, hook := logtest.NewNullLogger()
	srv := New(DefaultConfig(), logger)

	// WHEN a successful and a rejected request are served
	doRequest(t, srv, http.MethodGet, "/health", "")
	doRequest(t, srv, http.MethodPost, "/simulate", `{"tasks": []}`)

	// THEN the success logs at INFO and the rejection at WARN, with request fields
	var requests []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "request" {
			requests = append(requests, e)
		}
	}
	require.Len(t, requests, 2)
	assert.Equal(t, logrus.InfoLevel, requests[0].Level)
	assert.Equal(t, "/health", requests[0].Data["path"])
	assert.Equal(t, http.StatusOK, requests[0].Data["status"])
	assert.Positive(t, requests[0].Data["bytes"])
	assert.Equal(t, logrus.WarnLevel, requests[1].Level)
	assert.Equal(t, http.StatusBadRequest, requests[1].Data["status"])
	assert.NotEmpty(t, requests[1].Data["request_id"])
}
