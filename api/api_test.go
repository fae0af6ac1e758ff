package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hypersystems/hyperguard"
	"github.com/hypersystems/hyperguard/check"
	"github.com/hypersystems/hyperguard/violation"
)

type stubEngine struct {
	mu        sync.Mutex
	known     uuid.UUID
	vls       map[string]float64
	enabled   map[string]bool
	exempt    map[string]bool
	global    bool
	debug     bool
	recent    []violation.Violation
	lastQuery violation.Query
	reloads   int
	reloadErr error
}

func newStubEngine() *stubEngine {
	return &stubEngine{
		known:   uuid.New(),
		vls:     map[string]float64{"speed": 12.5, "fly": 3},
		enabled: map[string]bool{"speed": true, "fly": true},
		exempt:  make(map[string]bool),
	}
}

func (s *stubEngine) VL(id uuid.UUID, check string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.known {
		return 0, hyperguard.ErrUnknownPlayer
	}
	return s.vls[check], nil
}

func (s *stubEngine) AllVLs(id uuid.UUID) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.known {
		return nil, hyperguard.ErrUnknownPlayer
	}
	return s.vls, nil
}

func (s *stubEngine) SetExempt(id uuid.UUID, check string, exempt bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.known {
		return hyperguard.ErrUnknownPlayer
	}
	if _, ok := s.enabled[check]; !ok {
		return errors.New("unknown check")
	}
	s.exempt[check] = exempt
	return nil
}

func (s *stubEngine) SetGloballyExempt(id uuid.UUID, exempt bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.known {
		return hyperguard.ErrUnknownPlayer
	}
	s.global = exempt
	return nil
}

func (s *stubEngine) SetDebug(id uuid.UUID, debug bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.known {
		return hyperguard.ErrUnknownPlayer
	}
	s.debug = debug
	return nil
}

func (s *stubEngine) SetCheckEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enabled[name]; !ok {
		return errors.New("unknown check")
	}
	s.enabled[name] = enabled
	return nil
}

func (s *stubEngine) RecentViolations(q violation.Query) []violation.Violation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = q
	return s.recent
}

func (s *stubEngine) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reloadErr != nil {
		return s.reloadErr
	}
	s.reloads++
	return nil
}

func (s *stubEngine) Checks() []hyperguard.CheckStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hyperguard.CheckStatus, 0, len(s.enabled))
	for name, enabled := range s.enabled {
		out = append(out, hyperguard.CheckStatus{
			Name:     name,
			Category: check.CategoryMovement,
			Enabled:  enabled,
		})
	}
	return out
}

func (s *stubEngine) Stats() []hyperguard.CheckStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hyperguard.CheckStats, 0, len(s.vls))
	for name, vl := range s.vls {
		out = append(out, hyperguard.CheckStats{Check: name, Players: 1, Mean: vl, Median: vl, Max: vl})
	}
	return out
}

func testLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRouter() (http.Handler, *stubEngine) {
	eng := newStubEngine()
	return NewServer(testLog(), "127.0.0.1:0", eng, nil).Router(), eng
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	h, _ := newTestRouter()
	w := do(t, h, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestChecks(t *testing.T) {
	h, _ := newTestRouter()
	w := do(t, h, http.MethodGet, "/api/v1/checks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var statuses []hyperguard.CheckStatus
	decode(t, w, &statuses)
	if len(statuses) != 2 {
		t.Fatalf("got %d checks, want 2", len(statuses))
	}
}

func TestSetCheckEnabled(t *testing.T) {
	h, eng := newTestRouter()
	w := do(t, h, http.MethodPut, "/api/v1/checks/speed/enabled", map[string]bool{"enabled": false})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if eng.enabled["speed"] {
		t.Fatal("check not disabled")
	}

	w = do(t, h, http.MethodPut, "/api/v1/checks/warp/enabled", map[string]bool{"enabled": true})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown check status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/checks/speed/enabled", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}

func TestVL(t *testing.T) {
	h, eng := newTestRouter()

	w := do(t, h, http.MethodGet, "/api/v1/players/"+eng.known.String()+"/vl?check=speed", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var single struct {
		Check string  `json:"check"`
		VL    float64 `json:"vl"`
	}
	decode(t, w, &single)
	if single.Check != "speed" || single.VL != 12.5 {
		t.Fatalf("body = %+v", single)
	}

	w = do(t, h, http.MethodGet, "/api/v1/players/"+eng.known.String()+"/vl", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var all map[string]float64
	decode(t, w, &all)
	if len(all) != 2 || all["fly"] != 3 {
		t.Fatalf("body = %v", all)
	}

	w = do(t, h, http.MethodGet, "/api/v1/players/"+uuid.NewString()+"/vl", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown player status = %d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/api/v1/players/not-a-uuid/vl", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id status = %d", w.Code)
	}
}

func TestSetExempt(t *testing.T) {
	h, eng := newTestRouter()

	w := do(t, h, http.MethodPut, "/api/v1/players/"+eng.known.String()+"/exempt",
		map[string]any{"check": "speed", "exempt": true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if !eng.exempt["speed"] {
		t.Fatal("exemption not applied")
	}

	w = do(t, h, http.MethodPut, "/api/v1/players/"+eng.known.String()+"/exempt",
		map[string]any{"check": "", "exempt": true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !eng.global {
		t.Fatal("blanket exemption not applied")
	}

	w = do(t, h, http.MethodPut, "/api/v1/players/"+uuid.NewString()+"/exempt",
		map[string]any{"check": "speed", "exempt": true})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown player status = %d", w.Code)
	}
}

func TestSetDebug(t *testing.T) {
	h, eng := newTestRouter()
	w := do(t, h, http.MethodPut, "/api/v1/players/"+eng.known.String()+"/debug",
		map[string]bool{"debug": true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !eng.debug {
		t.Fatal("debug not applied")
	}
}

func TestViolations(t *testing.T) {
	h, eng := newTestRouter()
	eng.recent = []violation.Violation{{Player: "Steve", Check: "speed", VL: 10, Total: 20}}

	id := uuid.New()
	w := do(t, h, http.MethodGet, "/api/v1/violations?player="+id.String()+"&check=speed&limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []violation.Violation
	decode(t, w, &got)
	if len(got) != 1 || got[0].Check != "speed" {
		t.Fatalf("body = %+v", got)
	}
	if eng.lastQuery.Player != id || eng.lastQuery.Check != "speed" || eng.lastQuery.Limit != 5 {
		t.Fatalf("query = %+v", eng.lastQuery)
	}

	w = do(t, h, http.MethodGet, "/api/v1/violations?player=zzz", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed player status = %d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/api/v1/violations?limit=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative limit status = %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	h, _ := newTestRouter()
	w := do(t, h, http.MethodGet, "/api/v1/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var stats []hyperguard.CheckStats
	decode(t, w, &stats)
	if len(stats) != 2 {
		t.Fatalf("got %d stat rows, want 2", len(stats))
	}
}

func TestReload(t *testing.T) {
	h, eng := newTestRouter()
	w := do(t, h, http.MethodPost, "/api/v1/config/reload", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if eng.reloads != 1 {
		t.Fatalf("reloads = %d", eng.reloads)
	}

	eng.reloadErr = errors.New("boom")
	w = do(t, h, http.MethodPost, "/api/v1/config/reload", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("failed reload status = %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter()
	w := do(t, h, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
