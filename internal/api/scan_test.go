package api

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/storage"
)

type captureWriter struct {
	mu     sync.Mutex
	events []*storage.ScanEvent
}

func (c *captureWriter) Write(e *storage.ScanEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureWriter) Close() {}

func (c *captureWriter) last() *storage.ScanEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

func testDeps(t *testing.T, apiKeyHash string) (*Dependencies, *captureWriter) {
	t.Helper()
	rules := []engine.Rule{{
		Reason:   "bad keyword in {}",
		Detector: engine.Pattern(regexp.MustCompile(`(?i)spamword`)),
		Scope:    engine.Everywhere(),
		Title:    true,
		Body:     true,
		MaxRep:   50,
		MaxScore: 1,
	}}
	writer := &captureWriter{}
	return &Dependencies{
		Engine:     engine.NewScanEngine(rules, zap.NewNop()),
		Writer:     writer,
		APIKeyHash: apiKeyHash,
		Logger:     zap.NewNop(),
	}, writer
}

func postScan(t *testing.T, handler http.Handler, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleScan(t *testing.T) {
	deps, writer := testDeps(t, "")
	handler := NewRouter(deps)

	body := `{"post": {"id": 7, "title": "buy spamword now", "body": "<p>hello</p>",
		"username": "seller", "site": "example.com", "owner_rep": 1, "score": 0}}`
	rec := postScan(t, handler, body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Spam {
		t.Error("expected spam verdict")
	}
	if len(resp.Reasons) != 1 || resp.Reasons[0] != "bad keyword in title" {
		t.Errorf("Reasons = %v", resp.Reasons)
	}
	if resp.RequestID == "" {
		t.Error("request_id missing")
	}

	event := writer.last()
	if event == nil {
		t.Fatal("no scan event written")
	}
	if !event.Spam || event.PostID != 7 || event.Site != "example.com" {
		t.Errorf("event = %+v", event)
	}
	if event.RequestID != resp.RequestID {
		t.Error("event and response request IDs differ")
	}
}

func TestHandleScan_CleanPost(t *testing.T) {
	deps, writer := testDeps(t, "")
	handler := NewRouter(deps)

	body := `{"post": {"id": 8, "title": "ordinary question", "body": "<p>nothing here</p>", "site": "example.com"}}`
	rec := postScan(t, handler, body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Spam {
		t.Errorf("clean post flagged: %v", resp.Reasons)
	}
	if resp.Reasons == nil {
		t.Error("reasons must encode as an empty array, not null")
	}
	if event := writer.last(); event == nil || event.Spam {
		t.Error("clean scans are persisted too")
	}
}

func TestHandleScan_Validation(t *testing.T) {
	deps, _ := testDeps(t, "")
	handler := NewRouter(deps)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing post", `{}`},
		{"missing site", `{"post": {"id": 1, "title": "x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := postScan(t, handler, tt.body, ""); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleScan_Auth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("ssk_sekrit"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	deps, _ := testDeps(t, string(hash))
	handler := NewRouter(deps)

	body := `{"post": {"id": 1, "title": "x", "site": "example.com"}}`

	if rec := postScan(t, handler, body, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	if rec := postScan(t, handler, body, "wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rec.Code)
	}
	if rec := postScan(t, handler, body, "ssk_sekrit"); rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}
	// Second request hits the verified-token cache.
	if rec := postScan(t, handler, body, "ssk_sekrit"); rec.Code != http.StatusOK {
		t.Errorf("cached token: status = %d, want 200", rec.Code)
	}
}

func TestToEnginePost_WiresContext(t *testing.T) {
	req := &PostReq{
		ID:       2,
		Site:     "example.com",
		IsAnswer: true,
		Parent:   &PostReq{ID: 1, Site: "example.com"},
		Siblings: []*PostReq{{ID: 3, Site: "example.com"}, nil},
	}
	post := toEnginePost(req)
	if post.Parent == nil || post.Parent.ID != 1 {
		t.Error("parent not wired")
	}
	if len(post.Siblings) != 1 || post.Siblings[0].ID != 3 {
		t.Errorf("siblings = %v", post.Siblings)
	}
}

func TestHealthz(t *testing.T) {
	deps, _ := testDeps(t, "")
	handler := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
